package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	if err := newServerCommand().Execute(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}

func newServerCommand() *cobra.Command {
	var port int
	var rootDir string

	cmd := &cobra.Command{
		Use:          "spheretracer-web",
		Short:        "Sphere Raytracer Web Server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			uploader, err := server.NewUploader(cfg)
			if err != nil {
				return err
			}

			webServer := server.NewServer(port, cfg, uploader)
			log.Printf("Sphere Raytracer Web Server")
			log.Printf("Visit http://localhost:%d/api/scenes to list scenes", port)
			return webServer.Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")
	// Empty lets config.Load fall back to the root dir environment variable
	cmd.Flags().StringVar(&rootDir, "root", "", "Directory holding the .env file (default $"+config.EnvRootDir+" or .)")
	return cmd
}
