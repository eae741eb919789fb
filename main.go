package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/preview"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"github.com/df07/go-sphere-raytracer/web/server"
)

// renderOptions holds the flags shared by render and preview
type renderOptions struct {
	scene     string
	file      string
	width     int
	samples   int
	depth     int
	seed      int64
	workers   int
	format    string
	output    string
	thumbnail uint
	upload    bool
}

func (o renderOptions) overrides() scene.SamplingConfig {
	return scene.SamplingConfig{
		Width:           o.width,
		SamplesPerPixel: o.samples,
		MaxDepth:        o.depth,
		Seed:            o.seed,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var rootDir string

	root := &cobra.Command{
		Use:          "spheretracer",
		Short:        "Render scenes of spheres with a path tracer",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&rootDir, "root", "", "Directory holding the .env file (default $"+config.EnvRootDir+" or .)")

	loadConfig := func() (config.Config, error) {
		return config.Load(rootDir)
	}

	root.AddCommand(
		newRenderCommand(loadConfig),
		newPreviewCommand(loadConfig),
		newScenesCommand(loadConfig),
		newServeCommand(loadConfig),
	)
	return root
}

func addSceneFlags(cmd *cobra.Command, opts *renderOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.scene, "scene", "random", "Built-in scene name or file:<name> from the scenes directory")
	flags.StringVar(&opts.file, "file", "", "Path to a JSON scene description (overrides --scene)")
	flags.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	flags.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flags.IntVar(&opts.depth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	flags.Int64Var(&opts.seed, "seed", 0, "Random seed (0 = scene default)")
	flags.IntVar(&opts.workers, "workers", 0, "Number of render goroutines (0 = $"+config.EnvWorkers+" or all CPUs)")
}

func newRenderCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), *opts, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addSceneFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: ppm or png (default $"+config.EnvFormat+" or ppm)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "Output file, or - for stdout")
	cmd.Flags().UintVar(&opts.thumbnail, "thumbnail", 0, "Also write a PNG thumbnail at most this many pixels wide")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "Upload the encoded image to S3")
	return cmd
}

func newPreviewCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a scene and show it in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// The terminal belongs to the preview, so progress goes to stderr
			img, _, err := renderScene(cmd.Context(), *opts, cfg, log.New(cmd.ErrOrStderr(), "", 0))
			if err != nil {
				return err
			}
			return preview.Show(cmd.Context(), img)
		},
	}
	addSceneFlags(cmd, opts)
	return cmd
}

func newScenesCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return listScenes(cmd.OutOrStdout(), cfg.ScenesDir)
		},
	}
}

func newServeCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			uploader, err := server.NewUploader(cfg)
			if err != nil {
				return err
			}
			return server.NewServer(port, cfg, uploader).Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")
	return cmd
}

// createScene resolves --file, a file:<name> scene from scenesDir, or a built-in scene
func createScene(opts renderOptions, scenesDir string) (*scene.Scene, error) {
	path := opts.file
	if path == "" {
		name, isFile := strings.CutPrefix(opts.scene, "file:")
		if !isFile {
			return scene.Lookup(opts.scene, opts.overrides())
		}
		path = filepath.Join(scenesDir, name+".json")
	}

	return loaders.LoadSceneFile(path, opts.overrides())
}

func renderScene(ctx context.Context, opts renderOptions, cfg config.Config, logger core.Logger) (*renderer.Image, renderer.RenderStats, error) {
	sceneObj, err := createScene(opts, cfg.ScenesDir)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	rt, err := renderer.NewRaytracer(sceneObj, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	workers := opts.workers
	if workers == 0 {
		workers = cfg.Workers
	}
	rt.SetNumWorkers(workers)

	return rt.Render(ctx)
}

// runRender renders and writes the image to opts.output, or to stdout for "-"
func runRender(ctx context.Context, opts renderOptions, cfg config.Config, stdout, stderr io.Writer) error {
	formatName := opts.format
	if formatName == "" {
		formatName = cfg.Format
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	toStdout := opts.output == "-" || opts.output == ""
	if opts.thumbnail > 0 && toStdout {
		return fmt.Errorf("--thumbnail needs --output to name a file")
	}

	// Keep stdout clean for the image
	var logger core.Logger = renderer.NewDefaultLogger()
	if toStdout {
		logger = log.New(stderr, "", 0)
	}

	img, stats, err := renderScene(ctx, opts, cfg, logger)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, format, img); err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%d%s", sceneName(opts), time.Now().Unix(), format.Extension())
	if toStdout {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
	} else {
		path := outputPath(opts.output, cfg.OutputDir)
		name = filepath.Base(path)
		if err := writeFile(path, buf.Bytes()); err != nil {
			return err
		}
		logger.Printf("Render saved as %s (%.1f samples/pixel)\n", path, stats.AverageSamples)

		if opts.thumbnail > 0 {
			thumbPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.png"
			var thumb bytes.Buffer
			if err := output.EncodeImage(&thumb, output.FormatPNG, output.Thumbnail(img, opts.thumbnail)); err != nil {
				return err
			}
			if err := writeFile(thumbPath, thumb.Bytes()); err != nil {
				return err
			}
			logger.Printf("Thumbnail saved as %s\n", thumbPath)
		}
	}

	if opts.upload {
		uploader, err := output.NewS3Uploader(cfg.S3, logger)
		if err != nil {
			return err
		}
		if _, err := uploader.Upload(ctx, name, buf.Bytes(), format.ContentType()); err != nil {
			return err
		}
	}
	return nil
}

func sceneName(opts renderOptions) string {
	if opts.file != "" {
		base := filepath.Base(opts.file)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.TrimPrefix(opts.scene, "file:")
}

// outputPath places relative paths under the configured output directory
func outputPath(output, outputDir string) string {
	if filepath.IsAbs(output) || outputDir == "" {
		return output
	}
	return filepath.Join(outputDir, output)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	return nil
}

func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Description)
		}
	}
	return nil
}
