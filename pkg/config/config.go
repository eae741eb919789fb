package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvRootDir   = "SPHERETRACER_ROOT_DIR"
	EnvOutputDir = "SPHERETRACER_OUTPUT_DIR"
	EnvScenesDir = "SPHERETRACER_SCENES_DIR"
	EnvWorkers   = "SPHERETRACER_WORKERS"
	EnvFormat    = "SPHERETRACER_FORMAT"
	EnvS3Access  = "S3_ACCESS_KEY"
	EnvS3Secret  = "S3_SECRET_KEY"
	EnvS3Endpt   = "S3_ENDPOINT"
	EnvS3Region  = "S3_REGION"
	EnvS3Bucket  = "S3_BUCKET"
	EnvS3Prefix  = "S3_PREFIX"
)

// ErrInvalidEnv is wrapped by every malformed environment value
var ErrInvalidEnv = errors.New("invalid environment configuration")

// Config holds settings read from the environment and the optional .env file
type Config struct {
	RootDir   string
	OutputDir string // Directory for rendered files
	ScenesDir string // Directory scanned for JSON scene descriptions
	Workers   int    // 0 = one per CPU
	Format    string // "ppm" or "png"
	S3        S3Config
}

// S3Config holds the object storage settings used to publish renders
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string // Key prefix for uploaded objects
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		RootDir:   ".",
		OutputDir: ".",
		ScenesDir: "scenes",
		Workers:   0,
		Format:    "ppm",
		S3:        S3Config{Region: "us-east-1", Prefix: "renders/"},
	}
}

// Load reads <rootDir>/.env (if present) and the process environment.
// Process environment values win over the file; the file never modifies the environment.
func Load(rootDir string) (Config, error) {
	if rootDir == "" {
		rootDir = getEnv(EnvRootDir, nil, ".")
	}

	fileEnv, err := godotenv.Read(filepath.Join(rootDir, ".env"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read .env: %w", err)
		}
		fileEnv = map[string]string{}
	}

	defaults := Default()
	cfg := Config{
		RootDir:   rootDir,
		OutputDir: getEnv(EnvOutputDir, fileEnv, defaults.OutputDir),
		ScenesDir: getEnv(EnvScenesDir, fileEnv, defaults.ScenesDir),
		Format:    strings.ToLower(getEnv(EnvFormat, fileEnv, defaults.Format)),
		S3: S3Config{
			AccessKey: getEnv(EnvS3Access, fileEnv, ""),
			SecretKey: getEnv(EnvS3Secret, fileEnv, ""),
			Endpoint:  getEnv(EnvS3Endpt, fileEnv, ""),
			Region:    getEnv(EnvS3Region, fileEnv, defaults.S3.Region),
			Bucket:    getEnv(EnvS3Bucket, fileEnv, ""),
			Prefix:    getEnv(EnvS3Prefix, fileEnv, defaults.S3.Prefix),
		},
	}

	if workers := getEnv(EnvWorkers, fileEnv, ""); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%w: %s=%q is not a non-negative integer", ErrInvalidEnv, EnvWorkers, workers)
		}
		cfg.Workers = n
	}

	switch cfg.Format {
	case "ppm", "png":
	default:
		return Config{}, fmt.Errorf("%w: %s=%q, want ppm or png", ErrInvalidEnv, EnvFormat, cfg.Format)
	}

	return cfg, nil
}

// Helper to get a setting from the environment, then the .env file, then a default.
func getEnv(key string, fileEnv map[string]string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if value, ok := fileEnv[key]; ok {
		return value
	}
	return fallback
}
