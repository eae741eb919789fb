package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Request limits
const (
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 1000
)

// Uploader publishes encoded renders
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Server handles web requests for the sphere raytracer
type Server struct {
	port     int
	cfg      config.Config
	uploader Uploader // nil when uploads are not configured
	mux      *http.ServeMux
}

// NewServer creates a new web server. uploader may be nil.
func NewServer(port int, cfg config.Config, uploader Uploader) *Server {
	s := &Server{port: port, cfg: cfg, uploader: uploader, mux: http.NewServeMux()}

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// NewUploader returns an S3 uploader when a bucket is configured and nil otherwise
func NewUploader(cfg config.Config) (Uploader, error) {
	if !cfg.S3.Enabled() {
		return nil, nil
	}
	uploader, err := output.NewS3Uploader(cfg.S3, log.Default())
	if err != nil {
		return nil, err
	}
	return uploader, nil
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string        `json:"scene"`   // Built-in scene name or "file:<name>"
	Width   int           `json:"width"`   // Image width; 0 keeps the scene default
	Samples int           `json:"samples"` // Samples per pixel; 0 keeps the scene default
	Depth   int           `json:"depth"`   // Max bounce depth; 0 keeps the scene default
	Seed    int64         `json:"seed"`    // 0 keeps the scene default
	Format  output.Format `json:"format"`
	Upload  bool          `json:"upload"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	NonFiniteSamples int     `json:"nonFiniteSamples"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	AverageLuminance float64 `json:"averageLuminance"` // Mean of the gamma-corrected pixels
}

func toStats(rs renderer.RenderStats, img *renderer.Image) Stats {
	return Stats{
		TotalPixels:      rs.TotalPixels,
		TotalSamples:     rs.TotalSamples,
		AverageSamples:   rs.AverageSamples,
		NonFiniteSamples: rs.NonFiniteSamples,
		Workers:          rs.Workers,
		ElapsedMs:        rs.Elapsed.Milliseconds(),
		AverageLuminance: img.CalculateAverageLuminance(),
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.cfg.ScenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleRender renders the requested scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	rt, err := renderer.NewRaytracer(sceneObj, log.Default())
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	rt.SetNumWorkers(s.cfg.Workers)

	img, stats, err := rt.Render(r.Context())
	if err != nil {
		// Client went away
		log.Printf("Render %s aborted: %v", req.Scene, err)
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, req.Format, img); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if req.Upload {
		key, err := s.upload(r.Context(), req, buf.Bytes())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("X-Upload-Key", key)
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Luminance", strconv.FormatFloat(img.CalculateAverageLuminance(), 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) upload(ctx context.Context, req *RenderRequest, data []byte) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("uploads are not configured")
	}
	name := fmt.Sprintf("%s-%d%s", strings.TrimPrefix(req.Scene, "file:"), time.Now().Unix(), req.Format.Extension())
	return s.uploader.Upload(ctx, name, data, req.Format.ContentType())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "three-spheres" // Default scene
	}

	// Parse and validate all parameters using helper functions
	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	format := query.Get("format")
	if format == "" {
		format = s.cfg.Format
	}
	if req.Format, err = output.ParseFormat(format); err != nil {
		return nil, err
	}
	req.Upload = query.Get("upload") == "true"

	// Performance warning
	if req.Width > 1000 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds a built-in scene or loads a scene file, applying the request overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	overrides := scene.SamplingConfig{
		Width:           req.Width,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		Seed:            req.Seed,
	}

	if !strings.HasPrefix(req.Scene, "file:") {
		return scene.Lookup(req.Scene, overrides)
	}

	files, err := scene.ListSceneFiles(s.cfg.ScenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID != req.Scene {
			continue
		}
		return loaders.LoadSceneFile(info.FilePath, overrides)
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, req.Scene)
}

// statusFor maps configuration errors to 400 and everything else to 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene),
		errors.Is(err, scene.ErrInvalidConfig),
		errors.Is(err, geometry.ErrInvalidCamera),
		errors.Is(err, output.ErrUnknownFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
