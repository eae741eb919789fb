package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "start", "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// StartUpdate announces the render about to run
type StartUpdate struct {
	RenderID       string `json:"renderId"`
	Scene          string `json:"scene"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Samples        int    `json:"samples"`
	MaxDepth       int    `json:"maxDepth"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	RenderID  string `json:"renderId"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	UploadKey string `json:"uploadKey,omitempty"`
}

// handleRenderStream renders a scene while streaming its log output via SSE,
// then sends the finished image in a final "complete" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns w until the channel is closed
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	renderID, consoleChan, webLogger := s.setupConsoleLogging()
	var forwarder sync.WaitGroup
	forwarder.Add(1)
	go func() {
		defer forwarder.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	rt, err := renderer.NewRaytracer(sceneObj, webLogger)
	if err != nil {
		close(consoleChan)
		forwarder.Wait()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}
	rt.SetNumWorkers(s.cfg.Workers)

	s.sendEvent(ctx, sseEventChan, "start", StartUpdate{
		RenderID:       renderID,
		Scene:          req.Scene,
		Width:          rt.Width(),
		Height:         rt.Height(),
		Samples:        sceneObj.SamplingConfig.SamplesPerPixel,
		MaxDepth:       sceneObj.SamplingConfig.MaxDepth,
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	})

	img, stats, err := rt.Render(ctx)

	// The logger is idle once Render returns
	close(consoleChan)
	forwarder.Wait()

	if err != nil {
		log.Printf("Render %s aborted: %v", renderID, err)
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	complete := CompleteUpdate{RenderID: renderID, Stats: toStats(stats, img)}
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, img); err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Error encoding image: %v", err))
		return
	}
	complete.ImageData = base64.StdEncoding.EncodeToString(buf.Bytes())

	if req.Upload {
		var encoded bytes.Buffer
		if err := output.Encode(&encoded, req.Format, img); err != nil {
			s.handleError(ctx, sseEventChan, err.Error())
			return
		}
		if complete.UploadKey, err = s.upload(ctx, req, encoded.Bytes()); err != nil {
			s.handleError(ctx, sseEventChan, err.Error())
			return
		}
	}

	s.sendEvent(ctx, sseEventChan, "complete", complete)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (string, chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return renderID, consoleChan, NewWebLogger(renderID, consoleChan)
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// sendEvent marshals v and queues it for the writer
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
