package server

import (
	"net/http"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// SceneConfigResponse describes a scene as it would render with the request overrides
type SceneConfigResponse struct {
	Scene          string                      `json:"scene"`
	Sampling       SamplingDefaults            `json:"sampling"`
	Camera         geometry.CameraConfig       `json:"camera"`    // Focus distance resolved
	AutoFocus      bool                        `json:"autoFocus"` // Focus distance was derived from lookFrom/lookAt
	Forward        core.Vec3                   `json:"forward"`
	Background     scene.BackgroundDescription `json:"background"`
	PrimitiveCount int                         `json:"primitiveCount"`
	Limits         map[string]Limit            `json:"limits"`
}

// SamplingDefaults is the resolved sampling configuration plus the derived height
type SamplingDefaults struct {
	scene.SamplingConfig
	Height int `json:"height"`
}

// Limit is the accepted range of a request parameter
type Limit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// handleSceneConfig returns the resolved configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
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

	sampling := sceneObj.SamplingConfig
	writeJSON(w, http.StatusOK, SceneConfigResponse{
		Scene:          req.Scene,
		Sampling:       SamplingDefaults{SamplingConfig: sampling, Height: sampling.Height()},
		Camera:         sceneObj.Camera.Config(),
		AutoFocus:      sceneObj.CameraConfig.FocusDistance == 0,
		Forward:        sceneObj.Camera.GetCameraForward(),
		Background:     describeBackground(sceneObj.Background),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		Limits: map[string]Limit{
			"width":   {Min: 1, Max: maxWidth},
			"samples": {Min: 1, Max: maxSamples},
			"depth":   {Min: 1, Max: maxDepth},
		},
	})
}

func describeBackground(background lights.Background) scene.BackgroundDescription {
	desc := scene.BackgroundDescription{Type: background.Type()}
	switch bg := background.(type) {
	case *lights.GradientInfiniteLight:
		desc.Top, desc.Bottom = bg.Colors()
	case *lights.UniformInfiniteLight:
		desc.Top = bg.Emission()
	}
	return desc
}
