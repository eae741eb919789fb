package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Lookup for names outside the registry
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtInGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier
	Name        string `json:"name"`               // Scene name
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to the JSON description (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Builder constructs a built-in scene with sampling overrides applied
type Builder func(overrides ...SamplingConfig) (*Scene, error)

type builtIn struct {
	info  SceneInfo
	build Builder
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "random",
			Name:        "Random Spheres",
			Description: "Grid of random diffuse, metal and glass spheres around three large ones",
		},
		build: NewRandomScene,
	},
	{
		info: SceneInfo{
			ID:          "three-spheres",
			Name:        "Three Spheres",
			Description: "Diffuse, metal and hollow glass spheres on a ground sphere",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "ground",
			Name:        "Ground",
			Description: "A single large diffuse sphere under the sky",
		},
		build: NewGroundScene,
	},
}

// Names returns the built-in scene identifiers in registry order
func Names() []string {
	names := make([]string, 0, len(builtIns))
	for _, b := range builtIns {
		names = append(names, b.info.ID)
	}
	return names
}

// Lookup builds the named built-in scene with the given sampling overrides
func Lookup(name string, overrides SamplingConfig) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.build(overrides)
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
}

// ListBuiltInScenes returns metadata for every built-in scene
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// ListSceneFiles scans dir for JSON scene descriptions. A missing directory yields no scenes.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		filename := filepath.Base(filePath)
		nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))
		scenes = append(scenes, SceneInfo{
			ID:          fmt.Sprintf("file:%s", nameWithoutExt),
			Name:        titleCase(nameWithoutExt),
			DisplayName: titleCase(nameWithoutExt),
			Group:       fileGroup,
			Type:        "file",
			FilePath:    filePath,
		})
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns built-in scenes followed by the scene files found in dir
func ListAllScenes(dir string) (ScenesResponse, error) {
	response := ScenesResponse{
		Groups: []SceneGroup{{Name: builtInGroup, Scenes: ListBuiltInScenes()}},
	}

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	if len(fileScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{Name: fileGroup, Scenes: fileScenes})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "book-cover" -> "Book Cover"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
