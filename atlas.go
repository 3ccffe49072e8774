package tagplay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// DecodeTexturePacker extracts frame identifiers from TexturePacker or
// Aseprite JSON. Supports the hash format (single "frames" object), the
// multi-page array format ("textures" array with per-page frame lists) and
// Aseprite's array format ("frames" array of objects with "filename").
// Image extensions are stripped from the identifiers.
func DecodeTexturePacker(jsonData []byte) ([]string, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("tagplay: failed to parse atlas JSON: %w", err)
	}

	switch {
	case probe.Textures != nil:
		return parseArrayFormat(probe.Textures)
	case probe.Frames != nil && bytes.HasPrefix(bytes.TrimSpace(probe.Frames), []byte("[")):
		return parseFrameList(probe.Frames)
	case probe.Frames != nil:
		return parseHashFrames(probe.Frames)
	}
	return nil, fmt.Errorf("tagplay: atlas JSON has neither \"frames\" nor \"textures\" key")
}

// DecodeKivyAtlas extracts frame identifiers from a Kivy .atlas file:
// {"page.png": {"name": [x, y, w, h], ...}, ...}
func DecodeKivyAtlas(data []byte) ([]string, error) {
	var pages map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("tagplay: failed to parse kivy atlas: %w", err)
	}
	var names []string
	for _, regions := range pages {
		for name := range regions {
			names = append(names, name)
		}
	}
	return names, nil
}

// --- JSON structure types ---

type jsonTexturePage struct {
	Image  string                     `json:"image"`
	Frames map[string]json.RawMessage `json:"frames"`
}

type jsonListFrame struct {
	Filename string `json:"filename"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage) ([]string, error) {
	var frames map[string]json.RawMessage
	if err := json.Unmarshal(raw, &frames); err != nil {
		return nil, fmt.Errorf("tagplay: failed to parse atlas frames: %w", err)
	}
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, frameID(name))
	}
	return names, nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage) ([]string, error) {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return nil, fmt.Errorf("tagplay: failed to parse atlas textures array: %w", err)
	}
	var names []string
	for _, tex := range textures {
		for name := range tex.Frames {
			names = append(names, frameID(name))
		}
	}
	return names, nil
}

// parseFrameList parses Aseprite's array format: [{"filename":"...", ...}, ...]
func parseFrameList(raw json.RawMessage) ([]string, error) {
	var frames []jsonListFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return nil, fmt.Errorf("tagplay: failed to parse atlas frame list: %w", err)
	}
	names := make([]string, 0, len(frames))
	for _, f := range frames {
		if f.Filename == "" {
			continue
		}
		names = append(names, frameID(f.Filename))
	}
	return names, nil
}

// frameID strips an image extension from a frame name.
func frameID(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".gif", ".jpg", ".jpeg", ".bmp", ".webp", ".aseprite", ".ase":
		return strings.TrimSuffix(name, path.Ext(name))
	}
	return name
}
