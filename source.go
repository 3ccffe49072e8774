package tagplay

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Source produces the tag-to-frames mapping for a spritesheet identifier.
// The result is treated as an opaque snapshot; NewFrameCatalog orders it.
type Source interface {
	Load(sheet string) (map[string][]string, error)
}

// ErrUnknownSheet is returned by sources that have no entry for a sheet.
var ErrUnknownSheet = errors.New("tagplay: unknown spritesheet")

// ErrNoDecoder is returned when no decoder is registered for a sheet's
// extension and the registry has no fallback.
var ErrNoDecoder = errors.New("tagplay: no decoder for spritesheet")

// MapSource serves pre-grouped frames keyed by sheet.
type MapSource map[string]map[string][]string

// Load returns the groups registered for sheet.
func (m MapSource) Load(sheet string) (map[string][]string, error) {
	groups, ok := m[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
	}
	return groups, nil
}

// NamesSource serves raw frame identifiers keyed by sheet and groups them
// with GroupFrames.
type NamesSource map[string][]string

// Load groups the frame identifiers registered for sheet.
func (n NamesSource) Load(sheet string) (map[string][]string, error) {
	names, ok := n[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
	}
	return GroupFrames(names), nil
}

// DecodeFunc extracts frame identifiers from a spritesheet description.
type DecodeFunc func(data []byte) ([]string, error)

// DecoderRegistry maps file extensions to decoders, with a fallback used
// for unregistered extensions.
type DecoderRegistry struct {
	decoders map[string]DecodeFunc
	order    []string
	fallback DecodeFunc
}

// NewDecoderRegistry creates an empty registry with the given fallback.
func NewDecoderRegistry(fallback DecodeFunc) *DecoderRegistry {
	return &DecoderRegistry{
		decoders: make(map[string]DecodeFunc),
		fallback: fallback,
	}
}

// DefaultDecoders returns a registry that reads Kivy ".atlas" files and
// TexturePacker/Aseprite ".json" files, falling back to the JSON decoder.
func DefaultDecoders() *DecoderRegistry {
	r := NewDecoderRegistry(DecodeTexturePacker)
	r.Register(".atlas", DecodeKivyAtlas)
	r.Register(".json", DecodeTexturePacker)
	return r
}

// Register associates ext (with leading dot) with fn. Later registrations
// for the same extension replace earlier ones.
func (r *DecoderRegistry) Register(ext string, fn DecodeFunc) {
	ext = strings.ToLower(ext)
	if _, ok := r.decoders[ext]; !ok {
		r.order = append(r.order, ext)
	}
	r.decoders[ext] = fn
}

// Lookup returns the decoder for ext, or the fallback, which may be nil.
func (r *DecoderRegistry) Lookup(ext string) DecodeFunc {
	if fn, ok := r.decoders[strings.ToLower(ext)]; ok {
		return fn
	}
	return r.fallback
}

// Extensions returns registered extensions in registration order.
func (r *DecoderRegistry) Extensions() []string {
	return append([]string(nil), r.order...)
}

// FSSource loads spritesheet descriptions from a file system. A sheet with
// a known extension is read directly; otherwise each registered extension is
// tried in registration order, so "sprites/snowflake" finds
// "sprites/snowflake.atlas".
type FSSource struct {
	FS       fs.FS
	Decoders *DecoderRegistry
}

// NewFSSource creates a source over fsys using DefaultDecoders.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{FS: fsys, Decoders: DefaultDecoders()}
}

// Load reads and decodes sheet, then groups its frames.
func (s *FSSource) Load(sheet string) (map[string][]string, error) {
	decoders := s.Decoders
	if decoders == nil {
		decoders = DefaultDecoders()
	}
	name, data, err := s.read(sheet, decoders)
	if err != nil {
		return nil, err
	}
	decode := decoders.Lookup(path.Ext(name))
	if decode == nil {
		return nil, fmt.Errorf("decode %s: %w", name, ErrNoDecoder)
	}
	names, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return GroupFrames(names), nil
}

func (s *FSSource) read(sheet string, decoders *DecoderRegistry) (string, []byte, error) {
	if _, known := decoders.decoders[strings.ToLower(path.Ext(sheet))]; known {
		data, err := fs.ReadFile(s.FS, sheet)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrUnknownSheet, err)
		}
		return sheet, data, nil
	}
	for _, ext := range decoders.order {
		data, err := fs.ReadFile(s.FS, sheet+ext)
		if err == nil {
			return sheet + ext, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("read %s: %w", sheet+ext, err)
		}
	}
	data, err := fs.ReadFile(s.FS, sheet)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
	}
	return sheet, data, nil
}
