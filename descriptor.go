package lui

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RegionRect is a named region's pixel rectangle as read from a descriptor,
// before it is bound to a texture.
type RegionRect struct {
	X, Y, Width, Height int
}

// valid reports whether the rectangle has a non-negative origin and a
// positive size.
func (r RegionRect) valid() bool {
	return r.X >= 0 && r.Y >= 0 && r.Width > 0 && r.Height > 0
}

// ParseDescriptor parses an atlas descriptor into a region-name -> rectangle
// map. Two formats are accepted:
//
//   - the LUI text format, one region per line as "name x y w h", with
//     blank lines and "#" comments ignored and an optional "size w h" header;
//   - TexturePacker JSON in hash, array, or multi-page form. Only regions of
//     the first page are kept, since an atlas binds a single texture.
//
// The format is chosen by the first non-space byte: '{' selects JSON.
func ParseDescriptor(data []byte) (map[string]RegionRect, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSONDescriptor(trimmed)
	}
	return parseTextDescriptor(data)
}

// --- LUI text format ---

func parseTextDescriptor(data []byte) (map[string]RegionRect, error) {
	regions := make(map[string]RegionRect)
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "size" {
			if len(fields) != 3 {
				return nil, errors.Wrapf(ErrAtlasParse, "line %d: size header wants 2 values, got %d", lineNo, len(fields)-1)
			}
			if _, err := parseInts(fields[1:]); err != nil {
				return nil, errors.Wrapf(ErrAtlasParse, "line %d: %v", lineNo, err)
			}
			continue
		}
		if len(fields) != 5 {
			return nil, errors.Wrapf(ErrAtlasParse, "line %d: want \"name x y w h\", got %d fields", lineNo, len(fields))
		}
		v, err := parseInts(fields[1:])
		if err != nil {
			return nil, errors.Wrapf(ErrAtlasParse, "line %d: %v", lineNo, err)
		}
		r := RegionRect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
		if !r.valid() {
			return nil, errors.Wrapf(ErrAtlasParse, "line %d: region %q has invalid rect %v", lineNo, fields[0], v)
		}
		if _, dup := regions[fields[0]]; dup {
			return nil, errors.Wrapf(ErrAtlasParse, "line %d: region %q defined twice", lineNo, fields[0])
		}
		regions[fields[0]] = r
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(ErrAtlasParse, "read: %v", err)
	}
	if len(regions) == 0 {
		return nil, errors.Wrap(ErrAtlasParse, "descriptor defines no regions")
	}
	return regions, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Errorf("%q is not an integer", f)
		}
		out[i] = n
	}
	return out, nil
}

// --- TexturePacker JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename string   `json:"filename"`
	Frame    jsonRect `json:"frame"`
	Rotated  bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string          `json:"image"`
	Frames json.RawMessage `json:"frames"`
}

func parseJSONDescriptor(data []byte) (map[string]RegionRect, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrapf(ErrAtlasParse, "json: %v", err)
	}

	var frames json.RawMessage
	switch {
	case probe.Textures != nil:
		var pages []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, errors.Wrapf(ErrAtlasParse, "json textures: %v", err)
		}
		if len(pages) == 0 {
			return nil, errors.Wrap(ErrAtlasParse, "json textures array is empty")
		}
		frames = pages[0].Frames
	case probe.Frames != nil:
		frames = probe.Frames
	default:
		return nil, errors.Wrap(ErrAtlasParse, "json has neither \"frames\" nor \"textures\" key")
	}

	regions, err := parseJSONFrames(frames)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, errors.Wrap(ErrAtlasParse, "descriptor defines no regions")
	}
	return regions, nil
}

// parseJSONFrames accepts both {"name": {frame...}} and [{"filename": "name", ...}].
func parseJSONFrames(raw json.RawMessage) (map[string]RegionRect, error) {
	regions := make(map[string]RegionRect)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []jsonFrame
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, errors.Wrapf(ErrAtlasParse, "json frames: %v", err)
		}
		for _, f := range list {
			if f.Filename == "" {
				return nil, errors.Wrap(ErrAtlasParse, "json frame without filename")
			}
			if _, dup := regions[f.Filename]; dup {
				return nil, errors.Wrapf(ErrAtlasParse, "json frame %q defined twice", f.Filename)
			}
			r, err := frameToRect(f.Filename, f)
			if err != nil {
				return nil, err
			}
			regions[f.Filename] = r
		}
		return regions, nil
	}

	var hash map[string]jsonFrame
	if err := json.Unmarshal(trimmed, &hash); err != nil {
		return nil, errors.Wrapf(ErrAtlasParse, "json frames: %v", err)
	}
	for name, f := range hash {
		r, err := frameToRect(name, f)
		if err != nil {
			return nil, err
		}
		regions[name] = r
	}
	return regions, nil
}

// frameToRect validates a frame and returns its on-page rectangle. Rotated
// frames are rejected: sprites are drawn unrotated, so their UVs would
// cover the wrong pixels.
func frameToRect(name string, f jsonFrame) (RegionRect, error) {
	if f.Rotated {
		return RegionRect{}, errors.Wrapf(ErrAtlasParse, "json frame %q is rotated; rotated frames are not supported", name)
	}
	r := RegionRect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H}
	if !r.valid() {
		return RegionRect{}, errors.Wrapf(ErrAtlasParse, "json frame %q has invalid rect %v", name, r)
	}
	return r, nil
}
