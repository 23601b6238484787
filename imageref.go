package lui

import (
	"strings"

	"github.com/pkg/errors"
)

// ImageRef is anything a sprite can be textured with. It is a closed set:
//
//   - AtlasRef: a region in a named atlas, or in the default atlas
//   - NameRef: a bare name, tried as a default-atlas region, then as a file
//   - PathRef: an image file loaded as a standalone texture
//   - AtlasRegion: an already resolved region
//   - *Texture: a pre-loaded texture used whole
//
// Use Ref to build one from the string forms ":region", "atlas:region" and
// "path/or/name".
type ImageRef interface {
	imageRef()
}

// AtlasRef names a region in an atlas. An empty Atlas selects the pool's
// default atlas.
type AtlasRef struct {
	Atlas  string
	Region string
}

func (AtlasRef) imageRef() {}

// String returns the "atlas:region" form.
func (r AtlasRef) String() string { return r.Atlas + ":" + r.Region }

// NameRef is a colon-free string. It resolves as a default-atlas region when
// one exists under that name, otherwise as a file path.
type NameRef string

func (NameRef) imageRef() {}

// PathRef is an image file loaded directly, bypassing atlases. The region
// spans the whole image.
type PathRef string

func (PathRef) imageRef() {}

// Ref parses the string forms of an image reference. A colon splits atlas and
// region names, and an empty atlas segment means the default atlas. A string
// starting with a Windows drive ("C:\", "C:/") is a path. Anything else is a
// NameRef.
func Ref(s string) ImageRef {
	if isDrivePath(s) {
		return PathRef(s)
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return AtlasRef{Atlas: s[:i], Region: s[i+1:]}
	}
	return NameRef(s)
}

func isDrivePath(s string) bool {
	if len(s) < 3 || s[1] != ':' || (s[2] != '\\' && s[2] != '/') {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ResolveRef turns any image reference into a region. It never returns a
// placeholder; callers decide how to degrade on error.
func (p *AtlasPool) ResolveRef(ref ImageRef) (AtlasRegion, error) {
	switch r := ref.(type) {
	case AtlasRef:
		return p.Resolve(r.Atlas, r.Region)
	case NameRef:
		if a, err := p.Atlas(""); err == nil && a.Has(string(r)) {
			return a.Region(string(r))
		}
		if p.textures.Exists(string(r)) {
			return p.resolvePath(string(r))
		}
		return AtlasRegion{}, errors.Wrapf(ErrRegionNotFound,
			"%q is neither a region of atlas %q nor an existing file", string(r), p.defaultAtlas)
	case PathRef:
		return p.resolvePath(string(r))
	case AtlasRegion:
		if r.Texture == nil {
			return AtlasRegion{}, errors.Wrapf(ErrTextureLoadFailed, "region %s has no texture", r)
		}
		return r, nil
	case *Texture:
		if r == nil {
			return AtlasRegion{}, errors.Wrap(ErrTextureLoadFailed, "nil texture")
		}
		return FullRegion(r), nil
	case nil:
		return AtlasRegion{}, errors.Wrap(ErrTextureLoadFailed, "nil image reference")
	}
	return AtlasRegion{}, errors.Wrapf(ErrTextureLoadFailed, "unsupported image reference %T", ref)
}

func (p *AtlasPool) resolvePath(path string) (AtlasRegion, error) {
	tex, err := p.textures.Load(path)
	if err != nil {
		return AtlasRegion{}, err
	}
	return FullRegion(tex), nil
}

// refAttrs returns log attributes describing ref.
func refAttrs(ref ImageRef) []any {
	switch r := ref.(type) {
	case AtlasRef:
		return []any{"atlas", r.Atlas, "region", r.Region}
	case NameRef:
		return []any{"name", string(r)}
	case PathRef:
		return []any{"path", string(r)}
	case AtlasRegion:
		return []any{"region", r.String()}
	case *Texture:
		if r != nil {
			return []any{"texture", r.Path}
		}
	}
	return []any{"ref", ref}
}
