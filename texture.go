package lui

import (
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Texture is a shared handle to a decoded image. The same Texture may back
// several atlases and standalone sprites.
type Texture struct {
	// Path is the file the texture was loaded from; empty for in-memory images.
	Path  string
	image *ebiten.Image
	w, h  int
}

// NewTexture wraps an existing image. Panics if img is nil.
func NewTexture(img *ebiten.Image) *Texture {
	if img == nil {
		panic("lui: cannot create texture from nil image")
	}
	b := img.Bounds()
	return &Texture{image: img, w: b.Dx(), h: b.Dy()}
}

// NewTextureFromImage uploads a decoded image.Image as a texture.
func NewTextureFromImage(img image.Image) *Texture {
	return NewTexture(ebiten.NewImageFromImage(img))
}

// Image returns the backing ebiten image.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.w }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.h }

// Size returns the texture size in pixels.
func (t *Texture) Size() Vec2 {
	return Vec2{float64(t.w), float64(t.h)}
}

func (*Texture) imageRef() {}

// placeholder singleton (no sync.Once, the UI is single-threaded)
var placeholderTexture *Texture

// PlaceholderTexture returns the 1x1 magenta texture bound to sprites whose
// image reference could not be resolved.
func PlaceholderTexture() *Texture {
	if placeholderTexture == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
		placeholderTexture = NewTexture(img)
	}
	return placeholderTexture
}

// TexturePool loads textures from disk and caches them by path, so a file
// is decoded once no matter how many atlases or sprites reference it.
//
// Not safe for concurrent use; load from the UI goroutine.
type TexturePool struct {
	cache map[string]*Texture
}

// NewTexturePool creates an empty texture pool.
func NewTexturePool() *TexturePool {
	return &TexturePool{cache: make(map[string]*Texture)}
}

// Load decodes the image at path, or returns the cached texture if it has
// been loaded before. Supported formats: PNG, JPEG, GIF, BMP and WebP.
func (p *TexturePool) Load(path string) (*Texture, error) {
	key := filepath.Clean(path)
	if tex, ok := p.cache[key]; ok {
		return tex, nil
	}

	f, err := os.Open(key)
	if err != nil {
		return nil, withCause(ErrTextureLoadFailed, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, withCause(ErrTextureLoadFailed, err, "decode %s", path)
	}

	tex := NewTextureFromImage(img)
	tex.Path = key
	p.cache[key] = tex
	return tex, nil
}

// Exists reports whether path names a regular file on disk or a texture
// already in the cache.
func (p *TexturePool) Exists(path string) bool {
	key := filepath.Clean(path)
	if _, ok := p.cache[key]; ok {
		return true
	}
	fi, err := os.Stat(key)
	return err == nil && fi.Mode().IsRegular()
}

// Len returns the number of cached textures.
func (p *TexturePool) Len() int {
	return len(p.cache)
}

// Release drops the cached texture for path. Sprites and atlases still
// holding it keep it alive.
func (p *TexturePool) Release(path string) {
	delete(p.cache, filepath.Clean(path))
}

// Clear drops every cached texture.
func (p *TexturePool) Clear() {
	clear(p.cache)
}
