package lui

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// DefaultAtlasName is the atlas used by region references that don't name one.
const DefaultAtlasName = "default"

// AtlasRegion is a named sub-rectangle of a texture. Value type; regions are
// produced when an atlas loads and never change afterward.
type AtlasRegion struct {
	Atlas   string // owning atlas name; empty for standalone textures
	Name    string // region name within the atlas; the file path for standalone textures
	Texture *Texture

	X, Y          float64 // top-left corner on the texture, in pixels
	Width, Height float64 // size in pixels

	UVStart Vec2 // normalized top-left texture coordinate
	UVEnd   Vec2 // normalized bottom-right texture coordinate

	placeholder bool
}

// Size returns the region size in pixels.
func (r AtlasRegion) Size() Vec2 {
	return Vec2{r.Width, r.Height}
}

// Rect returns the region's rectangle on its texture.
func (r AtlasRegion) Rect() Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// IsPlaceholder reports whether this region stands in for an unresolvable
// image reference.
func (r AtlasRegion) IsPlaceholder() bool {
	return r.placeholder
}

// String returns "atlas:name" for atlas regions and the name otherwise.
func (r AtlasRegion) String() string {
	if r.Atlas != "" {
		return r.Atlas + ":" + r.Name
	}
	return r.Name
}

func (AtlasRegion) imageRef() {}

// newRegion binds a pixel rectangle to a texture and computes its UVs.
func newRegion(atlas, name string, tex *Texture, rr RegionRect) AtlasRegion {
	tw, th := float64(tex.Width()), float64(tex.Height())
	x, y := float64(rr.X), float64(rr.Y)
	w, h := float64(rr.Width), float64(rr.Height)
	return AtlasRegion{
		Atlas:   atlas,
		Name:    name,
		Texture: tex,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		UVStart: Vec2{x / tw, y / th},
		UVEnd:   Vec2{(x + w) / tw, (y + h) / th},
	}
}

// FullRegion returns a region spanning the whole texture, with UVs (0,0)-(1,1).
func FullRegion(tex *Texture) AtlasRegion {
	r := newRegion("", tex.Path, tex, RegionRect{Width: tex.Width(), Height: tex.Height()})
	return r
}

// PlaceholderRegion returns the region bound to sprites whose reference failed
// to resolve: the 1x1 magenta placeholder texture.
func PlaceholderRegion() AtlasRegion {
	r := FullRegion(PlaceholderTexture())
	r.Name = "placeholder"
	r.placeholder = true
	return r
}

// --- Atlas ---

// Atlas is a single texture plus a set of named regions on it.
type Atlas struct {
	name    string
	texture *Texture
	regions map[string]AtlasRegion
}

// NewAtlas binds parsed descriptor rectangles to tex. Every rectangle must
// lie inside the texture.
func NewAtlas(name string, tex *Texture, rects map[string]RegionRect) (*Atlas, error) {
	if tex == nil {
		return nil, errors.Wrapf(ErrTextureLoadFailed, "atlas %q: nil texture", name)
	}
	a := &Atlas{
		name:    name,
		texture: tex,
		regions: make(map[string]AtlasRegion, len(rects)),
	}
	for rn, rr := range rects {
		if !rr.valid() || rr.X+rr.Width > tex.Width() || rr.Y+rr.Height > tex.Height() {
			return nil, errors.Wrapf(ErrAtlasParse,
				"atlas %q: region %q (%d,%d %dx%d) invalid for texture %dx%d",
				name, rn, rr.X, rr.Y, rr.Width, rr.Height, tex.Width(), tex.Height())
		}
		a.regions[rn] = newRegion(name, rn, tex, rr)
	}
	return a, nil
}

// Name returns the name the atlas was registered under.
func (a *Atlas) Name() string { return a.name }

// Texture returns the backing texture.
func (a *Atlas) Texture() *Texture { return a.texture }

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// Has reports whether the atlas defines the named region.
func (a *Atlas) Has(region string) bool {
	_, ok := a.regions[region]
	return ok
}

// Region returns the named region or an error wrapping ErrRegionNotFound.
func (a *Atlas) Region(name string) (AtlasRegion, error) {
	if r, ok := a.regions[name]; ok {
		return r, nil
	}
	return AtlasRegion{}, errors.Wrapf(ErrRegionNotFound, "%s:%s", a.name, name)
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// --- AtlasPool ---

// DuplicatePolicy decides what happens when an atlas is loaded under a name
// that is already registered.
type DuplicatePolicy uint8

const (
	// DuplicateReplace swaps in the new atlas and logs a warning. Regions
	// already handed out keep pointing at the old texture.
	DuplicateReplace DuplicatePolicy = iota
	// DuplicateReject refuses the load with ErrDuplicateAtlas.
	DuplicateReject
)

// String returns the policy name used in config files.
func (p DuplicatePolicy) String() string {
	if p == DuplicateReject {
		return "reject"
	}
	return "replace"
}

// ParseDuplicatePolicy parses "replace" or "reject". An empty string selects
// DuplicateReplace.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "replace":
		return DuplicateReplace, nil
	case "reject":
		return DuplicateReject, nil
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown duplicate policy %q", s)
}

// AtlasPool maps atlas names to loaded atlases and resolves image references
// against them. Nodes receive a pool at construction; DefaultPool returns the
// process-wide one.
//
// Not safe for concurrent use; all loading and resolution happens on the UI
// goroutine.
type AtlasPool struct {
	atlases      map[string]*Atlas
	textures     *TexturePool
	defaultAtlas string
	policy       DuplicatePolicy
	logger       *slog.Logger
}

// PoolOption configures an AtlasPool.
type PoolOption func(*AtlasPool)

// WithTexturePool shares a texture cache between pools.
func WithTexturePool(tp *TexturePool) PoolOption {
	return func(p *AtlasPool) { p.textures = tp }
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(l *slog.Logger) PoolOption {
	return func(p *AtlasPool) { p.logger = l }
}

// WithDuplicatePolicy selects how re-loading an existing atlas name behaves.
func WithDuplicatePolicy(policy DuplicatePolicy) PoolOption {
	return func(p *AtlasPool) { p.policy = policy }
}

// WithDefaultAtlas changes the atlas used for references without an atlas name.
func WithDefaultAtlas(name string) PoolOption {
	return func(p *AtlasPool) { p.defaultAtlas = name }
}

// NewAtlasPool creates an empty pool.
func NewAtlasPool(opts ...PoolOption) *AtlasPool {
	p := &AtlasPool{
		atlases:      make(map[string]*Atlas),
		defaultAtlas: DefaultAtlasName,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.textures == nil {
		p.textures = NewTexturePool()
	}
	if p.logger == nil {
		p.logger = slog.Default().With("component", "lui.AtlasPool")
	}
	return p
}

var (
	defaultPoolOnce = sync.OnceValue(func() *AtlasPool { return NewAtlasPool() })
	defaultPool     *AtlasPool
)

// DefaultPool returns the process-wide pool. It is created on first call
// unless SetDefaultPool installed one earlier.
func DefaultPool() *AtlasPool {
	if defaultPool == nil {
		defaultPool = defaultPoolOnce()
	}
	return defaultPool
}

// SetDefaultPool replaces the process-wide pool. Passing nil restores the
// lazily created one.
func SetDefaultPool(p *AtlasPool) {
	defaultPool = p
}

// Textures returns the pool's texture cache.
func (p *AtlasPool) Textures() *TexturePool { return p.textures }

// DefaultAtlas returns the name used for references without an atlas.
func (p *AtlasPool) DefaultAtlas() string { return p.defaultAtlas }

// Policy returns the duplicate-name policy.
func (p *AtlasPool) Policy() DuplicatePolicy { return p.policy }

// Logger returns the pool's diagnostic logger.
func (p *AtlasPool) Logger() *slog.Logger { return p.logger }

// LoadAtlas parses the descriptor file, loads the image as a texture and
// registers the atlas under name. Missing inputs fail with
// ErrAtlasFileNotFound, malformed descriptors with ErrAtlasParse and
// undecodable images with ErrTextureLoadFailed.
func (p *AtlasPool) LoadAtlas(name, descriptorPath, imagePath string) error {
	if err := p.checkDuplicate(name); err != nil {
		return err
	}
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		return withCause(ErrAtlasFileNotFound, err, "atlas %q: descriptor %s", name, descriptorPath)
	}
	if _, exists := p.atlases[name]; exists {
		// Reloading picks up an image changed on disk.
		p.textures.Release(imagePath)
	}
	if !p.textures.Exists(imagePath) {
		return errors.Wrapf(ErrAtlasFileNotFound, "atlas %q: image %s", name, imagePath)
	}
	tex, err := p.textures.Load(imagePath)
	if err != nil {
		return errors.Wrapf(err, "atlas %q", name)
	}
	if err := p.AddAtlas(name, data, tex); err != nil {
		return errors.Wrapf(err, "descriptor %s", descriptorPath)
	}
	return nil
}

// AddAtlas registers an atlas from in-memory descriptor data and an already
// loaded texture.
func (p *AtlasPool) AddAtlas(name string, descriptor []byte, tex *Texture) error {
	if err := p.checkDuplicate(name); err != nil {
		return err
	}
	rects, err := ParseDescriptor(descriptor)
	if err != nil {
		return errors.Wrapf(err, "atlas %q", name)
	}
	a, err := NewAtlas(name, tex, rects)
	if err != nil {
		return err
	}
	if _, exists := p.atlases[name]; exists {
		p.logger.Warn("replacing atlas", "atlas", name)
	}
	p.atlases[name] = a
	p.logger.Debug("atlas loaded", "atlas", name, "regions", a.Len(),
		"texture", fmt.Sprintf("%dx%d", tex.Width(), tex.Height()))
	return nil
}

func (p *AtlasPool) checkDuplicate(name string) error {
	if name == "" {
		return errors.Wrap(ErrAtlasParse, "atlas name must not be empty")
	}
	if _, exists := p.atlases[name]; exists && p.policy == DuplicateReject {
		return errors.Wrapf(ErrDuplicateAtlas, "atlas %q", name)
	}
	return nil
}

// Atlas returns the named atlas. An empty name selects the default atlas.
func (p *AtlasPool) Atlas(name string) (*Atlas, error) {
	if name == "" {
		name = p.defaultAtlas
	}
	if a, ok := p.atlases[name]; ok {
		return a, nil
	}
	return nil, errors.Wrapf(ErrAtlasNotFound, "%q", name)
}

// Resolve looks up region in the named atlas, or in the default atlas when
// atlasName is empty.
func (p *AtlasPool) Resolve(atlasName, region string) (AtlasRegion, error) {
	a, err := p.Atlas(atlasName)
	if err != nil {
		return AtlasRegion{}, err
	}
	return a.Region(region)
}

// Names returns the registered atlas names in sorted order.
func (p *AtlasPool) Names() []string {
	names := make([]string, 0, len(p.atlases))
	for n := range p.atlases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered atlases.
func (p *AtlasPool) Len() int { return len(p.atlases) }

// Remove unregisters an atlas. Regions already resolved from it stay valid.
func (p *AtlasPool) Remove(name string) {
	delete(p.atlases, name)
}

// Clear unregisters every atlas and empties the texture cache.
func (p *AtlasPool) Clear() {
	clear(p.atlases)
	p.textures.Clear()
}
