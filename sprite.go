package lui

import (
	"fmt"
)

// Sprite is a positioned, sized rectangle showing a texture region. Sprites
// are owned by the Node they were attached to; the *Sprite returned by
// AttachSprite is a stable handle that survives further attachments.
type Sprite struct {
	node *Node
	// pool resolves SetTexture; it outlives Detach and Dispose.
	pool *AtlasPool

	x, y          float64
	width, height float64
	region        AtlasRegion
	err           error

	// Visible hides the sprite without detaching it.
	Visible bool
	// Color tints the sprite. Defaults to white.
	Color Color
}

func newSprite(n *Node, x, y float64, region AtlasRegion, err error) *Sprite {
	return &Sprite{
		node:    n,
		pool:    n.pool,
		x:       x,
		y:       y,
		width:   region.Width,
		height:  region.Height,
		region:  region,
		err:     err,
		Visible: true,
		Color:   ColorWhite,
	}
}

// Pos returns the sprite position relative to its node.
func (s *Sprite) Pos() Vec2 { return Vec2{s.x, s.y} }

// SetPos moves the sprite within its node.
func (s *Sprite) SetPos(x, y float64) {
	s.x, s.y = x, y
}

// Size returns the displayed size in pixels.
func (s *Sprite) Size() Vec2 { return Vec2{s.width, s.height} }

// SetSize stretches the sprite. The next SetTexture resets it to the new
// region's size.
func (s *Sprite) SetSize(w, h float64) {
	s.width, s.height = w, h
}

// Bounds returns the sprite rectangle relative to its node.
func (s *Sprite) Bounds() Rect {
	return Rect{X: s.x, Y: s.y, Width: s.width, Height: s.height}
}

// TexcoordStart returns the normalized top-left texture coordinate.
func (s *Sprite) TexcoordStart() Vec2 { return s.region.UVStart }

// TexcoordEnd returns the normalized bottom-right texture coordinate.
func (s *Sprite) TexcoordEnd() Vec2 { return s.region.UVEnd }

// Region returns the region currently shown.
func (s *Sprite) Region() AtlasRegion { return s.region }

// Texture returns the texture currently shown. Never nil.
func (s *Sprite) Texture() *Texture { return s.region.Texture }

// IsPlaceholder reports whether the sprite shows the placeholder because its
// last image reference failed to resolve.
func (s *Sprite) IsPlaceholder() bool { return s.region.placeholder }

// Err returns the resolution error of the last image reference, or nil.
func (s *Sprite) Err() error { return s.err }

// Node returns the owning node, or nil after Detach.
func (s *Sprite) Node() *Node { return s.node }

// Attached reports whether the sprite still belongs to a node.
func (s *Sprite) Attached() bool { return s.node != nil }

// SetTexture re-resolves ref through the atlas pool of the node the sprite
// was attached to, even after Detach, and shows the result, resizing the
// sprite to the new region. Position and handle identity are unchanged. On
// failure the sprite switches to the placeholder and the error is returned
// (and kept in Err).
func (s *Sprite) SetTexture(ref ImageRef) error {
	pool := s.pool
	if pool == nil {
		pool = DefaultPool()
	}
	region, err := pool.ResolveRef(ref)
	if err != nil {
		pool.logger.Warn("sprite texture unresolved, using placeholder",
			append(refAttrs(ref), "err", err)...)
		region = PlaceholderRegion()
	}
	s.region = region
	s.width, s.height = region.Width, region.Height
	s.err = err
	return err
}

// Detach removes the sprite from its node. The handle stays usable but is
// no longer drawn or counted. No-op if already detached.
func (s *Sprite) Detach() {
	if s.node == nil {
		return
	}
	s.node.removeSprite(s)
	s.node = nil
}

// String formats the diagnostic block printed for each sprite: position,
// size and texture coordinates.
func (s *Sprite) String() string {
	st, en := s.TexcoordStart(), s.TexcoordEnd()
	return fmt.Sprintf("Sprite{pos=(%g, %g) size=(%g, %g) texc=(%.4f, %.4f)-(%.4f, %.4f) src=%s}",
		s.x, s.y, s.width, s.height, st.X, st.Y, en.X, en.Y, s.region)
}
