package lui

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// pointerState tracks the mouse between frames.
type pointerState struct {
	down      bool
	x, y      float64
	hitNode   *Node // node under the pointer when the button went down
	hoverNode *Node // last node the pointer was over (for mouseover/mouseout)
	button    MouseButton
}

// Root is the top of a widget tree and its attachment to the engine: it
// implements ebiten.Game, turns mouse input into node events and draws the
// tree.
type Root struct {
	node   *Node
	pool   *AtlasPool
	logger *slog.Logger

	width, height int
	background    color.Color

	pointer pointerState
	hitBuf  []*Node
}

// RootOption configures a Root.
type RootOption func(*Root)

// WithScreenSize sets the logical screen size returned by Layout.
func WithScreenSize(w, h int) RootOption {
	return func(r *Root) { r.width, r.height = w, h }
}

// WithBackground sets the color the screen is cleared to before drawing.
// nil leaves the screen untouched.
func WithBackground(c color.Color) RootOption {
	return func(r *Root) { r.background = c }
}

// WithRootLogger sets the root's logger. Defaults to the pool's logger.
func WithRootLogger(l *slog.Logger) RootOption {
	return func(r *Root) { r.logger = l }
}

// NewRoot creates a root whose nodes resolve through pool. A nil pool
// selects DefaultPool.
func NewRoot(pool *AtlasPool, opts ...RootOption) *Root {
	if pool == nil {
		pool = DefaultPool()
	}
	r := &Root{
		node:   NewNode("root", pool),
		pool:   pool,
		width:  640,
		height: 480,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = pool.logger.With("component", "lui.Root")
	}
	return r
}

// Node returns the top-level node.
func (r *Root) Node() *Node { return r.node }

// Pool returns the atlas pool.
func (r *Root) Pool() *AtlasPool { return r.pool }

// Add attaches n to the top-level node.
func (r *Root) Add(n *Node) {
	r.node.AddChild(n)
}

// Remove detaches n from the top-level node. Pointer state referring to
// n's subtree is dropped without firing mouseout.
func (r *Root) Remove(n *Node) {
	r.node.RemoveChild(n)
	if r.pointer.hoverNode != nil && isAncestor(n, r.pointer.hoverNode) {
		r.pointer.hoverNode = nil
	}
	if r.pointer.hitNode != nil && isAncestor(n, r.pointer.hitNode) {
		r.pointer.hitNode = nil
	}
}

// --- ebiten.Game ---

// Compile-time check that Root drives the game loop.
var _ ebiten.Game = (*Root)(nil)

// Update reads the mouse and dispatches events. Implements ebiten.Game.
func (r *Root) Update() error {
	mx, my := ebiten.CursorPosition()
	var pressed bool
	button := r.pointer.button
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	r.UpdatePointer(float64(mx), float64(my), pressed, button)
	return nil
}

// Layout returns the configured screen size. Implements ebiten.Game.
func (r *Root) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.width, r.height
}

// Draw renders the tree depth-first: each node's sprites, then its labels,
// then its children. Implements ebiten.Game.
func (r *Root) Draw(screen *ebiten.Image) {
	if r.background != nil {
		screen.Fill(r.background)
	}
	r.drawNode(screen, r.node, 0, 0)
}

func (r *Root) drawNode(dst *ebiten.Image, n *Node, ox, oy float64) {
	if !n.Visible {
		return
	}
	ox += n.X
	oy += n.Y
	for _, s := range n.sprites {
		if s.Visible {
			drawSprite(dst, s, ox, oy)
		}
	}
	for _, t := range n.texts {
		if t.Visible {
			t.draw(dst, ox, oy)
		}
	}
	for _, c := range n.children {
		r.drawNode(dst, c, ox, oy)
	}
}

// drawSprite draws the sprite's region stretched to its size.
func drawSprite(dst *ebiten.Image, s *Sprite, ox, oy float64) {
	reg := s.region
	if reg.Texture == nil || reg.Width <= 0 || reg.Height <= 0 || s.width <= 0 || s.height <= 0 {
		return
	}
	src := reg.Texture.Image().SubImage(image.Rect(
		int(reg.X), int(reg.Y),
		int(reg.X+reg.Width), int(reg.Y+reg.Height),
	)).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s.width/reg.Width, s.height/reg.Height)
	op.GeoM.Translate(ox+s.x, oy+s.y)
	if s.Color != ColorWhite {
		op.ColorScale.Scale(float32(s.Color.R), float32(s.Color.G), float32(s.Color.B), float32(s.Color.A))
	}
	dst.DrawImage(src, op)
}

// --- Hit testing ---

// collectInteractive walks the tree in draw order, appending visible nodes
// that have bound handlers.
func (r *Root) collectInteractive(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.interactive() {
		buf = append(buf, n)
	}
	for _, c := range n.children {
		buf = r.collectInteractive(c, buf)
	}
	return buf
}

// HitTest returns the topmost interactive node at (x, y) in root
// coordinates, or nil.
func (r *Root) HitTest(x, y float64) *Node {
	r.hitBuf = r.collectInteractive(r.node, r.hitBuf[:0])
	// Iterate backward (reverse draw order): topmost node first.
	for i := len(r.hitBuf) - 1; i >= 0; i-- {
		n := r.hitBuf[i]
		p := n.AbsolutePos()
		b := n.Bounds()
		if b.Empty() {
			continue
		}
		if b.Contains(x-p.X, y-p.Y) {
			return n
		}
	}
	return nil
}

// --- Pointer state machine ---

// UpdatePointer advances the mouse state machine with the pointer at (x, y)
// in root coordinates. It fires mouseout/mouseover when the hovered node
// changes, mousedown on press, mouseup on release, and click when press and
// release land on the same node.
func (r *Root) UpdatePointer(x, y float64, pressed bool, button MouseButton) {
	ps := &r.pointer
	// Nodes detached since the last update get no further events.
	if ps.hoverNode != nil && !r.contains(ps.hoverNode) {
		ps.hoverNode = nil
	}
	if ps.hitNode != nil && !r.contains(ps.hitNode) {
		ps.hitNode = nil
	}
	target := r.HitTest(x, y)

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			r.fire(ps.hoverNode, EventMouseOut, x, y, button)
		}
		if target != nil {
			r.fire(target, EventMouseOver, x, y, button)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
		r.fire(target, EventMouseDown, x, y, button)
	case !pressed && ps.down:
		r.fire(target, EventMouseUp, x, y, ps.button)
		if ps.hitNode != nil && ps.hitNode == target {
			r.fire(target, EventClick, x, y, ps.button)
		}
		ps.down = false
		ps.hitNode = nil
	}
	ps.x, ps.y = x, y
}

// contains reports whether n is still in the root's tree.
func (r *Root) contains(n *Node) bool {
	return isAncestor(r.node, n)
}

// Hovered returns the node currently under the pointer, or nil.
func (r *Root) Hovered() *Node {
	return r.pointer.hoverNode
}

func (r *Root) fire(n *Node, event string, x, y float64, button MouseButton) {
	if n == nil || n.disposed {
		return
	}
	p := n.AbsolutePos()
	fired := n.Trigger(Event{
		Name:    event,
		Target:  n,
		GlobalX: x,
		GlobalY: y,
		LocalX:  x - p.X,
		LocalY:  y - p.Y,
		Button:  button,
	})
	if fired > 0 {
		r.logger.Debug("event dispatched", "event", event, "node", n.Name, "handlers", fired)
	}
}

// --- Run ---

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
}

// Run opens a window and drives the root's Update/Draw loop until the window
// closes. Width and Height also become the logical screen size.
func Run(root *Root, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		root.width, root.height = cfg.Width, cfg.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(root.width, root.height)
	return ebiten.RunGame(root)
}
