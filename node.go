package lui

import (
	"github.com/pkg/errors"
)

// nodeIDCounter is a plain counter (no atomic, the UI is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the base widget. It owns an ordered list of sprites, a list of
// text labels, child nodes and event bindings. Widgets embed *Node or hold
// one.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Position relative to the parent.
	X, Y float64
	// Width and Height set an explicit hit area. When both are zero the area
	// is the union of the node's sprites and labels.
	Width, Height float64

	// Visible hides the node and its subtree from drawing and hit testing.
	Visible bool

	// UserData is free for application use.
	UserData any

	// Hierarchy
	Parent   *Node
	children []*Node

	pool    *AtlasPool
	sprites []*Sprite
	texts   []*Text
	events  eventBinder

	disposed bool
}

// NewNode creates a node that resolves image references through pool. A nil
// pool selects DefaultPool.
func NewNode(name string, pool *AtlasPool) *Node {
	if pool == nil {
		pool = DefaultPool()
	}
	return &Node{
		ID:      nextNodeID(),
		Name:    name,
		Visible: true,
		pool:    pool,
	}
}

// Pool returns the atlas pool the node resolves references through.
func (n *Node) Pool() *AtlasPool { return n.pool }

// SetPos moves the node within its parent.
func (n *Node) SetPos(x, y float64) {
	n.X, n.Y = x, y
}

// Pos returns the position relative to the parent.
func (n *Node) Pos() Vec2 { return Vec2{n.X, n.Y} }

// AbsolutePos returns the position relative to the root.
func (n *Node) AbsolutePos() Vec2 {
	var x, y float64
	for p := n; p != nil; p = p.Parent {
		x += p.X
		y += p.Y
	}
	return Vec2{x, y}
}

// Bounds returns the node's hit area in its own coordinate space.
func (n *Node) Bounds() Rect {
	if n.Width != 0 || n.Height != 0 {
		return Rect{Width: n.Width, Height: n.Height}
	}
	var r Rect
	for _, s := range n.sprites {
		if s.Visible {
			r = r.Union(s.Bounds())
		}
	}
	for _, t := range n.texts {
		if t.Visible {
			r = r.Union(t.Bounds())
		}
	}
	return r
}

// --- Sprites ---

// AttachSprite resolves ref and appends a sprite at (x, y) sized to the
// resolved region. Resolution failures never abort: the failure is logged,
// the sprite shows the placeholder, and Sprite.Err reports the cause.
//
// The returned pointer stays valid however many sprites are attached later.
func (n *Node) AttachSprite(x, y float64, ref ImageRef) *Sprite {
	region, err := n.pool.ResolveRef(ref)
	if err != nil {
		n.pool.logger.Warn("sprite reference unresolved, using placeholder",
			append(refAttrs(ref), "node", n.Name, "err", err)...)
		region = PlaceholderRegion()
	}
	s := newSprite(n, x, y, region, err)
	n.sprites = append(n.sprites, s)
	return s
}

// GetAtlasImage resolves a region without attaching it. With one argument the
// region is looked up in the default atlas; with two the first names the
// atlas.
func (n *Node) GetAtlasImage(names ...string) (AtlasRegion, error) {
	switch len(names) {
	case 1:
		return n.pool.Resolve("", names[0])
	case 2:
		return n.pool.Resolve(names[0], names[1])
	}
	return AtlasRegion{}, errors.Errorf("lui: GetAtlasImage wants 1 or 2 names, got %d", len(names))
}

// SpriteCount returns the number of attached sprites.
func (n *Node) SpriteCount() int {
	return len(n.sprites)
}

// Sprite returns the sprite at index. Panics with an error wrapping
// ErrIndexOutOfRange if index is outside [0, SpriteCount()).
func (n *Node) Sprite(index int) *Sprite {
	if index < 0 || index >= len(n.sprites) {
		indexPanic("sprite", index, len(n.sprites))
	}
	return n.sprites[index]
}

// Sprites returns the sprite list. The returned slice MUST NOT be mutated.
func (n *Node) Sprites() []*Sprite {
	return n.sprites
}

func (n *Node) removeSprite(s *Sprite) {
	for i, c := range n.sprites {
		if c == s {
			copy(n.sprites[i:], n.sprites[i+1:])
			n.sprites[len(n.sprites)-1] = nil
			n.sprites = n.sprites[:len(n.sprites)-1]
			return
		}
	}
}

// --- Text ---

// AttachText appends a text label anchored at (x, y). A wrapWidth of 0
// disables wrapping.
func (n *Node) AttachText(x, y float64, content string, fontSize float64, align TextAlign, wrapWidth float64) *Text {
	t := newText(n, x, y, content, fontSize, align, wrapWidth)
	n.texts = append(n.texts, t)
	return t
}

// TextCount returns the number of attached labels.
func (n *Node) TextCount() int {
	return len(n.texts)
}

// Text returns the label at index. Panics with an error wrapping
// ErrIndexOutOfRange if index is outside [0, TextCount()).
func (n *Node) Text(index int) *Text {
	if index < 0 || index >= len(n.texts) {
		indexPanic("text", index, len(n.texts))
	}
	return n.texts[index]
}

func (n *Node) removeText(t *Text) {
	for i, c := range n.texts {
		if c == t {
			copy(n.texts[i:], n.texts[i+1:])
			n.texts[len(n.texts)-1] = nil
			n.texts = n.texts[:len(n.texts)-1]
			return
		}
	}
}

// --- Events ---

// Bind registers fn for the named event. Several handlers may be bound to the
// same event; they run in registration order.
func (n *Node) Bind(event string, fn Handler) CallbackHandle {
	return n.events.bind(event, fn)
}

// Trigger dispatches ev to this node's handlers for ev.Name. Target is set to
// n when empty. Returns the number of handlers invoked.
func (n *Node) Trigger(ev Event) int {
	if ev.Target == nil {
		ev.Target = n
	}
	return n.events.dispatch(ev)
}

// HasHandlers reports whether any handler is bound to event.
func (n *Node) HasHandlers(event string) bool {
	return n.events.count(event) > 0
}

// interactive reports whether the node takes part in hit testing.
func (n *Node) interactive() bool {
	return n.events.bound()
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("lui: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("lui: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("lui: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index. Panics with an error wrapping
// ErrIndexOutOfRange if index is out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		indexPanic("child", index, len(n.children))
	}
	return n.children[index]
}

// --- Disposal ---

// Dispose removes this node from its parent and releases its sprites,
// labels, handlers and descendants. Sprite and Text handles report
// Attached() == false afterward.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	for _, s := range n.sprites {
		s.node = nil
	}
	for _, t := range n.texts {
		t.node = nil
	}
	n.children = nil
	n.sprites = nil
	n.texts = nil
	n.events.reset()
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
