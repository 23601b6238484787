package lui

import (
	"bytes"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is used by labels created with a non-positive size.
const DefaultFontSize = 16

// defaultFontSource is parsed on first use (no sync.Once, the UI is
// single-threaded).
var defaultFontSource *text.GoTextFaceSource

func fontSource() *text.GoTextFaceSource {
	if defaultFontSource == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			// goregular.TTF is compiled in; failure means a broken build.
			panic("lui: cannot parse bundled font: " + err.Error())
		}
		defaultFontSource = src
	}
	return defaultFontSource
}

// Text is a label attached to a Node. Its position is the anchor the
// alignment is relative to: the left edge, the center or the right edge of
// every line.
type Text struct {
	node *Node

	x, y      float64
	content   string
	fontSize  float64
	align     TextAlign
	wrapWidth float64

	// Visible hides the label without detaching it.
	Visible bool
	// Color is the fill color. Defaults to white.
	Color Color

	// Cached layout
	layoutDirty bool
	lines       []string
	measuredW   float64
	lineHeight  float64
	face        *text.GoTextFace
}

func newText(n *Node, x, y float64, content string, fontSize float64, align TextAlign, wrapWidth float64) *Text {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return &Text{
		node:        n,
		x:           x,
		y:           y,
		content:     content,
		fontSize:    fontSize,
		align:       align,
		wrapWidth:   wrapWidth,
		Visible:     true,
		Color:       ColorWhite,
		layoutDirty: true,
	}
}

// Text returns the label content.
func (t *Text) Text() string { return t.content }

// SetText replaces the content.
func (t *Text) SetText(s string) {
	if s == t.content {
		return
	}
	t.content = s
	t.layoutDirty = true
}

// FontSize returns the font size in pixels.
func (t *Text) FontSize() float64 { return t.fontSize }

// SetFontSize changes the font size. Non-positive sizes select DefaultFontSize.
func (t *Text) SetFontSize(size float64) {
	if size <= 0 {
		size = DefaultFontSize
	}
	t.fontSize = size
	t.layoutDirty = true
}

// Align returns the horizontal alignment.
func (t *Text) Align() TextAlign { return t.align }

// SetAlign changes the horizontal alignment.
func (t *Text) SetAlign(a TextAlign) { t.align = a }

// WrapWidth returns the wrap width; 0 disables wrapping.
func (t *Text) WrapWidth() float64 { return t.wrapWidth }

// SetWrapWidth changes the wrap width; 0 disables wrapping.
func (t *Text) SetWrapWidth(w float64) {
	t.wrapWidth = w
	t.layoutDirty = true
}

// Pos returns the anchor relative to the owning node.
func (t *Text) Pos() Vec2 { return Vec2{t.x, t.y} }

// SetPos moves the anchor.
func (t *Text) SetPos(x, y float64) { t.x, t.y = x, y }

// Node returns the owning node, or nil after Detach.
func (t *Text) Node() *Node { return t.node }

// Detach removes the label from its node. No-op if already detached.
func (t *Text) Detach() {
	if t.node == nil {
		return
	}
	t.node.removeText(t)
	t.node = nil
}

// Lines returns the wrapped lines. The returned slice MUST NOT be mutated.
func (t *Text) Lines() []string {
	t.layout()
	return t.lines
}

// Size returns the measured width and height of the laid-out text.
func (t *Text) Size() Vec2 {
	t.layout()
	return Vec2{t.measuredW, t.lineHeight * float64(len(t.lines))}
}

// Bounds returns the label rectangle relative to its node, accounting for
// alignment.
func (t *Text) Bounds() Rect {
	sz := t.Size()
	x := t.x
	switch t.align {
	case AlignCenter:
		x -= sz.X / 2
	case AlignRight:
		x -= sz.X
	}
	return Rect{X: x, Y: t.y, Width: sz.X, Height: sz.Y}
}

func (t *Text) layout() {
	if !t.layoutDirty {
		return
	}
	t.layoutDirty = false

	if t.face == nil || t.face.Size != t.fontSize {
		t.face = &text.GoTextFace{Source: fontSource(), Size: t.fontSize}
	}
	m := t.face.Metrics()
	t.lineHeight = m.HAscent + m.HDescent + m.HLineGap

	t.lines = t.lines[:0]
	t.measuredW = 0
	if t.content == "" {
		return
	}
	for _, para := range strings.Split(t.content, "\n") {
		t.wrapParagraph(para)
	}
	for _, l := range t.lines {
		if w := text.Advance(l, t.face); w > t.measuredW {
			t.measuredW = w
		}
	}
}

// wrapParagraph breaks one paragraph greedily at spaces. Words wider than
// the wrap width get a line of their own.
func (t *Text) wrapParagraph(para string) {
	if t.wrapWidth <= 0 {
		t.lines = append(t.lines, para)
		return
	}
	words := strings.Fields(para)
	if len(words) == 0 {
		t.lines = append(t.lines, "")
		return
	}
	cur := words[0]
	for _, w := range words[1:] {
		candidate := cur + " " + w
		if text.Advance(candidate, t.face) <= t.wrapWidth {
			cur = candidate
			continue
		}
		t.lines = append(t.lines, cur)
		cur = w
	}
	t.lines = append(t.lines, cur)
}

// draw renders the label with its anchor at (ox+x, oy+y).
func (t *Text) draw(dst *ebiten.Image, ox, oy float64) {
	t.layout()
	if len(t.lines) == 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(ox+t.x, oy+t.y)
	op.ColorScale.ScaleWithColor(t.Color.toRGBA())
	op.LineSpacing = t.lineHeight
	switch t.align {
	case AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case AlignRight:
		op.PrimaryAlign = text.AlignEnd
	default:
		op.PrimaryAlign = text.AlignStart
	}
	text.Draw(dst, strings.Join(t.lines, "\n"), t.face, op)
}
