package lui

// Region names a Button looks up in the default atlas. Hover variants carry
// the "_hover" suffix.
const (
	buttonLeft  = "btn_left"
	buttonMid   = "btn_mid"
	buttonRight = "btn_right"
	hoverSuffix = "_hover"
)

// Button is a three-slice push button: a left cap, a middle strip stretched
// to the button width and a right cap, with a centered label. Hovering swaps
// every slice to its "_hover" region.
type Button struct {
	*Node

	left, mid, right *Sprite
	label            *Text
	width            float64
	hovered          bool
}

// NewButton creates a button whose slices come from the pool's default
// atlas. Missing regions show the placeholder, as with any sprite.
func NewButton(pool *AtlasPool, label string) *Button {
	b := &Button{Node: NewNode("button", pool)}
	b.left = b.AttachSprite(0, 0, AtlasRef{Region: buttonLeft})
	b.mid = b.AttachSprite(0, 0, AtlasRef{Region: buttonMid})
	b.right = b.AttachSprite(0, 0, AtlasRef{Region: buttonRight})
	b.label = b.AttachText(0, 0, label, DefaultFontSize, AlignCenter, 0)

	minW := b.left.Size().X + b.right.Size().X
	b.SetWidth(max(minW+b.label.Size().X, minW))

	b.Bind(EventMouseOver, func(Event) { b.setHovered(true) })
	b.Bind(EventMouseOut, func(Event) { b.setHovered(false) })
	return b
}

// SetWidth resizes the button, stretching the middle slice. The width never
// drops below the two caps.
func (b *Button) SetWidth(w float64) {
	lw, rw := b.left.Size().X, b.right.Size().X
	w = max(w, lw+rw)
	b.width = w
	b.layout()
}

// Width returns the button width.
func (b *Button) Width() float64 { return b.width }

// Label returns the label text.
func (b *Button) Label() *Text { return b.label }

// Hovered reports whether the pointer is over the button.
func (b *Button) Hovered() bool { return b.hovered }

// OnClick binds fn to the button's click event.
func (b *Button) OnClick(fn func()) CallbackHandle {
	return b.Bind(EventClick, func(Event) { fn() })
}

func (b *Button) setHovered(h bool) {
	if b.hovered == h {
		return
	}
	b.hovered = h
	suffix := ""
	if h {
		suffix = hoverSuffix
	}
	// Errors are already logged by SetTexture and leave the placeholder.
	_ = b.left.SetTexture(AtlasRef{Region: buttonLeft + suffix})
	_ = b.mid.SetTexture(AtlasRef{Region: buttonMid + suffix})
	_ = b.right.SetTexture(AtlasRef{Region: buttonRight + suffix})
	b.layout()
}

// layout places the slices and label for the current width. SetTexture
// resets sizes to the region, so it runs after every texture swap.
func (b *Button) layout() {
	lw, rw := b.left.Size().X, b.right.Size().X
	h := max(b.left.Size().Y, b.mid.Size().Y, b.right.Size().Y)

	b.left.SetPos(0, 0)
	b.mid.SetPos(lw, 0)
	b.mid.SetSize(max(b.width-lw-rw, 0), b.mid.Size().Y)
	b.right.SetPos(b.width-rw, 0)

	lh := b.label.Size().Y
	b.label.SetPos(b.width/2, (h-lh)/2)
	b.Node.Width, b.Node.Height = b.width, h
}
