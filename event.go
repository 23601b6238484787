package lui

// Well-known event names dispatched by Root.
const (
	EventMouseOver = "mouseover" // pointer entered the node's bounds
	EventMouseOut  = "mouseout"  // pointer left the node's bounds
	EventMouseDown = "mousedown" // button pressed over the node
	EventMouseUp   = "mouseup"   // button released over the node
	EventClick     = "click"     // press then release over the same node
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// Event is the payload passed to bound handlers.
type Event struct {
	Name    string
	Target  *Node
	GlobalX float64
	GlobalY float64
	LocalX  float64
	LocalY  float64
	Button  MouseButton
}

// Handler receives a dispatched event.
type Handler func(Event)

type boundHandler struct {
	id uint32
	fn Handler
}

// eventBinder maps event names to handlers in registration order.
type eventBinder struct {
	handlers map[string][]boundHandler
	nextID   uint32
}

// CallbackHandle allows removing a bound handler.
type CallbackHandle struct {
	id    uint32
	b     *eventBinder
	event string
}

// Remove unbinds the handler so it no longer fires. Safe to call more than
// once and from inside a handler.
func (h CallbackHandle) Remove() {
	if h.b == nil {
		return
	}
	h.b.remove(h.event, h.id)
}

// Event returns the event name the handler was bound to.
func (h CallbackHandle) Event() string { return h.event }

func (b *eventBinder) bind(event string, fn Handler) CallbackHandle {
	if fn == nil {
		panic("lui: cannot bind nil handler")
	}
	if b.handlers == nil {
		b.handlers = make(map[string][]boundHandler)
	}
	b.nextID++
	id := b.nextID
	b.handlers[event] = append(b.handlers[event], boundHandler{id: id, fn: fn})
	return CallbackHandle{id: id, b: b, event: event}
}

func (b *eventBinder) remove(event string, id uint32) {
	s := b.handlers[event]
	for i := range s {
		if s[i].id == id {
			// Copy rather than shift in place: a dispatch in progress may be
			// iterating the old slice.
			next := make([]boundHandler, 0, len(s)-1)
			next = append(next, s[:i]...)
			next = append(next, s[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, event)
			} else {
				b.handlers[event] = next
			}
			return
		}
	}
}

// dispatch calls every handler bound to ev.Name in registration order.
// Returns the number of handlers invoked.
func (b *eventBinder) dispatch(ev Event) int {
	s := b.handlers[ev.Name]
	for _, h := range s {
		h.fn(ev)
	}
	return len(s)
}

func (b *eventBinder) count(event string) int {
	return len(b.handlers[event])
}

func (b *eventBinder) bound() bool {
	return len(b.handlers) > 0
}

func (b *eventBinder) reset() {
	b.handlers = nil
}
