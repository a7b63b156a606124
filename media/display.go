package media

import (
	"sync"

	"github.com/rs/zerolog"
)

// Display renders frames. Implementations are called by the VM each time a
// frame is shown, hidden or moved.
type Display interface {
	Show(f *Frame) error
	Hide(f *Frame) error
	Move(f *Frame, x, y int32) error
}

// Show marks the frame visible and notifies the display.
func Show(d Display, f *Frame) error {
	f.visible = true
	return d.Show(f)
}

// Hide marks the frame hidden and notifies the display.
func Hide(d Display, f *Frame) error {
	f.visible = false
	return d.Hide(f)
}

// Move repositions the frame and notifies the display.
func Move(d Display, f *Frame, x, y int32) error {
	f.x, f.y = x, y
	return d.Move(f, x, y)
}

// Headless is a Display that only logs frame events.
type Headless struct {
	logger zerolog.Logger
}

// NewHeadless returns a display writing one debug event per frame change.
func NewHeadless(logger zerolog.Logger) *Headless {
	return &Headless{logger: logger}
}

func (h *Headless) event(name string, f *Frame) *zerolog.Event {
	ev := h.logger.Debug().
		Str("event", name).
		Int32("x", f.x).
		Int32("y", f.y)
	if f.image != nil {
		ev = ev.Int32("width", f.image.Width()).Int32("height", f.image.Height())
	}
	return ev
}

func (h *Headless) Show(f *Frame) error {
	h.event("show", f).Msg("frame")
	return nil
}

func (h *Headless) Hide(f *Frame) error {
	h.event("hide", f).Msg("frame")
	return nil
}

func (h *Headless) Move(f *Frame, x, y int32) error {
	h.event("move", f).Msg("frame")
	return nil
}

// Event is one call recorded by a Recorder.
type Event struct {
	Name    string
	X, Y    int32
	Visible bool
}

// Recorder is a Display that remembers every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) record(name string, f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, X: f.x, Y: f.y, Visible: f.visible})
	return nil
}

func (r *Recorder) Show(f *Frame) error             { return r.record("show", f) }
func (r *Recorder) Hide(f *Frame) error             { return r.record("hide", f) }
func (r *Recorder) Move(f *Frame, x, y int32) error { return r.record("move", f) }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
