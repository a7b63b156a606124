package media

import "fmt"

// Frame places an image on the display. Frames start hidden at the origin.
type Frame struct {
	image   *Image
	x, y    int32
	visible bool
}

// NewFrame returns a hidden frame showing img at (0, 0).
func NewFrame(img *Image) *Frame {
	return &Frame{image: img}
}

func (f *Frame) Image() *Image { return f.image }
func (f *Frame) X() int32      { return f.x }
func (f *Frame) Y() int32      { return f.y }
func (f *Frame) Visible() bool { return f.visible }

// SetImage replaces the image shown by the frame, keeping its position and
// visibility.
func (f *Frame) SetImage(img *Image) {
	f.image = img
}

func (f *Frame) String() string {
	state := "hidden"
	if f.visible {
		state = "visible"
	}
	return fmt.Sprintf("frame(%d, %d, %s, %v)", f.x, f.y, state, f.image)
}
