// Package media implements the values a running program manipulates:
// images, frames on a display, and the sources images are read from.
package media

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Image is a mutable RGBA image. Pipelines pass images by reference, so
// in-place filters are visible through every variable holding the image.
type Image struct {
	rgba   *image.RGBA
	source string
}

// NewImage copies img into a new Image. Source names where the pixels came
// from and is only used for display.
func NewImage(img image.Image, source string) *Image {
	return &Image{rgba: clone.AsRGBA(img), source: source}
}

// Blank returns a transparent image of the given size.
func Blank(width, height int) *Image {
	return &Image{rgba: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// RGBA returns the pixels of the image.
func (i *Image) RGBA() *image.RGBA {
	return i.rgba
}

// Source returns the file or URL the image was read from, if any.
func (i *Image) Source() string {
	return i.source
}

func (i *Image) Width() int32 {
	return int32(i.rgba.Bounds().Dx())
}

func (i *Image) Height() int32 {
	return int32(i.rgba.Bounds().Dy())
}

func (i *Image) String() string {
	if i.source == "" {
		return fmt.Sprintf("image(%dx%d)", i.Width(), i.Height())
	}
	return fmt.Sprintf("image(%dx%d, %s)", i.Width(), i.Height(), i.source)
}

// apply replaces the pixels of i with the result of fn, or returns the
// result as a new image when inPlace is false.
func (i *Image) apply(inPlace bool, fn func(image.Image) *image.RGBA) *Image {
	result := fn(i.rgba)
	if inPlace {
		i.rgba = result
		return i
	}
	return &Image{rgba: result, source: i.source}
}
