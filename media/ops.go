package media

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
)

// ErrDivideByZero is returned when an image is divided by zero.
var ErrDivideByZero = errors.New("division by zero")

// BlurRadius is the radius of the box blur applied by Blur.
const BlurRadius = 1.0

// sharpen is the kernel applied by Convolve.
var sharpen = &convolution.Kernel{
	Matrix: []float64{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	},
	Width:  3,
	Height: 3,
}

// Blur smooths the image with a 3x3 box blur.
func Blur(img *Image, inPlace bool) *Image {
	return img.apply(inPlace, func(src image.Image) *image.RGBA {
		return blur.Box(src, BlurRadius)
	})
}

// Gray converts the image to grayscale.
func Gray(img *Image, inPlace bool) *Image {
	return img.apply(inPlace, effect.Grayscale)
}

// Convolve sharpens the image.
func Convolve(img *Image, inPlace bool) *Image {
	return img.apply(inPlace, func(src image.Image) *image.RGBA {
		return convolution.Convolve(src, sharpen, &convolution.Options{Bias: 0, Wrap: false})
	})
}

// Scale returns a copy of the image with both dimensions multiplied by
// factor.
func Scale(img *Image, factor int32) (*Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale factor must be positive, got %d", factor)
	}
	w := int(img.Width()) * int(factor)
	h := int(img.Height()) * int(factor)
	return img.apply(false, func(src image.Image) *image.RGBA {
		return transform.Resize(src, w, h, transform.Linear)
	}), nil
}

// Add returns the per channel sum of two images, clamped.
func Add(a, b *Image) *Image {
	return &Image{rgba: blend.Add(a.rgba, b.rgba)}
}

// Sub returns the per channel difference a - b, clamped. blend.Subtract
// takes the subtrahend first.
func Sub(a, b *Image) *Image {
	return &Image{rgba: blend.Subtract(b.rgba, a.rgba)}
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func channels(img *Image, fn func(uint8) uint8) *Image {
	result := adjust.Apply(img.rgba, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: fn(c.R), G: fn(c.G), B: fn(c.B), A: c.A}
	})
	return &Image{rgba: result, source: img.source}
}

// Mul multiplies every color channel by n, clamped to [0, 255].
func Mul(img *Image, n int32) *Image {
	return channels(img, func(v uint8) uint8 { return clamp(int(v) * int(n)) })
}

// Div divides every color channel by n.
func Div(img *Image, n int32) (*Image, error) {
	if n == 0 {
		return nil, ErrDivideByZero
	}
	return channels(img, func(v uint8) uint8 { return clamp(int(v) / int(n)) }), nil
}

// Mod replaces every color channel by its remainder modulo n.
func Mod(img *Image, n int32) (*Image, error) {
	if n == 0 {
		return nil, ErrDivideByZero
	}
	return channels(img, func(v uint8) uint8 { return clamp(int(v) % int(n)) }), nil
}
