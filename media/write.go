package media

import (
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// JPEGQuality is used when writing .jpg and .jpeg files.
const JPEGQuality = 90

// Write saves the image to path, as JPEG when the extension is .jpg or
// .jpeg and as PNG otherwise.
func Write(img *Image, path string) error {
	encoder := imgio.PNGEncoder()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		encoder = imgio.JPEGEncoder(JPEGQuality)
	}
	return imgio.Save(path, img.rgba, encoder)
}
