package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	// Secondary decode path tolerates formats the primary path rejects.
	_ "image/gif"

	_ "github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var (
	// ErrImageNotFound means the path does not resolve to a readable file.
	ErrImageNotFound = errors.New("image not found")
	// ErrDecodeFailure means both decode attempts failed.
	ErrDecodeFailure = errors.New("image decode failed")
)

// Load decodes the image at path. The primary attempt goes through imaging
// (with EXIF auto-orientation); when that fails the raw bytes get a second
// chance through the stdlib decoder with the extra formats registered
// above. Two attempts, then ErrDecodeFailure carrying both causes.
func Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}

	img, primaryErr := imaging.Open(path, imaging.AutoOrientation(true))
	if primaryErr == nil {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	img, _, secondaryErr := image.Decode(bytes.NewReader(data))
	if secondaryErr != nil {
		return nil, fmt.Errorf("%w: %s (primary: %v; secondary: %v)", ErrDecodeFailure, path, primaryErr, secondaryErr)
	}
	return img, nil
}
