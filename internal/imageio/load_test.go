package imageio

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestLoad_RoundTrip(t *testing.T) {
	// arrange
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "sample.png")
	src := imaging.New(64, 32, color.White)
	if err := imaging.Save(src, path); err != nil {
		t.Fatalf("fixture save failed: %v", err)
	}

	// act
	img, err := Load(path)

	// assert
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.png"))

	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())

	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound for a directory, got %v", err)
	}
}

func TestLoad_UndecodableBytes(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "broken.png")
	if err := os.WriteFile(path, []byte("this is not an image"), 0o644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}

	_, err := Load(path)

	if !errors.Is(err, ErrDecodeFailure) {
		t.Errorf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestRenderTestImage(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "fixture.png")

	if err := RenderTestImage("Hello World", path); err != nil {
		t.Fatalf("RenderTestImage failed: %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("rendered fixture does not load back: %v", err)
	}
	if img.Bounds().Dx() != 1000 || img.Bounds().Dy() != 300 {
		t.Errorf("unexpected fixture bounds %v", img.Bounds())
	}
	// Some pixel must be non-white or the text did not render.
	found := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !found; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("fixture is entirely white, no text drawn")
	}
}

func TestIsImageFile(t *testing.T) {
	cases := []struct {
		name     string
		expected bool
	}{
		{"scan.jpg", true},
		{"scan.JPG", true},
		{"scan.jpeg", true},
		{"scan.png", true},
		{"scan.bmp", true},
		{"scan.TIFF", true},
		{"scan.gif", true},
		{"scan.webp", false},
		{"scan.txt", false},
		{"scan", false},
	}

	for _, tc := range cases {
		if got := IsImageFile(tc.name); got != tc.expected {
			t.Errorf("IsImageFile(%q) = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}
