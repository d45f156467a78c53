package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderTestImage writes a synthetic white-background fixture with text
// centered inside an outlined box, for exercising the pipeline without
// real scans. Glyphs outside the basic face render as tofu, which is fine
// for a fixture.
func RenderTestImage(text, path string) error {
	const width, height = 1000, 300

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	x := (width - textWidth) / 2
	y := height / 2

	// Outline box for contrast, matching the fixture layout the batch
	// tests expect.
	const pad = 20
	gray := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	drawRect(img, x-pad, y-face.Ascent-pad/2, x+textWidth+pad, y+face.Descent+pad/2, gray)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving test image %s: %w", path, err)
	}
	return nil
}

func drawRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	for x := x0; x <= x1; x++ {
		img.Set(x, y0, c)
		img.Set(x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		img.Set(x0, y, c)
		img.Set(x1, y, c)
	}
}
