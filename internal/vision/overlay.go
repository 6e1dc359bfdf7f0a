package vision

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorBlack = color.RGBA{A: 255}
	colorGreen = color.RGBA{G: 255, A: 255}
	colorRed   = color.RGBA{R: 255, A: 255}
	colorBlue  = color.RGBA{B: 255, A: 255}
	colorTrack = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

var overlayFace font.Face = basicfont.Face7x13

// canvas copies src into a mirrored RGBA image so the stream reads like a
// selfie view.
func canvas(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(b.Dx()-1-x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color, thickness int) {
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// strokeCircle draws a ring of the given thickness centred on (cx, cy).
func strokeCircle(img *image.RGBA, cx, cy, radius int, c color.Color, thickness int) {
	if radius <= 0 {
		return
	}
	half := float64(thickness) / 2
	outer := radius + thickness
	bounds := img.Bounds()
	for y := cy - outer; y <= cy+outer; y++ {
		for x := cx - outer; x <= cx+outer; x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if math.Abs(d-float64(radius)) <= half {
				img.Set(x, y, c)
			}
		}
	}
}

// drawText writes s with its baseline at y.
func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: overlayFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(overlayFace, s).Ceil()
}
