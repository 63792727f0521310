package swirl

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Image is an immutable rendered gradient: an RGBA8 pixel buffer plus
// the content hash of the inputs that produced it.
type Image struct {
	size       Size
	pix        []uint8 // RGBA, 4 bytes per pixel, rows tightly packed
	hash       string
	saturation float64
}

// Size returns the bitmap size.
func (img *Image) Size() Size {
	return img.size
}

// Width returns the width of the bitmap.
func (img *Image) Width() int {
	return img.size.Width
}

// Height returns the height of the bitmap.
func (img *Image) Height() int {
	return img.size.Height
}

// Pix returns the raw pixel data in R, G, B, A byte order.
// The slice is shared; callers must not modify it.
func (img *Image) Pix() []uint8 {
	return img.pix
}

// Hash returns the content hash of the render inputs.
func (img *Image) Hash() string {
	return img.hash
}

// Saturation returns the saturation factor the image was rendered with.
func (img *Image) Saturation() float64 {
	return img.saturation
}

// PixelAt returns the pixel at (x, y), or transparent black outside the bitmap.
func (img *Image) PixelAt(x, y int) color.RGBA {
	if x < 0 || x >= img.size.Width || y < 0 || y >= img.size.Height {
		return color.RGBA{}
	}
	i := (y*img.size.Width + x) * 4
	return color.RGBA{R: img.pix[i], G: img.pix[i+1], B: img.pix[i+2], A: img.pix[i+3]}
}

// ToImage copies the bitmap into a new image.RGBA.
func (img *Image) ToImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.size.Width, img.size.Height))
	copy(out.Pix, img.pix)
	return out
}

// At implements the image.Image interface.
func (img *Image) At(x, y int) color.Color {
	return img.PixelAt(x, y)
}

// Bounds implements the image.Image interface.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.size.Width, img.size.Height)
}

// ColorModel implements the image.Image interface.
func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// SavePNG writes the bitmap to a PNG file at its native size.
func (img *Image) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, img.ToImage())
}
