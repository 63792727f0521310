package swirl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/swirl/internal/filter"
)

// Blend parameters of the swirled multi-blob gradient.
const (
	swirlScale    = 0.35
	swirlStrength = 0.8 * 8.0
	blobReach     = 0.92
	weightEpsilon = 1e-5
)

// Render rasterizes the gradient for palette, with color i centered at
// positions[i], into a bitmap of the given size. A saturation other than
// 1.0 runs a saturation color matrix over the result.
//
// Render is a pure function: identical inputs yield byte-identical pixels
// and the same hash. It is safe to call from multiple goroutines.
//
// Each pixel samples the unit square through a swirl distortion that
// rotates the offset from the canvas center by an angle growing with the
// square of the radius, then blends the palette with cubic falloff
// weights max(0, 0.92 - d)^3 of the distance d to each blob.
func Render(size Size, palette Palette, positions Positions, saturation float64) (*Image, error) {
	if size.Empty() {
		return nil, fmt.Errorf("render %s: %w", size, ErrInvalidSize)
	}
	if err := palette.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	colors := palette.Expand()

	img := &Image{
		size:       size,
		pix:        make([]uint8, size.Width*size.Height*4),
		hash:       ContentHash(size, colors, positions, saturation),
		saturation: saturation,
	}
	rasterize(img.pix, size, colors, positions)

	if m := filter.NewSaturationMatrix(float32(saturation)); !m.IsIdentity() {
		m.Apply(img.pix)
	}

	Logger().Debug("swirl: rendered gradient",
		"size", size.String(), "colors", len(colors), "saturation", saturation)
	return img, nil
}

// blob is a palette color with its blend center in sampling space.
type blob struct {
	x, y    float64
	r, g, b float64
}

func rasterize(pix []uint8, size Size, colors Palette, positions Positions) {
	blobs := make([]blob, len(colors))
	for i, c := range colors {
		blobs[i] = blob{
			x: positions[i].X,
			// Sampling space has y pointing up.
			y: 1 - positions[i].Y,
			r: c.R, g: c.G, b: c.B,
		}
	}

	w, h := float64(size.Width), float64(size.Height)
	for y := 0; y < size.Height; y++ {
		dy := float64(y)/h - 0.5
		dy2 := dy * dy
		row := pix[y*size.Width*4:]

		for x := 0; x < size.Width; x++ {
			dx := float64(x)/w - 0.5
			radius := math.Sqrt(dx*dx + dy2)

			swirl := swirlScale * radius
			sin, cos := math.Sincos(swirl * swirl * swirlStrength)
			sx := clamp01(0.5 + dx*cos - dy*sin)
			sy := clamp01(0.5 + dx*sin + dy*cos)

			var sum, r, g, b float64
			for i := range blobs {
				bx := sx - blobs[i].x
				by := sy - blobs[i].y
				weight := max(0, blobReach-math.Sqrt(bx*bx+by*by))
				weight = weight * weight * weight

				sum += weight
				r += weight * blobs[i].r
				g += weight * blobs[i].g
				b += weight * blobs[i].b
			}
			sum = max(sum, weightEpsilon)

			px := row[x*4 : x*4+4 : x*4+4]
			px[0] = uint8(clamp255(r / sum * 255))
			px[1] = uint8(clamp255(g / sum * 255))
			px[2] = uint8(clamp255(b / sum * 255))
			px[3] = 0xff
		}
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// ContentHash fingerprints the inputs of Render. It lists the size, each
// color's packed 0xAARRGGBB value, each position and the saturation, in
// that order, separated by underscores:
//
//	80x80_4285876703_..._0.8:0.1_..._1
//
// Colors enter the hash at 8-bit precision; everything else is exact.
func ContentHash(size Size, palette Palette, positions Positions, saturation float64) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(size.Width))
	sb.WriteByte('x')
	sb.WriteString(strconv.Itoa(size.Height))

	for _, c := range palette.Expand() {
		sb.WriteByte('_')
		sb.WriteString(strconv.FormatUint(uint64(c.Packed()), 10))
	}
	for _, p := range positions {
		sb.WriteByte('_')
		sb.WriteString(formatFloat(p.X))
		sb.WriteByte(':')
		sb.WriteString(formatFloat(p.Y))
	}
	sb.WriteByte('_')
	sb.WriteString(formatFloat(saturation))
	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// GeneratePreview renders the phase-zero still of palette at size,
// without saturation adjustment.
func GeneratePreview(size Size, palette Palette) (*Image, error) {
	return Render(size, palette, PositionsAt(0), 1)
}
