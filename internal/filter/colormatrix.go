package filter

// ColorMatrix applies a 4x5 color transformation matrix to RGBA8 pixels.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The fifth column provides bias/offset values.
// Channel values are in [0, 255] during transformation,
// then clamped back to the valid range.
type ColorMatrix struct {
	// Matrix is the 4x5 transformation matrix in row-major order.
	// [0-4] = row 0 (R), [5-9] = row 1 (G), [10-14] = row 2 (B), [15-19] = row 3 (A)
	Matrix [20]float32
}

// Luminance weights used by NewSaturationMatrix.
const (
	LumR = 0.3086
	LumG = 0.6094
	LumB = 0.0820
)

// NewIdentityColorMatrix creates a color matrix that passes pixels through unchanged.
func NewIdentityColorMatrix() *ColorMatrix {
	return &ColorMatrix{
		Matrix: [20]float32{
			1, 0, 0, 0, 0, // R
			0, 1, 0, 0, 0, // G
			0, 0, 1, 0, 0, // B
			0, 0, 0, 1, 0, // A
		},
	}
}

// NewSaturationMatrix creates a matrix that adjusts color saturation.
// factor: 0.0 = grayscale, 1.0 = unchanged, >1.0 = oversaturated.
func NewSaturationMatrix(factor float32) *ColorMatrix {
	inv := 1 - factor
	return &ColorMatrix{
		Matrix: [20]float32{
			LumR*inv + factor, LumG * inv, LumB * inv, 0, 0,
			LumR * inv, LumG*inv + factor, LumB * inv, 0, 0,
			LumR * inv, LumG * inv, LumB*inv + factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// IsIdentity reports whether applying m would leave every pixel unchanged.
func (m *ColorMatrix) IsIdentity() bool {
	return m.Matrix == NewIdentityColorMatrix().Matrix
}

// Apply transforms pix in place. pix holds tightly packed RGBA8 pixels;
// a trailing partial pixel is left untouched.
func (m *ColorMatrix) Apply(pix []uint8) {
	n := len(pix) &^ 3
	c := &m.Matrix

	for i := 0; i < n; i += 4 {
		r := float32(pix[i+0])
		g := float32(pix[i+1])
		b := float32(pix[i+2])
		a := float32(pix[i+3])

		pix[i+0] = clampUint8(c[0]*r + c[1]*g + c[2]*b + c[3]*a + c[4])
		pix[i+1] = clampUint8(c[5]*r + c[6]*g + c[7]*b + c[8]*a + c[9])
		pix[i+2] = clampUint8(c[10]*r + c[11]*g + c[12]*b + c[13]*a + c[14])
		pix[i+3] = clampUint8(c[15]*r + c[16]*g + c[17]*b + c[18]*a + c[19])
	}
}

// clampUint8 rounds to the nearest integer and clamps to [0, 255].
func clampUint8(v float32) uint8 {
	return uint8(min(max(v+0.5, 0), 255))
}
