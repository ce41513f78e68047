// Package colorimetry provides the colorimetric primitives behind LUT
// generation: camera log encode/decode curves, RGB color space
// definitions, and gamut conversion matrices with chromatic adaptation.
//
// Curves are pure functions applied per channel. They may return NaN or
// ±Inf for inputs outside their valid domain (negative linear light,
// code values past the curve's range); sanitizing those is the
// synthesizer's responsibility, not an error here.
package colorimetry

import (
	"fmt"

	"github.com/lutforge/lutforge/pkg/lut"
)

// Mat3 is a row-major 3×3 matrix.
type Mat3 [3][3]float64

// Identity is the 3×3 identity matrix.
var Identity = Mat3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// MulVec returns m·v.
func (m Mat3) MulVec(v lut.Vec3) lut.Vec3 {
	return lut.Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Inverse computes the matrix inverse by the adjugate method.
// Returns an error for singular matrices.
func (m Mat3) Inverse() (Mat3, error) {
	c0 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c1 := -(m[1][0]*m[2][2] - m[1][2]*m[2][0])
	c2 := m[1][0]*m[2][1] - m[1][1]*m[2][0]

	det := m[0][0]*c0 + m[0][1]*c1 + m[0][2]*c2
	if det == 0 {
		return Mat3{}, fmt.Errorf("colorimetry: singular matrix")
	}
	inv := 1 / det

	return Mat3{
		{
			c0 * inv,
			-(m[0][1]*m[2][2] - m[0][2]*m[2][1]) * inv,
			(m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv,
		},
		{
			c1 * inv,
			(m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv,
			-(m[0][0]*m[1][2] - m[0][2]*m[1][0]) * inv,
		},
		{
			c2 * inv,
			-(m[0][0]*m[2][1] - m[0][1]*m[2][0]) * inv,
			(m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv,
		},
	}, nil
}

// scaledColumns returns m with column i multiplied by s[i]. Used to apply
// per-primary scale factors when deriving a normalized primary matrix.
func (m Mat3) scaledColumns(s lut.Vec3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] * s[j]
		}
	}
	return out
}

// diag returns the diagonal matrix with v on the diagonal.
func diag(v lut.Vec3) Mat3 {
	return Mat3{
		{v[0], 0, 0},
		{0, v[1], 0},
		{0, 0, v[2]},
	}
}
