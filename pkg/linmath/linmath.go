// Package linmath defines the fixed-size vector and matrix element types
// that arrays can hold and export as shaped views.
//
// All types are plain values with no pointers, laid out row-major, so a
// slice of them can be reinterpreted as raw bytes.
package linmath

// Vectors.
type (
	Vec2f [2]float32
	Vec3f [3]float32
	Vec4f [4]float32
	Vec2d [2]float64
	Vec3d [3]float64
	Vec4d [4]float64
)

// Square matrices, row-major.
type (
	Mat3f [3][3]float32
	Mat3d [3][3]float64
	Mat4f [4][4]float32
	Mat4d [4][4]float64
)

// Ident3f returns the 3×3 single-precision identity.
func Ident3f() Mat3f {
	return Mat3f{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Ident3d returns the 3×3 double-precision identity.
func Ident3d() Mat3d {
	return Mat3d{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Ident4f returns the 4×4 single-precision identity.
func Ident4f() Mat4f {
	return Mat4f{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Ident4d returns the 4×4 double-precision identity.
func Ident4d() Mat4d {
	return Mat4d{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}
