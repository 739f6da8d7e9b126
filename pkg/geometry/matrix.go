package geometry

// Mat4 is a 4x4 homogeneous matrix in column-major order,
// the layout glUniformMatrix4fv expects without transposition.
//
//	| m0 m4 m8  m12 |
//	| m1 m5 m9  m13 |
//	| m2 m6 m10 m14 |
//	| m3 m7 m11 m15 |
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FlipY maps texture V to 1-V. Used for sources whose rows are stored top-down.
func FlipY() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 1,
	}
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) (r Mat4) {
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var v float32
			for k := 0; k < 4; k++ {
				v += m[k*4+row] * n[c*4+k]
			}
			r[c*4+row] = v
		}
	}
	return
}

// Translate returns m * T(x, y, z), so the translation applies after
// every transform that gets multiplied on the right later on.
func (m Mat4) Translate(x, y, z float32) Mat4 {
	for i := 0; i < 4; i++ {
		m[12+i] += m[i]*x + m[4+i]*y + m[8+i]*z
	}
	return m
}

// Scale returns m * S(x, y, z).
func (m Mat4) Scale(x, y, z float32) Mat4 {
	for i := 0; i < 4; i++ {
		m[i] *= x
		m[4+i] *= y
		m[8+i] *= z
	}
	return m
}

// Apply transforms the point (x, y, 0, 1) and returns its x and y.
func (m Mat4) Apply(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// IsZero reports whether the matrix was never set.
func (m Mat4) IsZero() bool { return m == Mat4{} }
