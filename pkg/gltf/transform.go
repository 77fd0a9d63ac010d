package gltf

// Transform is a node's local transform: either a Matrix or a TRS. A nil
// Transform is the identity.
type Transform interface {
	isTransform()
}

// Matrix is a 4x4 column-major transform.
type Matrix [16]float32

// TRS is a translation, a unit quaternion rotation (x, y, z, w) and a scale,
// applied in T*R*S order.
type TRS struct {
	Translation [3]float32
	Rotation    [4]float32
	Scale       [3]float32
}

func (Matrix) isTransform() {}
func (TRS) isTransform()    {}

// IdentityMatrix returns the 4x4 identity.
func IdentityMatrix() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// IdentityTRS returns zero translation, identity rotation and unit scale.
func IdentityTRS() TRS {
	return TRS{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

func (m Matrix) isIdentity() bool { return m == IdentityMatrix() }
