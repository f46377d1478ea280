package brender

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformKind tags the representation held by a Transform.
type TransformKind uint8

// Transform kinds.
const (
	TransformIdentity TransformKind = iota
	TransformMatrix34
	TransformMatrix34LP
	TransformQuat
	TransformEuler
	TransformLookUp
	TransformTranslation
)

var transformKindNames = [...]string{
	"identity", "matrix34", "matrix34-lp", "quat", "euler", "look-up", "translation",
}

// String returns the transform kind name.
func (k TransformKind) String() string {
	if int(k) < len(transformKindNames) {
		return transformKindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// EulerOrder is the axis sequence of an Euler rotation. The _S orders use a
// static frame, the _R orders rotate with the object.
type EulerOrder uint8

// Euler orders.
const (
	EulerXYZS EulerOrder = iota
	EulerXYXS
	EulerXZYS
	EulerXZXS
	EulerYZXS
	EulerYZYS
	EulerYXZS
	EulerYXYS
	EulerZXYS
	EulerZXZS
	EulerZYXS
	EulerZYZS
	EulerZYXR
	EulerXYXR
	EulerYZXR
	EulerXZXR
	EulerXZYR
	EulerYZYR
	EulerZXYR
	EulerYXYR
	EulerYXZR
	EulerZXZR
	EulerXYZR
	EulerZYZR
)

var staticOrders = [...]mgl32.RotationOrder{
	EulerXYZS: mgl32.XYZ,
	EulerXYXS: mgl32.XYX,
	EulerXZYS: mgl32.XZY,
	EulerXZXS: mgl32.XZX,
	EulerYZXS: mgl32.YZX,
	EulerYZYS: mgl32.YZY,
	EulerYXZS: mgl32.YXZ,
	EulerYXYS: mgl32.YXY,
	EulerZXYS: mgl32.ZXY,
	EulerZXZS: mgl32.ZXZ,
	EulerZYXS: mgl32.ZYX,
	EulerZYZS: mgl32.ZYZ,
}

// A rotating-frame order applies the same rotations as the static order
// with the axis sequence reversed.
var rotatingToStatic = map[EulerOrder]EulerOrder{
	EulerZYXR: EulerXYZS,
	EulerXYXR: EulerXYXS,
	EulerYZXR: EulerXZYS,
	EulerXZXR: EulerXZXS,
	EulerXZYR: EulerYZXS,
	EulerYZYR: EulerYZYS,
	EulerZXYR: EulerYXZS,
	EulerYXYR: EulerYXYS,
	EulerYXZR: EulerZXYS,
	EulerZXZR: EulerZXZS,
	EulerXYZR: EulerZYXS,
	EulerZYZR: EulerZYZS,
}

// Static reports whether the order uses a static frame.
func (o EulerOrder) Static() bool {
	return o <= EulerZYZS
}

// Euler is a rotation given as three angles in radians.
type Euler struct {
	Order   EulerOrder
	A, B, C float32
}

// Quat converts the rotation to a quaternion.
func (e Euler) Quat() (mgl32.Quat, error) {
	if e.Order.Static() {
		return mgl32.AnglesToQuat(e.A, e.B, e.C, staticOrders[e.Order]), nil
	}
	static, ok := rotatingToStatic[e.Order]
	if !ok {
		return mgl32.QuatIdent(), fmt.Errorf("%w: %d", ErrEulerOrder, e.Order)
	}
	return mgl32.AnglesToQuat(e.C, e.B, e.A, staticOrders[static]), nil
}

// Transform is the position and orientation of an actor relative to its
// parent. Only the fields matching Kind are meaningful.
type Transform struct {
	Kind TransformKind

	// Rows of a 3x4 matrix, the last row being the translation.
	// Used by TransformMatrix34 and TransformMatrix34LP.
	Matrix34 [4]mgl32.Vec3

	Quat  mgl32.Quat // TransformQuat
	Euler Euler      // TransformEuler

	// Look direction and up vector for TransformLookUp.
	Look, Up mgl32.Vec3

	// Translation applies to every kind except identity and the matrix forms.
	Translation mgl32.Vec3
}

// IdentityTransform returns the transform of an actor that never received one.
func IdentityTransform() Transform {
	return Transform{Kind: TransformIdentity}
}

// Matrix returns the transform as a column-major affine matrix.
func (t Transform) Matrix() (mgl32.Mat4, error) {
	switch t.Kind {
	case TransformIdentity:
		return mgl32.Ident4(), nil
	case TransformMatrix34, TransformMatrix34LP:
		return rowsToMat4(t.Matrix34), nil
	case TransformQuat:
		return withTranslation(t.Quat.Normalize().Mat4(), t.Translation), nil
	case TransformEuler:
		q, err := t.Euler.Quat()
		if err != nil {
			return mgl32.Ident4(), err
		}
		return withTranslation(q.Mat4(), t.Translation), nil
	case TransformLookUp:
		vz := t.Look.Mul(-1)
		if vz.Len() > 0 {
			vz = vz.Normalize()
		}
		vx := t.Up.Cross(vz)
		if vx.Len() > 0 {
			vx = vx.Normalize()
		}
		vy := vz.Cross(vx)
		return rowsToMat4([4]mgl32.Vec3{vx, vy, vz, t.Translation}), nil
	case TransformTranslation:
		return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()), nil
	default:
		return mgl32.Ident4(), fmt.Errorf("%w: %s", ErrTransformKind, t.Kind)
	}
}

// String describes the transform.
func (t Transform) String() string {
	switch t.Kind {
	case TransformIdentity:
		return "identity"
	case TransformMatrix34, TransformMatrix34LP:
		return fmt.Sprintf("%s %v", t.Kind, t.Matrix34)
	case TransformQuat:
		return fmt.Sprintf("quat %v %v t %v", t.Quat.W, t.Quat.V, t.Translation)
	case TransformEuler:
		return fmt.Sprintf("euler %d (%g, %g, %g) t %v", t.Euler.Order, t.Euler.A, t.Euler.B, t.Euler.C, t.Translation)
	case TransformLookUp:
		return fmt.Sprintf("look %v up %v t %v", t.Look, t.Up, t.Translation)
	default:
		return fmt.Sprintf("%s %v", t.Kind, t.Translation)
	}
}

// rowsToMat4 converts a row-vector 3x4 matrix to mathgl's column-vector form.
func rowsToMat4(m [4]mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4FromCols(m[0].Vec4(0), m[1].Vec4(0), m[2].Vec4(0), m[3].Vec4(1))
}

func withTranslation(m mgl32.Mat4, t mgl32.Vec3) mgl32.Mat4 {
	m.SetCol(3, t.Vec4(1))
	return m
}
