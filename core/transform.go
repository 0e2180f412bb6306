package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Aabb is an axis aligned bounding box stored as centre and half extents.
type Aabb struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
}

func AabbFromMinMax(minimum, maximum mgl32.Vec3) Aabb {
	return Aabb{
		Center:      maximum.Add(minimum).Mul(0.5),
		HalfExtents: maximum.Sub(minimum).Mul(0.5),
	}
}

func (b Aabb) Min() mgl32.Vec3 {
	return b.Center.Sub(b.HalfExtents)
}

func (b Aabb) Max() mgl32.Vec3 {
	return b.Center.Add(b.HalfExtents)
}

// ComputeAabb scans every vertex position for the componentwise min and max.
// It reports false when there are no vertices.
func ComputeAabb(vertices []Vertex) (Aabb, bool) {
	if len(vertices) == 0 {
		return Aabb{}, false
	}
	minimum := vertices[0].Position()
	maximum := minimum
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Pos[i] < minimum[i] {
				minimum[i] = v.Pos[i]
			}
			if v.Pos[i] > maximum[i] {
				maximum[i] = v.Pos[i]
			}
		}
	}
	return AabbFromMinMax(minimum, maximum), true
}

type Transform3d struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform3d() Transform3d {
	return Transform3d{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ModelMatrix returns T(position) * T(pivot) * S * R * T(-pivot).
// Rotation and scale happen around pivot; translation does not depend on it.
func (t Transform3d) ModelMatrix(pivot mgl32.Vec3) mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	toPivot := mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z())
	fromPivot := mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	rotate := t.Rotation.Normalize().Mat4()

	return translate.Mul4(toPivot).Mul4(scale).Mul4(rotate).Mul4(fromPivot)
}
