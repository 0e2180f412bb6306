package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DrawParam3d carries the per-draw transform and tint.
// Color.A is the strength the tint is mixed in with, not an opacity.
type DrawParam3d struct {
	Transform Transform3d
	Color     Color
}

func DefaultDrawParam3d() DrawParam3d {
	return DrawParam3d{
		Transform: NewTransform3d(),
		Color:     NoTint,
	}
}

func (p DrawParam3d) WithTransform(t Transform3d) DrawParam3d {
	p.Transform = t
	return p
}

func (p DrawParam3d) WithPosition(pos mgl32.Vec3) DrawParam3d {
	p.Transform.Position = pos
	return p
}

func (p DrawParam3d) WithRotation(rot mgl32.Quat) DrawParam3d {
	p.Transform.Rotation = rot
	return p
}

func (p DrawParam3d) WithScale(scale mgl32.Vec3) DrawParam3d {
	p.Transform.Scale = scale
	return p
}

func (p DrawParam3d) WithColor(c Color) DrawParam3d {
	p.Color = c
	return p
}

// Instance3d is the per-instance record uploaded to vertex buffer slot 1.
// Model takes four consecutive shader locations, one per column.
type Instance3d struct {
	Model mgl32.Mat4 `canvas3d:"layout" format:"mat4" location:"5"`
	Color [4]float32 `canvas3d:"layout" format:"float4" location:"9"`
}

// InstanceFromParam derives the GPU instance record for a draw, pivoting rotation and scale around pivot.
func InstanceFromParam(p DrawParam3d, pivot mgl32.Vec3) Instance3d {
	return Instance3d{
		Model: p.Transform.ModelMatrix(pivot),
		Color: p.Color.Vec4(),
	}
}
