package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the per-vertex record uploaded to vertex buffer slot 0.
// The struct tags drive the GPU vertex layout; field order is the byte order.
type Vertex struct {
	Pos      [3]float32 `canvas3d:"layout" format:"float3" location:"0"`
	TexCoord [2]float32 `canvas3d:"layout" format:"float2" location:"1"`
	Color    [4]float32 `canvas3d:"layout" format:"float4" location:"2"`
}

// NewVertex builds a vertex. A nil color falls back to NoTint so the texture shows through unchanged.
func NewVertex(pos mgl32.Vec3, uv mgl32.Vec2, color *Color) Vertex {
	c := NoTint
	if color != nil {
		c = *color
	}
	return Vertex{
		Pos:      [3]float32(pos),
		TexCoord: [2]float32(uv),
		Color:    c.Vec4(),
	}
}

func (v Vertex) Position() mgl32.Vec3 {
	return mgl32.Vec3(v.Pos)
}
