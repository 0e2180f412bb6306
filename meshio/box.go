package meshio

import (
	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/mathgl/mgl32"
)

// boxFaces lists each face's corners as min(0)/max(1) picks per axis, with their UVs.
// Corners wind counter-clockwise seen from outside.
var boxFaces = [6][4]struct {
	corner [3]int
	uv     [2]float32
}{
	// +Z
	{{[3]int{0, 0, 1}, [2]float32{0, 0}}, {[3]int{1, 0, 1}, [2]float32{1, 0}}, {[3]int{1, 1, 1}, [2]float32{1, 1}}, {[3]int{0, 1, 1}, [2]float32{0, 1}}},
	// -Z
	{{[3]int{0, 1, 0}, [2]float32{1, 0}}, {[3]int{1, 1, 0}, [2]float32{0, 0}}, {[3]int{1, 0, 0}, [2]float32{0, 1}}, {[3]int{0, 0, 0}, [2]float32{1, 1}}},
	// +X
	{{[3]int{1, 0, 0}, [2]float32{0, 0}}, {[3]int{1, 1, 0}, [2]float32{1, 0}}, {[3]int{1, 1, 1}, [2]float32{1, 1}}, {[3]int{1, 0, 1}, [2]float32{0, 1}}},
	// -X
	{{[3]int{0, 0, 1}, [2]float32{1, 0}}, {[3]int{0, 1, 1}, [2]float32{0, 0}}, {[3]int{0, 1, 0}, [2]float32{0, 1}}, {[3]int{0, 0, 0}, [2]float32{1, 1}}},
	// +Y
	{{[3]int{1, 1, 0}, [2]float32{1, 0}}, {[3]int{0, 1, 0}, [2]float32{0, 0}}, {[3]int{0, 1, 1}, [2]float32{0, 1}}, {[3]int{1, 1, 1}, [2]float32{1, 1}}},
	// -Y
	{{[3]int{1, 0, 1}, [2]float32{0, 0}}, {[3]int{0, 0, 1}, [2]float32{1, 0}}, {[3]int{0, 0, 0}, [2]float32{1, 1}}, {[3]int{1, 0, 0}, [2]float32{0, 1}}},
}

// Box returns an axis aligned box as 24 vertices (4 per face, so UVs do not bleed) and 36 indices.
// A nil color leaves the vertices untinted.
func Box(minimum, maximum mgl32.Vec3, color *core.Color) ([]core.Vertex, []uint32) {
	bounds := [2]mgl32.Vec3{minimum, maximum}
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, face := range boxFaces {
		base := uint32(len(vertices))
		for _, c := range face {
			pos := mgl32.Vec3{bounds[c.corner[0]][0], bounds[c.corner[1]][1], bounds[c.corner[2]][2]}
			vertices = append(vertices, core.NewVertex(pos, mgl32.Vec2(c.uv), color))
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return vertices, indices
}

// Cube is Box centred on the origin with the given half size.
func Cube(half float32, color *core.Color) ([]core.Vertex, []uint32) {
	return Box(mgl32.Vec3{-half, -half, -half}, mgl32.Vec3{half, half, half}, color)
}
