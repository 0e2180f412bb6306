package meshio

import (
	"path/filepath"
	"testing"

	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGLTF_SaveAndLoad(t *testing.T) {
	vertices, indices := Box(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 3}, nil)

	for _, name := range []string{"box.glb", "box.gltf"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, SaveGLTF(path, []MeshData{{Name: "box", Vertices: vertices, Indices: indices}}))
			meshes, err := LoadGLTF(path)

			require.NoError(t, err)
			require.Len(t, meshes, 1)
			got := meshes[0]
			assert.Equal(t, "box", got.Name)
			assert.Equal(t, indices, got.Indices)
			require.Len(t, got.Vertices, len(vertices))
			for i := range vertices {
				assert.Equal(t, vertices[i].Pos, got.Vertices[i].Pos)
				assert.Equal(t, vertices[i].TexCoord, got.Vertices[i].TexCoord)
				assert.Equal(t, core.NoTint.Vec4(), got.Vertices[i].Color)
			}
		})
	}
}

func TestSaveGLTF_JSONIsSelfContained(t *testing.T) {
	vertices, indices := Cube(0.5, nil)
	path := filepath.Join(t.TempDir(), "cube.gltf")

	require.NoError(t, SaveGLTF(path, []MeshData{{Name: "cube", Vertices: vertices, Indices: indices}}))

	doc, err := gltf.Open(path)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Buffers)
	for _, b := range doc.Buffers {
		assert.True(t, b.IsEmbeddedResource())
	}
}

func TestFromDocument_UnindexedAndColored(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	col := modeler.WriteColor(doc, [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{
			{Mode: gltf.PrimitiveTriangles, Attributes: gltf.Attribute{"POSITION": pos, "COLOR_0": col}},
			{Mode: gltf.PrimitiveLines, Attributes: gltf.Attribute{"POSITION": pos}},
		},
	})

	meshes, err := FromDocument(doc)

	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, "tri.0", meshes[0].Name)
	assert.Equal(t, []uint32{0, 1, 2}, meshes[0].Indices)
	assert.Equal(t, core.Red.Vec4(), meshes[0].Vertices[0].Color)
	assert.Equal(t, core.Blue.Vec4(), meshes[0].Vertices[2].Color)
	assert.Equal(t, [2]float32{}, meshes[0].Vertices[1].TexCoord)
}

func TestFromDocument_NoTriangles(t *testing.T) {
	_, err := FromDocument(gltf.NewDocument())

	assert.ErrorIs(t, err, ErrNoTriangles)
}

func TestFromDocument_MissingPosition(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       "empty",
		Primitives: []*gltf.Primitive{{Mode: gltf.PrimitiveTriangles, Attributes: gltf.Attribute{}}},
	})

	_, err := FromDocument(doc)

	assert.ErrorContains(t, err, "POSITION")
}

func TestLoadGLTF_MissingFile(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.glb"))

	assert.Error(t, err)
}
