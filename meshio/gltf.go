package meshio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var ErrNoTriangles = errors.New("meshio: document has no triangle primitives")

// MeshData is CPU side geometry ready to become a canvas3d.Mesh3d.
type MeshData struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
}

func LoadGLTF(path string) ([]MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	return FromDocument(doc)
}

// FromDocument flattens every triangle-list primitive into its own MeshData.
// Node transforms are not applied. Other primitive modes are skipped.
func FromDocument(doc *gltf.Document) ([]MeshData, error) {
	var out []MeshData
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			data, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("meshio: mesh %d primitive %d: %w", mi, pi, err)
			}
			data.Name = mesh.Name
			if len(mesh.Primitives) > 1 {
				data.Name = fmt.Sprintf("%s.%d", mesh.Name, pi)
			}
			out = append(out, data)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoTriangles
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (MeshData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return MeshData{}, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return MeshData{}, fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return MeshData{}, fmt.Errorf("texture coords: %w", err)
		}
	}

	var colors [][4]uint8
	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		if colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil); err != nil {
			return MeshData{}, fmt.Errorf("colors: %w", err)
		}
	}

	vertices := make([]core.Vertex, len(positions))
	for i, p := range positions {
		var uv mgl32.Vec2
		if i < len(uvs) {
			uv = uvs[i]
		}
		var tint *core.Color
		if i < len(colors) {
			c := colors[i]
			// COLOR_0 replaces the texture colour, so it is mixed in at full strength.
			rgb := core.NewColorRGB8(c[0], c[1], c[2])
			tint = &rgb
		}
		vertices[i] = core.NewVertex(mgl32.Vec3(p), uv, tint)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return MeshData{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return MeshData{Vertices: vertices, Indices: indices}, nil
}

// ToDocument writes each mesh as one node with a single indexed triangle primitive.
// Vertex colours are not exported.
func ToDocument(meshes []MeshData) *gltf.Document {
	doc := gltf.NewDocument()
	for _, m := range meshes {
		positions := make([][3]float32, len(m.Vertices))
		uvs := make([][2]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = v.Pos
			uvs[i] = v.TexCoord
		}
		prim := &gltf.Primitive{
			Mode: gltf.PrimitiveTriangles,
			Attributes: gltf.Attribute{
				"POSITION":   modeler.WritePosition(doc, positions),
				"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
			},
			Indices: gltf.Index(modeler.WriteIndices(doc, m.Indices)),
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: m.Name, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc
}

// SaveGLTF writes a binary container for a .glb path. Any other path gets JSON with
// the geometry embedded as data URIs, so the file stands alone.
func SaveGLTF(path string, meshes []MeshData) error {
	doc := ToDocument(meshes)
	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("meshio: save %s: %w", path, err)
	}
	return nil
}
