package canvas3d

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/canvas3d/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// meshResources are the GPU objects backing one upload of a mesh.
// They are shared by the mesh and every queued draw of it and freed when the last holder releases them.
type meshResources struct {
	refs         int
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	sampler      *wgpu.Sampler
	bindGroup    *wgpu.BindGroup
	indexCount   uint32
}

func (r *meshResources) acquire() *meshResources {
	if r != nil {
		r.refs++
	}
	return r
}

func (r *meshResources) release() {
	if r == nil {
		return
	}
	r.refs--
	if r.refs == 0 {
		releaseMeshResources(r)
	}
}

var releaseMeshResources = func(r *meshResources) {
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
	}
}

// Mesh3d is an indexed triangle list with an optional texture.
// Vertices and Indices may be edited freely; the GPU copy only changes on Upload.
type Mesh3d struct {
	ID       string
	Vertices []core.Vertex
	Indices  []uint32
	// Texture is sampled by the default shader. Nil means a 1x1 white image from the host,
	// created on the first upload and reused by later ones.
	Texture Texture

	res      *meshResources
	fallback Texture
	aabb     core.Aabb
	hasAabb  bool
	aabbOk   bool
}

func NewMesh3d(vertices []core.Vertex, indices []uint32, texture Texture) *Mesh3d {
	return &Mesh3d{
		ID:       uuid.NewString(),
		Vertices: vertices,
		Indices:  indices,
		Texture:  texture,
	}
}

func (m *Mesh3d) Uploaded() bool {
	return m.res != nil
}

// Aabb bounds the vertices as of the last upload, or the current vertices if never uploaded.
// The second result is false for a mesh without vertices.
func (m *Mesh3d) Aabb() (core.Aabb, bool) {
	if !m.aabbOk {
		m.aabb, m.hasAabb = core.ComputeAabb(m.Vertices)
		m.aabbOk = true
	}
	return m.aabb, m.hasAabb
}

// Pivot is the point rotation and scale happen around: the bounds centre, or the origin without vertices.
func (m *Mesh3d) Pivot() mgl32.Vec3 {
	if box, ok := m.Aabb(); ok {
		return box.Center
	}
	return mgl32.Vec3{}
}

func (m *Mesh3d) validate() error {
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: mesh %s index %d references vertex %d of %d", ErrInvalidMesh, m.ID, i, idx, n)
		}
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: mesh %s has %d indices, not a multiple of 3", ErrInvalidMesh, m.ID, len(m.Indices))
	}
	return nil
}

// Upload creates the vertex and index buffers, a sampler and the texture bind group
// against textureLayout. Uploading again replaces the resources; draws already queued
// keep rendering the previous upload.
func (m *Mesh3d) Upload(host Host, textureLayout *wgpu.BindGroupLayout) error {
	return m.upload(host, textureLayout, nil)
}

// upload binds white when the mesh has no texture. A nil white is requested from the host once per mesh.
func (m *Mesh3d) upload(host Host, textureLayout *wgpu.BindGroupLayout, white Texture) error {
	if err := m.validate(); err != nil {
		return err
	}

	dev := host.Device()
	res := &meshResources{refs: 1, indexCount: uint32(len(m.Indices))}
	fail := func(what string, err error) error {
		res.release()
		return fmt.Errorf("upload mesh %s: %s: %w", m.ID, what, err)
	}

	var err error
	res.vertexBuffer, err = dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "canvas3d vertex buffer",
		Contents: toBufferBytes(m.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fail("vertex buffer", err)
	}

	res.indexBuffer, err = dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "canvas3d index buffer",
		Contents: toBufferBytes(m.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fail("index buffer", err)
	}

	res.sampler, err = dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "canvas3d mesh sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fail("sampler", err)
	}

	texture := m.Texture
	if texture == nil {
		if white == nil && m.fallback == nil {
			m.fallback, err = host.ImageFromColor(1, 1, core.White)
			if err != nil {
				return fail("fallback texture", err)
			}
		}
		texture = white
		if texture == nil {
			texture = m.fallback
		}
	}

	res.bindGroup, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "canvas3d mesh bind group",
		Layout: textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: texture.View()},
			{Binding: 1, Sampler: res.sampler},
		},
	})
	if err != nil {
		return fail("bind group", err)
	}

	m.res.release()
	m.res = res
	m.aabb, m.hasAabb = core.ComputeAabb(m.Vertices)
	m.aabbOk = true
	return nil
}

// Release drops the mesh's hold on its GPU resources. Queued draws keep theirs until the frame ends.
func (m *Mesh3d) Release() {
	m.res.release()
	m.res = nil
}
