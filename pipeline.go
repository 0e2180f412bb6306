package canvas3d

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices used by every canvas pipeline.
const (
	TextureGroup = 0
	CameraGroup  = 1
)

// PipelineLayouts are created once per canvas and shared by every rebuilt pipeline,
// so mesh bind groups stay valid across shader switches.
type PipelineLayouts struct {
	Texture  *wgpu.BindGroupLayout
	Camera   *wgpu.BindGroupLayout
	Pipeline *wgpu.PipelineLayout
}

func createPipelineLayouts(dev Device) (*PipelineLayouts, error) {
	texture, err := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "canvas3d texture bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("texture bind group layout: %w", err)
	}

	camera, err := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "canvas3d camera bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("camera bind group layout: %w", err)
	}

	layout, err := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "canvas3d pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{texture, camera},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline layout: %w", err)
	}

	return &PipelineLayouts{Texture: texture, Camera: camera, Pipeline: layout}, nil
}

type PipelineConfig struct {
	SurfaceFormat wgpu.TextureFormat
	DepthFormat   wgpu.TextureFormat
}

// Pipeline is the built render pipeline together with the shader it was built from.
type Pipeline struct {
	Render *wgpu.RenderPipeline
	Shader *Shader
}

// PipelineBuilder assembles render pipelines for a shader, filling missing stages from the fallback.
type PipelineBuilder struct {
	Layouts  *PipelineLayouts
	Fallback *Shader
	Config   PipelineConfig
}

// Descriptor returns the render pipeline description for shader without touching the device.
func (b *PipelineBuilder) Descriptor(shader *Shader) (*wgpu.RenderPipelineDescriptor, error) {
	if shader == nil {
		shader = b.Fallback
	}
	vertex, fragment := shader.Vertex, shader.Fragment
	if vertex == nil && b.Fallback != nil {
		vertex = b.Fallback.Vertex
	}
	if fragment == nil && b.Fallback != nil {
		fragment = b.Fallback.Fragment
	}
	if vertex == nil || fragment == nil {
		return nil, fmt.Errorf("%w: shader %q has no module for a stage and no fallback", ErrPipelineBuild, shader.Name)
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  "canvas3d pipeline " + shader.Name,
		Layout: b.Layouts.Pipeline,
		Vertex: wgpu.VertexState{
			Module:     vertex,
			EntryPoint: VertexEntryPoint,
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout, instanceLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragment,
			EntryPoint: FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.Config.SurfaceFormat,
					Blend:     &wgpu.BlendStateReplace,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            b.Config.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilReadMask:   0xFFFFFFFF,
			StencilWriteMask:  0xFFFFFFFF,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}, nil
}

func (b *PipelineBuilder) Build(dev Device, shader *Shader) (*Pipeline, error) {
	if shader == nil {
		shader = b.Fallback
	}
	desc, err := b.Descriptor(shader)
	if err != nil {
		return nil, err
	}
	render, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, errors.Join(ErrPipelineBuild, err)
	}
	return &Pipeline{Render: render, Shader: shader}, nil
}

var releaseRenderPipeline = func(p *wgpu.RenderPipeline) { p.Release() }
