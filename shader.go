package canvas3d

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/google/uuid"
)

const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Shader holds compiled stage modules. A nil stage is filled from the default shader when the pipeline is built.
type Shader struct {
	ID       string
	Name     string
	Vertex   *wgpu.ShaderModule
	Fragment *wgpu.ShaderModule
}

// Release frees the stage modules. The shader must not be in use by a canvas afterwards.
func (s *Shader) Release() {
	if s == nil {
		return
	}
	if s.Vertex != nil {
		releaseShaderModule(s.Vertex)
	}
	if s.Fragment != nil && s.Fragment != s.Vertex {
		releaseShaderModule(s.Fragment)
	}
	s.Vertex, s.Fragment = nil, nil
}

var releaseShaderModule = func(m *wgpu.ShaderModule) { m.Release() }

type ShaderBuilder struct {
	name         string
	vertexCode   string
	fragmentCode string
	validate     bool
}

func NewShaderBuilder(name string) *ShaderBuilder {
	return &ShaderBuilder{name: name, validate: true}
}

// Code uses one WGSL source for both stages.
func (b *ShaderBuilder) Code(src string) *ShaderBuilder {
	b.vertexCode = src
	b.fragmentCode = src
	return b
}

func (b *ShaderBuilder) VertexCode(src string) *ShaderBuilder {
	b.vertexCode = src
	return b
}

func (b *ShaderBuilder) FragmentCode(src string) *ShaderBuilder {
	b.fragmentCode = src
	return b
}

func (b *ShaderBuilder) skipValidation() *ShaderBuilder {
	b.validate = false
	return b
}

// Build compiles the configured stages. WGSL is checked with naga before it reaches the device,
// so syntax and type errors come back as *ShaderError instead of a device-lost callback.
func (b *ShaderBuilder) Build(dev Device) (*Shader, error) {
	if b.vertexCode == "" && b.fragmentCode == "" {
		return nil, &ShaderError{Shader: b.name, Stage: StageVertex, Err: errors.New("no shader source")}
	}

	shader := &Shader{ID: uuid.NewString(), Name: b.name}

	if b.vertexCode != "" {
		m, err := b.compile(dev, StageVertex, b.vertexCode)
		if err != nil {
			return nil, err
		}
		shader.Vertex = m
	}

	if b.fragmentCode != "" {
		if b.fragmentCode == b.vertexCode {
			shader.Fragment = shader.Vertex
			return shader, nil
		}
		m, err := b.compile(dev, StageFragment, b.fragmentCode)
		if err != nil {
			shader.Release()
			return nil, err
		}
		shader.Fragment = m
	}
	return shader, nil
}

func (b *ShaderBuilder) compile(dev Device, stage ShaderStage, src string) (*wgpu.ShaderModule, error) {
	if b.validate {
		if _, err := naga.Compile(src); err != nil {
			return nil, &ShaderError{Shader: b.name, Stage: stage, Err: err}
		}
	}
	m, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          fmt.Sprintf("%s %s shader", b.name, stage),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
	})
	if err != nil {
		return nil, &ShaderError{Shader: b.name, Stage: stage, Err: err}
	}
	return m, nil
}
