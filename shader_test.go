package canvas3d

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderBuilder_InvalidWGSL(t *testing.T) {
	dev := &fakeDevice{}

	shader, err := NewShaderBuilder("broken").Code("fn vs_main( -> {").Build(dev)

	require.Error(t, err)
	assert.Nil(t, shader)
	assert.ErrorIs(t, err, ErrShaderCompile)
	var shaderErr *ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, "broken", shaderErr.Shader)
	assert.Equal(t, StageVertex, shaderErr.Stage)
	assert.Empty(t, dev.shaderModules, "invalid source must not reach the device")
}

func TestShaderBuilder_NoSource(t *testing.T) {
	_, err := NewShaderBuilder("empty").Build(&fakeDevice{})

	assert.ErrorIs(t, err, ErrShaderCompile)
}

func TestShaderBuilder_SeparateStages(t *testing.T) {
	dev := &fakeDevice{}

	shader, err := NewShaderBuilder("split").
		VertexCode("vertex source").
		FragmentCode("fragment source").
		skipValidation().
		Build(dev)

	require.NoError(t, err)
	require.Len(t, dev.shaderModules, 2)
	assert.Equal(t, "vertex source", dev.shaderModules[0].WGSLDescriptor.Code)
	assert.Equal(t, "fragment source", dev.shaderModules[1].WGSLDescriptor.Code)
	assert.NotSame(t, shader.Vertex, shader.Fragment)
	assert.NotEmpty(t, shader.ID)
	assert.Equal(t, "split", shader.Name)
}

func TestShaderBuilder_FragmentOnly(t *testing.T) {
	dev := &fakeDevice{}

	shader, err := NewShaderBuilder("frag").FragmentCode("fragment source").skipValidation().Build(dev)

	require.NoError(t, err)
	assert.Nil(t, shader.Vertex)
	assert.NotNil(t, shader.Fragment)
}

func TestShader_ReleaseSharedModuleOnce(t *testing.T) {
	log := stubReleases(t)
	m := &wgpu.ShaderModule{}
	shader := &Shader{Name: "shared", Vertex: m, Fragment: m}

	shader.Release()

	assert.Equal(t, []*wgpu.ShaderModule{m}, log.modules)
	assert.Nil(t, shader.Vertex)
	assert.Nil(t, shader.Fragment)
}

func TestPipelineBuilder_NoModules(t *testing.T) {
	b := &PipelineBuilder{Layouts: &PipelineLayouts{}}

	_, err := b.Descriptor(&Shader{Name: "nothing"})

	assert.ErrorIs(t, err, ErrPipelineBuild)
}

func TestShaderStage_String(t *testing.T) {
	assert.Equal(t, "vertex", StageVertex.String())
	assert.Equal(t, "fragment", StageFragment.String())
	assert.Equal(t, "ShaderStage(7)", ShaderStage(7).String())
}
