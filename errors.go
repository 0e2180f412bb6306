package canvas3d

import (
	"errors"
	"fmt"
)

var (
	// ErrMeshNotUploaded means a mesh was drawn before its GPU resources were created.
	ErrMeshNotUploaded = errors.New("canvas3d: mesh drawn before upload")
	ErrInvalidMesh     = errors.New("canvas3d: invalid mesh data")
	ErrShaderCompile   = errors.New("canvas3d: shader compilation failed")
	ErrPipelineBuild   = errors.New("canvas3d: render pipeline build failed")
)

// Names of the per-mesh GPU resources reported by MissingResourceError.
const (
	ResourceVertexBuffer = "vertex buffer"
	ResourceIndexBuffer  = "index buffer"
	ResourceBindGroup    = "bind group"
)

type MissingResourceError struct {
	MeshID   string
	Resource string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("canvas3d: mesh %s has no %s; call Upload before drawing it", e.MeshID, e.Resource)
}

func (e *MissingResourceError) Unwrap() error {
	return ErrMeshNotUploaded
}

type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int(s))
	}
}

type ShaderError struct {
	Shader string
	Stage  ShaderStage
	Err    error
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("canvas3d: shader %q (%s stage): %v", e.Shader, e.Stage, e.Err)
}

func (e *ShaderError) Unwrap() []error {
	return []error{ErrShaderCompile, e.Err}
}
