package shaders

import (
	_ "embed"
)

// CubeWGSL is the default shader: textured, vertex coloured, instance tinted.
//
//go:embed cube.wgsl
var CubeWGSL string

// FancyWGSL only has a fragment stage and relies on the default vertex stage.
//
//go:embed fancy.wgsl
var FancyWGSL string
