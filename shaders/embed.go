// Package shaders carries the SPIR-V used by the default pipeline. The .spv files are
// built from the GLSL sources next to them:
//
//	glslc point.vert -o point.vert.spv
//	glslc point.frag -o point.frag.spv
package shaders

import (
	"embed"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/gameengine/engine"
)

//go:embed *.spv
var fileSystem embed.FS

// Load returns the vertex and fragment bytecode of the point pipeline.
func Load() (engine.ShaderSet, error) {
	vertex, err := fileSystem.ReadFile("point.vert.spv")
	if err != nil {
		return engine.ShaderSet{}, errors.Wrap(err, "read vertex shader")
	}

	fragment, err := fileSystem.ReadFile("point.frag.spv")
	if err != nil {
		return engine.ShaderSet{}, errors.Wrap(err, "read fragment shader")
	}

	return engine.ShaderSet{Vertex: vertex, Fragment: fragment}, nil
}
