// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// FaceVertexShader places landmarks in clip space and forwards the
// normalized frame position and the vertex normal.
//
//go:embed face.vert
var FaceVertexShader string

// FaceFragmentShader samples the video frame and applies the moving light.
//
//go:embed face.frag
var FaceFragmentShader string
