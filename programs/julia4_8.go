package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/julia4_8.frag
var julia4_8Fragment string

var julia4_8 = Program{
	Name:           "julia4_8",
	VertexShader:   defaultVertexShader,
	FragmentShader: julia4_8Fragment,
	Escape: func(pos mgl64.Vec2, maxIterations int) (int, bool) {
		c := complex(-0.98487460613250732421875, 0)
		z := complex(pos[0], pos[1])
		for i := 0; i < maxIterations; i++ {
			z4 := z * z * z * z
			z = z4 + z4*z4 + c
			if escapes(z) {
				return i, true
			}
		}
		return maxIterations, false
	},
}
