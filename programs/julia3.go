package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/julia3.frag
var julia3Fragment string

var julia3 = Program{
	Name:           "julia3",
	VertexShader:   defaultVertexShader,
	FragmentShader: julia3Fragment,
	Escape: func(pos mgl64.Vec2, maxIterations int) (int, bool) {
		z := complex(pos[0], pos[1])
		for i := 0; i < maxIterations; i++ {
			z = z*z*z + complex(0.08394, 0.77007)
			if escapes(z) {
				return i, true
			}
		}
		return maxIterations, false
	},
}
