package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/julia.frag
var juliaFragment string

var julia = Program{
	Name:           "julia",
	VertexShader:   defaultVertexShader,
	FragmentShader: juliaFragment,
	Escape: func(pos mgl64.Vec2, maxIterations int) (int, bool) {
		z := complex(pos[0], pos[1])
		for i := 0; i < maxIterations; i++ {
			z = z*z + complex(-0.835, 0.2321)
			if escapes(z) {
				return i, true
			}
		}
		return maxIterations, false
	},
}
