package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl64"
)

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

var mandelbrot = Program{
	Name:           "mandelbrot",
	VertexShader:   defaultVertexShader,
	FragmentShader: mandelbrotFragment,
	Escape: func(pos mgl64.Vec2, maxIterations int) (int, bool) {
		c := complex(pos[0], pos[1])
		z := complex128(0)
		for i := 0; i < maxIterations; i++ {
			z = z*z + c
			if escapes(z) {
				return i, true
			}
		}
		return maxIterations, false
	},
}
