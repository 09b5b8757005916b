package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")
	ErrUnknownProgram      = errors.New("unknown fractal program")
)

var (
	// InsideColour is drawn for points that never escape.
	InsideColour = mgl32.Vec3{0.85, 0.99, 1.0}

	paletteScale = mgl32.Vec3{0.59, 0.55, 0.75}
	paletteFreq  = mgl32.Vec3{0.1, 0.2, 0.3}
	palettePhase = mgl32.Vec3{0.75, 0.75, 0.75}
)

//go:embed shaders/default.vert
var defaultVertexShader string

func NumPrograms() int {
	return len(programs)
}

func GetProgram(i int) Program {
	return programs[i]
}

// Lookup finds a registered program by name.
func Lookup(name string) (Program, error) {
	for _, p := range programs {
		if p.Name == name {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
}

func Names() []string {
	names := make([]string, len(programs))
	for i, p := range programs {
		names[i] = p.Name
	}
	return names
}

func NewProgram(p Program) error {
	if _, err := Lookup(p.Name); err == nil {
		return fmt.Errorf("program %q already registered", p.Name)
	}
	programs = append(programs, p)
	return nil
}

var programs []Program

// Registration order is the order of the number keys and of Names.
func init() {
	for _, p := range []Program{mandelbrot, julia, julia3, julia4_8} {
		if err := NewProgram(p); err != nil {
			panic(err)
		}
	}
}

// EscapeFunc runs escape-time iteration for the point pos and returns the
// number of iterations performed and whether the point escaped.
type EscapeFunc func(pos mgl64.Vec2, maxIterations int) (iterations int, escaped bool)

type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	Escape         EscapeFunc
}

func (p Program) HasCPU() bool {
	return p.Escape != nil
}

// GetPixel colours pos the same way the fragment shader does.
func (p Program) GetPixel(pos mgl64.Vec2, maxIterations int) mgl32.Vec3 {
	iterations, escaped := p.Escape(pos, maxIterations)
	if !escaped {
		return InsideColour
	}
	return Palette(float32(iterations) / float32(maxIterations))
}

// Palette maps t in [0, 1] to a colour.
func Palette(t float32) mgl32.Vec3 {
	var c mgl32.Vec3
	for i := range c {
		v := paletteScale[i] * float32(math.Cos(6.28318*float64(paletteFreq[i]*t+palettePhase[i])))
		c[i] = mgl32.Clamp(v, 0, 1)
	}
	return c
}

func escapes(z complex128) bool {
	return real(z)*real(z)+imag(z)*imag(z) > 4
}
