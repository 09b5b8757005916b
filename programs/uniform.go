package programs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Uniforms are pushed to every program before each draw. The uniform tag
// names the shader variable a field is bound to.
type Uniforms struct {
	Resolution    mgl32.Vec2 `uniform:"u_resolution"`
	ZoomCenter    mgl64.Vec2 `uniform:"u_zoomCenter"`
	ZoomSize      float64    `uniform:"u_zoomSize"`
	MaxIterations int32      `uniform:"u_maxIterations"`
}

func (u *Uniforms) DefaultValues() {
	u.ZoomCenter = mgl64.Vec2{}
	u.ZoomSize = 4
	u.MaxIterations = 500
}
