package main

import (
	"fmt"
	"log"
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glzoom/programs"
	"github.com/stewi1014/glzoom/zoom"
)

// Renderer draws a fractal program over the whole window. It is the
// animator's zoom.Sink.
type Renderer struct {
	window *glfw.Window

	vao              uint32
	vbo              uint32
	program          uint32
	vertexAttrib     uint32
	uniformLocations map[string]int32

	current  programs.Program
	uniforms programs.Uniforms
}

func NewRenderer(window *glfw.Window, program programs.Program, debug bool) (*Renderer, error) {
	r := &Renderer{
		window: window,
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	log.Println("OpenGL version", version)

	if debug {
		gl.DebugMessageCallback(glDebugMessage, nil)
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	verticies := []float32{
		-3, -2,
		0, 3,
		3, -2,
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	r.uniforms.DefaultValues()
	r.Resize(window.GetFramebufferSize())

	if err := r.LoadProgram(program); err != nil {
		r.Delete()
		return nil, err
	}

	return r, nil
}

var _ zoom.Sink = &Renderer{}

func (r *Renderer) Render(view zoom.View) error {
	r.uniforms.ZoomCenter = view.Center
	r.uniforms.ZoomSize = view.Size
	r.uniforms.MaxIterations = view.Iterations

	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	r.loadUniforms()
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("draw failed with GL error 0x%x", e)
	}

	r.window.SwapBuffers()
	return nil
}

func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	r.uniforms.Resolution = mgl32.Vec2{float32(width), float32(height)}
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) Program() programs.Program {
	return r.current
}

// LoadProgram replaces the running program. On error the previous program
// stays in use.
func (r *Renderer) LoadProgram(program programs.Program) error {
	vertexShader, err := compileShader(program.VertexShader+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("%v: %w", program.Name, err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(program.FragmentShader+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("%v: %w", program.Name, err)
	}
	defer gl.DeleteShader(fragmentShader)

	glProgram := gl.CreateProgram()
	gl.AttachShader(glProgram, vertexShader)
	gl.AttachShader(glProgram, fragmentShader)
	gl.BindFragDataLocation(glProgram, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(glProgram)

	var status int32
	gl.GetProgramiv(glProgram, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(glProgram, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(glProgram, l, nil, gl.Str(log))
		gl.DeleteProgram(glProgram)
		return fmt.Errorf("failed to link program %v: %v", program.Name, log)
	}

	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	r.program = glProgram
	r.current = program
	gl.UseProgram(r.program)

	r.uniformLocations = make(map[string]int32)
	t := reflect.TypeOf(r.uniforms)
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("uniform")
		r.uniformLocations[name] = gl.GetUniformLocation(r.program, gl.Str(name+"\x00"))
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	r.vertexAttrib = uint32(gl.GetAttribLocation(r.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(r.vertexAttrib)
	gl.VertexAttribPointerWithOffset(r.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	return nil
}

func (r *Renderer) Delete() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
}

func (r *Renderer) loadUniforms() {
	v := reflect.ValueOf(&r.uniforms).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		ptr := f.Addr().UnsafePointer()
		loc, ok := r.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]
		if !ok || loc < 0 {
			continue
		}

		switch f.Type() {
		case reflect.TypeOf(mgl32.Vec2{}):
			gl.Uniform2fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(mgl64.Vec2{}):
			gl.Uniform2dv(loc, 1, (*float64)(ptr))
		case reflect.TypeOf(int32(0)):
			gl.Uniform1iv(loc, 1, (*int32)(ptr))
		case reflect.TypeOf(float64(0)):
			gl.Uniform1dv(loc, 1, (*float64)(ptr))
		default:
			log.Printf("unsupported uniform type %v", f.Type())
		}
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader failed to compile: %v", strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	severityStr := "unknown"
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		severityStr = "high"
	case gl.DEBUG_SEVERITY_LOW:
		severityStr = "low"
	case gl.DEBUG_SEVERITY_MEDIUM:
		severityStr = "medium"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return
	}

	sourceStr := "unknownSource"
	switch source {
	case gl.DEBUG_SOURCE_API:
		sourceStr = "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		sourceStr = "application"
	case gl.DEBUG_SOURCE_OTHER:
		sourceStr = "other"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		sourceStr = "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		sourceStr = "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		sourceStr = "windowSystem"
	}

	typeStr := "unknownType"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "depreciatedBehavior"
	case gl.DEBUG_TYPE_OTHER:
		typeStr = "other"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	}

	log.Printf("%v(%v): %v; %v\n", sourceStr, severityStr, typeStr, message)
}
