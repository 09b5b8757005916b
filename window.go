package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/glzoom/config"
	"github.com/stewi1014/glzoom/export"
	"github.com/stewi1014/glzoom/programs"
	"github.com/stewi1014/glzoom/zoom"
)

// Window is the interactive viewer. It turns glfw input into animator calls
// and paces the animator's frame loop.
type Window struct {
	*glfw.Window
	renderer *Renderer
	animator *zoom.Animator
	cfg      *config.Config

	ctx  context.Context
	quit context.CancelCauseFunc

	exportCtx    context.Context
	exportCancel context.CancelFunc
	exports      sync.WaitGroup
	stopWake     func() bool
}

func NewWindow(
	ctx context.Context,
	quit context.CancelCauseFunc,
	cfg *config.Config,
	program programs.Program,
) (*Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.Window.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(
		cfg.Window.Width,
		cfg.Window.Height,
		"GLZoom",
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &Window{
		Window: window,
		cfg:    cfg,
		ctx:    ctx,
		quit:   quit,
	}
	w.exportCtx, w.exportCancel = context.WithCancel(ctx)

	w.MakeContextCurrent()
	err = gl.Init()
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w.renderer, err = NewRenderer(window, program, cfg.Window.Debug)
	if err != nil {
		window.Destroy()
		return nil, err
	}

	w.animator, err = zoom.NewAnimator(cfg.Params(), cfg.InitialState(), w.renderer)
	if err != nil {
		w.renderer.Delete()
		window.Destroy()
		return nil, err
	}

	w.SetMouseButtonCallback(w.button)
	w.SetScrollCallback(w.scroll)
	w.SetKeyCallback(w.key)
	w.SetFramebufferSizeCallback(w.resize)
	w.SetRefreshCallback(func(*glfw.Window) { w.animator.Invalidate() })

	// WaitEvents blocks while idle; wake it so Run sees the cancellation.
	w.stopWake = context.AfterFunc(ctx, glfw.PostEmptyEvent)

	return w, nil
}

// Run renders until the window is closed or the context is cancelled.
func (w *Window) Run() error {
	return w.animator.Run(w.ctx, w)
}

// NextFrame implements zoom.FrameSource. Frames are paced by SwapBuffers
// when vsync is on.
func (w *Window) NextFrame(ctx context.Context, animating bool) error {
	if w.ShouldClose() {
		return zoom.ErrClosed
	}

	if animating {
		glfw.PollEvents()
	} else {
		glfw.WaitEvents()
	}

	if w.ShouldClose() {
		return zoom.ErrClosed
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

// Close cancels running exports, waits for them and destroys the window.
func (w *Window) Close() {
	w.stopWake()
	w.exportCancel()
	w.exports.Wait()
	w.renderer.Delete()
	w.Destroy()
}

// pointerFraction returns the cursor position as a fraction of the window.
func (w *Window) pointerFraction() (float64, float64) {
	x, y := w.GetCursorPos()
	width, height := w.GetSize()
	if width <= 0 || height <= 0 {
		return 0.5, 0.5
	}
	return x / float64(width), y / float64(height)
}

func (w *Window) button(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft && button != glfw.MouseButtonRight {
		return
	}

	switch action {
	case glfw.Press:
		fx, fy := w.pointerFraction()
		if err := w.animator.Engage(fx, fy, button == glfw.MouseButtonLeft); err != nil {
			w.quit(err)
		}
	case glfw.Release:
		w.animator.Release()
	}
}

func (w *Window) scroll(_ *glfw.Window, _, yoff float64) {
	if yoff == 0 {
		return
	}
	if err := w.animator.Scroll(yoff > 0); err != nil {
		w.quit(err)
	}
}

func (w *Window) key(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch {
	case key == glfw.KeyEscape:
		w.SetShouldClose(true)

	case key == glfw.KeyR:
		if err := w.animator.Reset(); err != nil {
			w.quit(err)
		}

	case key == glfw.KeyS:
		w.saveView()

	case key >= glfw.Key1 && key <= glfw.Key9:
		i := int(key - glfw.Key1)
		if i >= programs.NumPrograms() {
			return
		}
		program := programs.GetProgram(i)
		if err := w.renderer.LoadProgram(program); err != nil {
			log.Println(err)
			return
		}
		log.Printf("switched to %v", program.Name)
		w.animator.Invalidate()
	}
}

func (w *Window) resize(_ *glfw.Window, width, height int) {
	w.renderer.Resize(width, height)
	w.animator.Invalidate()
}

// saveView saves the current view as a PNG in the background, at full detail.
func (w *Window) saveView() {
	program := w.renderer.Program()
	state := w.animator.State()
	view := zoom.View{
		Center:     state.Center,
		Size:       state.Size,
		Iterations: state.MaxIterations,
	}

	name := filepath.Join(
		w.cfg.Export.Directory,
		fmt.Sprintf("%s-%s.png", program.Name, time.Now().Format("20060102-150405")),
	)

	w.exports.Add(1)
	go func() {
		defer w.exports.Done()
		defer CatchPanicToContext(w.quit)

		err := saveWithProgress(w.exportCtx, exportOptions(w.cfg, name), program, view)
		if err != nil {
			log.Printf("export %v: %v", name, err)
			return
		}
		log.Printf("saved %v", name)
	}()
}

// saveWithProgress runs export.Save, logging progress once a second.
func saveWithProgress(
	ctx context.Context,
	opts export.SaveOptions,
	program programs.Program,
	view zoom.View,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Progress = func(stage string, progress func() float64) {
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					log.Printf("%v: %v %.0f%%", opts.Name, stage, progress()*100)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	return export.Save(ctx, opts, program, view)
}
