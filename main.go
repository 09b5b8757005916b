package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"
	"github.com/stewi1014/glzoom/config"
	"github.com/stewi1014/glzoom/programs"
)

var (
	configFile    string
	programName   string
	width         int
	height        int
	maxIterations int32
	minIterations int32
	recovery      string
	debugGL       bool
)

func init() {
	// glfw and GL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "glzoom",
		Short:         "interactive Mandelbrot and Julia set viewer",
		Long:          "Hold the left mouse button to zoom in toward the pointer, the right button to zoom out.\nScroll to zoom around the center, R resets, S saves a PNG, 1-9 switch fractal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runViewer,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&programName, "program", "", "fractal program")
	rootCmd.PersistentFlags().Int32Var(&maxIterations, "max-iterations", 0, "iteration budget at rest")
	rootCmd.PersistentFlags().Int32Var(&minIterations, "min-iterations", 0, "iteration budget floor while zooming")
	rootCmd.PersistentFlags().StringVar(&recovery, "recovery", "", "budget recovery after zooming: ramp or snap")

	rootCmd.Flags().IntVar(&width, "width", 0, "window width")
	rootCmd.Flags().IntVar(&height, "height", 0, "window height")
	rootCmd.Flags().BoolVar(&debugGL, "debug", false, "log OpenGL debug output")

	rootCmd.AddCommand(
		newRenderCommand(),
		newTraceCommand(),
		newProgramsCommand(),
		newConfigCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("program") {
		cfg.Window.Program = programName
	}
	if flags.Changed("max-iterations") {
		cfg.Zoom.MaxIterations = maxIterations
	}
	if flags.Changed("min-iterations") {
		cfg.Zoom.MinIterations = minIterations
	}
	if flags.Changed("recovery") {
		cfg.Zoom.Recovery = recovery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := programs.Lookup(cfg.Window.Program); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err == nil {
		err = applyWindowFlags(cmd, cfg)
	}
	if err != nil {
		NewErrorDialog(err)
		return err
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mainContext, mainQuit := context.WithCancelCause(signalCtx)
	defer mainQuit(nil)

	err = glMain(mainContext, mainQuit, cfg)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		NewErrorDialog(err)
	}
	return err
}

func applyWindowFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Window.Width = width
	}
	if flags.Changed("height") {
		cfg.Window.Height = height
	}
	if flags.Changed("debug") {
		cfg.Window.Debug = debugGL
	}
	return cfg.Validate()
}

func glMain(ctx context.Context, quit context.CancelCauseFunc, cfg *config.Config) (err error) {
	defer func() {
		if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
			err = context.Cause(ctx)
		}
	}()
	defer CatchPanicToContext(quit)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	program, err := programs.Lookup(cfg.Window.Program)
	if err != nil {
		return err
	}

	window, err := NewWindow(ctx, quit, cfg, program)
	if err != nil {
		return err
	}
	defer window.Close()

	return window.Run()
}
