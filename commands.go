package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/stewi1014/glzoom/config"
	"github.com/stewi1014/glzoom/export"
	"github.com/stewi1014/glzoom/programs"
	"github.com/stewi1014/glzoom/zoom"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var (
	outFile     string
	centerX     float64
	centerY     float64
	viewSize    float64
	iterations  int32
	exportW     int
	exportH     int
	supersample int

	pointerX float64
	pointerY float64
	zoomOut  bool
	hold     int
	limit    int
)

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render a view to a PNG on the CPU",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "fractal.png", "output file")
	cmd.Flags().Float64Var(&centerX, "center-x", 0, "view center, real part")
	cmd.Flags().Float64Var(&centerY, "center-y", 0, "view center, imaginary part")
	cmd.Flags().Float64Var(&viewSize, "size", 0, "view width in fractal units (default from config)")
	cmd.Flags().Int32Var(&iterations, "iterations", 0, "iteration budget (default max-iterations)")
	cmd.Flags().IntVar(&exportW, "width", 0, "image width (default from config)")
	cmd.Flags().IntVar(&exportH, "height", 0, "image height (default from config)")
	cmd.Flags().IntVar(&supersample, "supersample", 0, "render at this multiple and scale down (default from config)")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	state := cfg.InitialState()
	if flags.Changed("center-x") {
		state.Center[0] = centerX
	}
	if flags.Changed("center-y") {
		state.Center[1] = centerY
	}
	if flags.Changed("size") {
		state.Size = viewSize
	}
	if flags.Changed("iterations") {
		state.MaxIterations = iterations
	}
	if flags.Changed("width") {
		cfg.Export.Width = exportW
	}
	if flags.Changed("height") {
		cfg.Export.Height = exportH
	}
	if flags.Changed("supersample") {
		cfg.Export.Supersample = supersample
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if state.Size <= 0 || state.MaxIterations <= 0 {
		return fmt.Errorf("size %v and iterations %v must be positive", state.Size, state.MaxIterations)
	}

	program, err := programs.Lookup(cfg.Window.Program)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	view := zoom.View{Center: state.Center, Size: state.Size, Iterations: state.MaxIterations}
	err = saveWithProgress(ctx, exportOptions(cfg, outFile), program, view)
	if err != nil {
		return fmt.Errorf("render %v: %w", outFile, err)
	}

	fmt.Printf("%s %s\n", headingStyle.Render("saved"), outFile)
	return nil
}

func exportOptions(cfg *config.Config, name string) export.SaveOptions {
	return export.SaveOptions{
		Name:        name,
		Width:       cfg.Export.Width,
		Height:      cfg.Export.Height,
		Supersample: cfg.Export.Supersample,
	}
}

func newTraceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "run the zoom animation without a display and plot it",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	cmd.Flags().Float64Var(&pointerX, "x", 0.5, "pointer position as a fraction of the width")
	cmd.Flags().Float64Var(&pointerY, "y", 0.5, "pointer position as a fraction of the height")
	cmd.Flags().BoolVar(&zoomOut, "zoom-out", false, "zoom out instead of in")
	cmd.Flags().IntVar(&hold, "hold", 120, "frames the button is held")
	cmd.Flags().IntVar(&limit, "limit", 2000, "maximum frames to run")
	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	samples, err := zoom.Trace(cfg.Params(), cfg.InitialState(), zoom.Script{
		X:     pointerX,
		Y:     pointerY,
		In:    !zoomOut,
		Hold:  hold,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no frames rendered")
	}

	budget := make([]float64, len(samples))
	size := make([]float64, len(samples))
	for i, s := range samples {
		budget[i] = float64(s.Iterations)
		size[i] = math.Log10(s.Size)
	}

	first, last := samples[0], samples[len(samples)-1]
	fmt.Println(headingStyle.Render("zoom trace"))
	fmt.Printf("%s %d\n", labelStyle.Render("frames:"), len(samples))
	fmt.Printf("%s %s -> %s\n", labelStyle.Render("center:"), formatVec(first.Center), formatVec(last.Center))
	fmt.Printf("%s %g -> %g\n\n", labelStyle.Render("size:  "), first.Size, last.Size)

	fmt.Println(asciigraph.Plot(budget,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("iteration budget"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(size,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("log10(size)"),
	))
	return nil
}

func formatVec(v mgl64.Vec2) string {
	return fmt.Sprintf("(%.6g, %.6g)", v[0], v[1])
}

func newProgramsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "list fractal programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(headingStyle.Render("programs"))
			for i, name := range programs.Names() {
				fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), name)
			}
		},
	}
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "glzoom.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%v already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", headingStyle.Render("wrote"), path)
			return nil
		},
	})
	return cmd
}
