package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/stewi1014/glzoom/programs"
	"github.com/stewi1014/glzoom/zoom"
)

type SaveOptions struct {
	Name          string
	Width, Height int
	// Supersample renders at this multiple of the output size and scales down.
	Supersample int
	// Progress, if set, is given a progress supplier for each stage.
	Progress func(stage string, progress func() float64)
}

// Save renders program at view and writes it to opts.Name as a PNG.
// The file is removed if rendering fails or ctx is cancelled.
func Save(
	ctx context.Context,
	opts SaveOptions,
	program programs.Program,
	view zoom.View,
) (err error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("image size %vx%v must be positive", opts.Width, opts.Height)
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}

	img, err := ToImage(program, view, opts.Width*opts.Supersample, opts.Height*opts.Supersample)
	if err != nil {
		return err
	}

	file, err := os.Create(opts.Name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			if removeErr := os.Remove(file.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				log.Println(removeErr)
			}
		}
	}()

	progress := WrapWithProgress(&img)
	if opts.Progress != nil {
		opts.Progress("Rendering to Buffer", progress)
	}

	buff := BufferImage(img)
	if err := buff.Buffer(ctx); err != nil {
		return err
	}

	var out image.Image = buff.NRGBA()
	if opts.Supersample > 1 {
		out = Downscale(out, opts.Width, opts.Height)
	}

	if err := png.Encode(file, out); err != nil {
		return fmt.Errorf("encode %v: %w", opts.Name, err)
	}
	return nil
}
