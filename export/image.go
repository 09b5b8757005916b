package export

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glzoom/programs"
	"github.com/stewi1014/glzoom/zoom"
	"golang.org/x/image/draw"
)

// ToImage renders program on the CPU at the given view. Pixels are evaluated
// lazily as the image is read.
func ToImage(program programs.Program, view zoom.View, width, height int) (image.Image, error) {
	if !program.HasCPU() {
		return nil, programs.ErrNoCPUImplementation
	}

	return &programImage{
		program: program,
		state:   zoom.State{Center: view.Center, Size: view.Size},
		maxIter: int(view.Iterations),
		bounds:  image.Rect(0, 0, width, height),
	}, nil
}

type programImage struct {
	program programs.Program
	state   zoom.State
	maxIter int
	bounds  image.Rectangle
}

func (i *programImage) At(x, y int) color.Color {
	// sample the middle of the pixel
	pos := i.state.At(
		(float64(x)+.5)/float64(i.bounds.Dx()),
		(float64(y)+.5)/float64(i.bounds.Dy()),
	)

	return toNRGBA(i.program.GetPixel(pos, i.maxIter))
}

func (i *programImage) Bounds() image.Rectangle {
	return i.bounds
}

func (i *programImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *programImage) Opaque() bool {
	return true
}

func toNRGBA(c mgl32.Vec3) color.NRGBA {
	return color.NRGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: 0xff,
	}
}

func WrapWithProgress(img *image.Image) func() float64 {
	p := &ProgressImage{
		Image: *img,
	}

	*img = p
	return p.Progress
}

// ProgressImage counts reads of the wrapped image. It is safe to read from
// several goroutines.
type ProgressImage struct {
	image.Image
	count atomic.Int64
}

func (i *ProgressImage) At(x, y int) color.Color {
	i.count.Add(1)
	return i.Image.At(x, y)
}

func (i *ProgressImage) Progress() float64 {
	end := i.Bounds().Dx() * i.Bounds().Dy()
	if end == 0 {
		return 1
	}
	return float64(i.count.Load()) / float64(end)
}

func (i *ProgressImage) Opaque() bool {
	return true
}

func BufferImage(img image.Image) *BufferedImage {
	return &BufferedImage{
		Image: img,
	}
}

// BufferedImage evaluates every pixel of the wrapped image up front, in
// parallel, into an NRGBA buffer.
type BufferedImage struct {
	image.Image
	buff *image.NRGBA
}

func (b *BufferedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Image.Bounds().Dx(), b.Image.Bounds().Dy())
}

func (b *BufferedImage) At(x, y int) color.Color {
	return b.buff.At(x, y)
}

func (b *BufferedImage) ColorModel() color.Model {
	return color.NRGBAModel
}

// NRGBA returns the buffer. It is nil until Buffer has succeeded.
func (b *BufferedImage) NRGBA() *image.NRGBA {
	return b.buff
}

func (b *BufferedImage) Buffer(ctx context.Context) error {
	buff := image.NewNRGBA(b.Bounds())

	min, max := b.Image.Bounds().Min, b.Image.Bounds().Max
	chunkSize := 50
	var wg sync.WaitGroup

	for chunkMin := min.X; chunkMin < max.X; chunkMin += chunkSize {
		chunkMax := chunkMin + chunkSize
		if chunkMax > max.X {
			chunkMax = max.X
		}

		chunkMin := chunkMin
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := chunkMin; x < chunkMax; x++ {
				if ctx.Err() != nil {
					return
				}

				for y := min.Y; y < max.Y; y++ {
					buff.Set(x-min.X, y-min.Y, b.Image.At(x, y))
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	b.buff = buff
	return nil
}

func (b *BufferedImage) Opaque() bool {
	return true
}

// Downscale resizes img to width x height with Catmull-Rom filtering.
func Downscale(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
