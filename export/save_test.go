package export

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSave(t *testing.T) {
	tests := []struct {
		name        string
		supersample int
	}{
		{"plain", 1},
		{"supersampled", 3},
		{"zero supersample", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.png")

			var stages []string
			opts := SaveOptions{
				Name:        path,
				Width:       64,
				Height:      48,
				Supersample: tt.supersample,
				Progress: func(stage string, progress func() float64) {
					stages = append(stages, stage)
				},
			}
			if err := Save(context.Background(), opts, mandelbrot(t), defaultView()); err != nil {
				t.Fatalf("Save: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
				t.Errorf("bounds = %v, want 64x48", img.Bounds())
			}
			if len(stages) != 1 {
				t.Errorf("stages = %v", stages)
			}
		})
	}
}

func TestSaveCancelledRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Save(ctx, SaveOptions{Name: path, Width: 64, Height: 64}, mandelbrot(t), defaultView())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file left behind: %v", err)
	}
}

func TestSaveInvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(context.Background(), SaveOptions{Name: path}, mandelbrot(t), defaultView()); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file created for invalid size: %v", err)
	}
}
