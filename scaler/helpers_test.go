package scaler_test

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-scaler/config"
	"github.com/Skryldev/image-scaler/core"
	"github.com/Skryldev/image-scaler/scaler"
)

// countingAlloc tracks live buffers so tests can check release discipline.
type countingAlloc struct {
	mu       sync.Mutex
	live     map[image.Image]bool
	released []image.Image
	allocs   int
	maxLive  int
}

func newCountingAlloc() *countingAlloc {
	return &countingAlloc{live: map[image.Image]bool{}}
}

func (a *countingAlloc) Alloc(l core.Layout, w, h int) draw.Image {
	var img draw.Image
	if l == core.LayoutARGB {
		img = image.NewNRGBA(image.Rect(0, 0, w, h))
	} else {
		img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.allocs++
	a.live[img] = true
	a.maxLive = max(a.maxLive, len(a.live))
	return img
}

func (a *countingAlloc) Release(img image.Image) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.live, img)
	a.released = append(a.released, img)
}

func (a *countingAlloc) wasReleased(img image.Image) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.released {
		if r == img {
			return true
		}
	}
	return false
}

// fakeRaster records every pass and leaves dst untouched.
type fakeRaster struct {
	kernels []core.Kernel
	sizes   []core.Dimensions
	err     error
	panicV  any
}

func (f *fakeRaster) Name() string { return "fake" }

func (f *fakeRaster) Scale(dst draw.Image, _ image.Image, k core.Kernel) error {
	f.kernels = append(f.kernels, k)
	f.sizes = append(f.sizes, core.DimensionsOf(dst))
	if f.panicV != nil {
		panic(f.panicV)
	}
	return f.err
}

func newScaler(t *testing.T, opts ...scaler.Option) *scaler.Scaler {
	t.Helper()
	s, err := scaler.New(config.Default(), opts...)
	require.NoError(t, err)
	return s
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func dims(img image.Image) core.Dimensions { return core.DimensionsOf(img) }

func wh(w, h int) core.Dimensions { return core.Dimensions{Width: w, Height: h} }
