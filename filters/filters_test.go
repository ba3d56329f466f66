package filters_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-scaler/filters"
)

func fill(img interface {
	Set(x, y int, c color.Color)
	Bounds() image.Rectangle
}, c color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestGrayscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill(src, color.RGBA{R: 200, G: 40, B: 90, A: 255})

	out, err := filters.Grayscale().Apply(src)
	require.NoError(t, err)
	require.IsType(t, &image.RGBA{}, out)

	c := out.(*image.RGBA).RGBAAt(1, 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, color.RGBA{R: 200, G: 40, B: 90, A: 255}, src.RGBAAt(1, 1), "source untouched")
}

func TestBrighterDarker(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	fill(src, color.RGBA{R: 250, G: 100, B: 0, A: 255})

	out, err := filters.Brighter().Apply(src)
	require.NoError(t, err)
	c := out.(*image.RGBA).RGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R, "clamped")
	assert.InDelta(t, 110, int(c.G), 1)
	assert.Equal(t, uint8(0), c.B)

	out, err = filters.Darker().Apply(src)
	require.NoError(t, err)
	c = out.(*image.RGBA).RGBAAt(0, 0)
	assert.InDelta(t, 225, int(c.R), 1)
	assert.InDelta(t, 90, int(c.G), 1)
}

func TestApply_KeepsLayout(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 3))
	fill(src, color.NRGBA{R: 10, G: 20, B: 30, A: 100})

	for _, f := range []*filters.Filter{filters.Antialias(), filters.Grayscale(), filters.Blur(1), filters.Brightness(10)} {
		out, err := f.Apply(src)
		require.NoError(t, err, f.String())
		assert.IsType(t, &image.NRGBA{}, out, f.String())
		assert.Equal(t, src.Bounds().Size(), out.Bounds().Size(), f.String())
	}
}

func TestAntialias_UniformImageUnchanged(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fill(src, color.RGBA{R: 120, G: 60, B: 30, A: 255})

	out, err := filters.Antialias().Apply(src)
	require.NoError(t, err)
	c := out.(*image.RGBA).RGBAAt(4, 4)
	assert.InDelta(t, 120, int(c.R), 1)
	assert.InDelta(t, 60, int(c.G), 1)
	assert.InDelta(t, 30, int(c.B), 1)
}

func TestApply_NilSource(t *testing.T) {
	_, err := filters.Grayscale().Apply(nil)
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"antialias", "brighter", "darker", "grayscale"} {
		f, ok := filters.ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, f.String())
	}
	f, ok := filters.ByName("greyscale")
	require.True(t, ok)
	assert.Equal(t, "grayscale", f.String())

	_, ok = filters.ByName("sepia")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "blur(1.5)", filters.Blur(1.5).String())
	assert.Equal(t, "brightness(-20)", filters.Brightness(-20).String())
}
