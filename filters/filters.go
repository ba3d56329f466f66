// Package filters provides ready-made post-filters for resize and the other
// ops, built on github.com/disintegration/gift.
package filters

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/gift"

	"github.com/Skryldev/image-scaler/core"
)

// Filter runs a gift filter list into a fresh buffer of the source's layout.
type Filter struct {
	name string
	g    *gift.GIFT
}

var _ core.Filter = (*Filter)(nil)

// New wraps an arbitrary list of gift filters.
func New(name string, fs ...gift.Filter) *Filter {
	g := gift.New(fs...)
	g.SetParallelization(true)
	return &Filter{name: name, g: g}
}

func (f *Filter) String() string { return f.name }

// Apply never modifies src.
func (f *Filter) Apply(src image.Image) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("filter %s: nil source", f.name)
	}
	b := f.g.Bounds(src.Bounds())
	var dst draw.Image
	if core.LayoutOf(src) == core.LayoutARGB {
		dst = image.NewNRGBA(b)
	} else {
		dst = image.NewRGBA(b)
	}
	f.g.Draw(dst, src)
	return dst, nil
}

// antialiasKernel softens edges after a nearest-neighbour or bilinear
// downscale.  Its weights sum to 1.
var antialiasKernel = []float32{
	0, 0.08, 0,
	0.08, 0.68, 0.08,
	0, 0.08, 0,
}

// Antialias applies a light 3×3 blur.
func Antialias() *Filter {
	return New("antialias", gift.Convolution(antialiasKernel, false, false, false, 0))
}

// Brighter scales the colour channels by 1.1.
func Brighter() *Filter { return New("brighter", scaleColor(1.1)) }

// Darker scales the colour channels by 0.9.
func Darker() *Filter { return New("darker", scaleColor(0.9)) }

func scaleColor(k float32) gift.Filter {
	return gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		return min(r*k, 1), min(g*k, 1), min(b*k, 1), a
	})
}

// Grayscale converts to shades of grey, keeping alpha.
func Grayscale() *Filter { return New("grayscale", gift.Grayscale()) }

// Blur applies a gaussian blur with the given sigma.
func Blur(sigma float32) *Filter {
	return New(fmt.Sprintf("blur(%g)", sigma), gift.GaussianBlur(sigma))
}

// Brightness shifts brightness by pct, in [-100, 100].
func Brightness(pct float32) *Filter {
	return New(fmt.Sprintf("brightness(%g)", pct), gift.Brightness(pct))
}

// ByName resolves the argument-free filters: antialias, brighter, darker and
// grayscale.
func ByName(name string) (*Filter, bool) {
	switch name {
	case "antialias":
		return Antialias(), true
	case "brighter":
		return Brighter(), true
	case "darker":
		return Darker(), true
	case "grayscale", "greyscale":
		return Grayscale(), true
	}
	return nil, false
}
