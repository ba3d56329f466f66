// Package xdraw provides the default rasterizer, using golang.org/x/image/draw.
package xdraw

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Name is the backend's configuration name.
const Name = "xdraw"

// Rasterizer uses "golang.org/x/image/draw".  ApproxBiLinear is the
// four-pixel bilinear kernel; CatmullRom is the bicubic one.
type Rasterizer struct{}

var _ core.Rasterizer = (*Rasterizer)(nil)

// New returns the x/image rasterizer.
func New() *Rasterizer { return &Rasterizer{} }

func (*Rasterizer) Name() string { return Name }

// Interpolator maps k to its x/image scaler.
func Interpolator(k core.Kernel) (xdraw.Interpolator, error) {
	switch k {
	case core.KernelNearest:
		return xdraw.NearestNeighbor, nil
	case core.KernelBilinear:
		return xdraw.ApproxBiLinear, nil
	case core.KernelBicubic:
		return xdraw.CatmullRom, nil
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
}

// Scale draws the whole of src into the whole of dst.
func (r *Rasterizer) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	interp, err := Interpolator(k)
	if err != nil {
		return err
	}
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return nil
}
