// Package gg rasterizes through the software 2D context of github.com/gogpu/gg.
package gg

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Name is the backend's configuration name.
const Name = "gg"

// Rasterizer draws the source as a scaled image onto a fresh gg context.
// gg has no usable nearest-neighbour mode (its zero interpolation value means
// bilinear), so KernelNearest goes through x/image instead.
type Rasterizer struct{}

var _ core.Rasterizer = (*Rasterizer)(nil)

func New() *Rasterizer { return &Rasterizer{} }

func (*Rasterizer) Name() string { return Name }

// Scale renders src into a gg context of dst's size and copies the result
// into dst.
func (r *Rasterizer) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	var mode gg.InterpolationMode
	switch k {
	case core.KernelNearest:
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		return nil
	case core.KernelBilinear:
		mode = gg.InterpBilinear
	case core.KernelBicubic:
		mode = gg.InterpBicubic
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
	}

	b := dst.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	defer dc.Close()

	// SrcRect is left nil: the buffer gg builds from src starts at the origin.
	dc.DrawImageEx(gg.ImageBufFromImage(src), gg.DrawImageOptions{
		DstWidth:      float64(b.Dx()),
		DstHeight:     float64(b.Dy()),
		Interpolation: mode,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
	out := dc.Image()
	draw.Draw(dst, b, out, out.Bounds().Min, draw.Src)
	return nil
}
