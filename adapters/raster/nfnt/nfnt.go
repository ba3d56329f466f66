package nfnt

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Name is the backend's configuration name.
const Name = "nfnt"

// Rasterizer uses "github.com/nfnt/resize"
type Rasterizer struct{}

var _ core.Rasterizer = (*Rasterizer)(nil)

func New() *Rasterizer { return &Rasterizer{} }

func (*Rasterizer) Name() string { return Name }

func interpolation(k core.Kernel) (resize.InterpolationFunction, error) {
	switch k {
	case core.KernelNearest:
		return resize.NearestNeighbor, nil
	case core.KernelBilinear:
		return resize.Bilinear, nil
	case core.KernelBicubic:
		return resize.Bicubic, nil
	}
	return 0, fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
}

// Scale resizes into an intermediate image and copies it into dst.
func (r *Rasterizer) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	interp, err := interpolation(k)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	m := resize.Resize(uint(b.Dx()), uint(b.Dy()), src, interp)
	draw.Draw(dst, b, m, m.Bounds().Min, draw.Src)
	return nil
}
