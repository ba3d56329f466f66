package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Name is the backend's configuration name.
const Name = "imaging"

// Rasterizer uses "github.com/disintegration/imaging"
type Rasterizer struct{}

var _ core.Rasterizer = (*Rasterizer)(nil)

func New() *Rasterizer { return &Rasterizer{} }

func (*Rasterizer) Name() string { return Name }

func filter(k core.Kernel) (imaging.ResampleFilter, error) {
	switch k {
	case core.KernelNearest:
		return imaging.NearestNeighbor, nil
	case core.KernelBilinear:
		return imaging.Linear, nil
	case core.KernelBicubic:
		return imaging.CatmullRom, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
}

// Scale resizes into an intermediate NRGBA and copies it into dst.
func (r *Rasterizer) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	f, err := filter(k)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	m := imaging.Resize(src, b.Dx(), b.Dy(), f)
	draw.Draw(dst, b, m, m.Bounds().Min, draw.Src)
	return nil
}
