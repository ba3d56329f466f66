package gift

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/gift"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Name is the backend's configuration name.
const Name = "gift"

// Rasterizer uses "github.com/disintegration/gift"
type Rasterizer struct {
	opts gift.Options
}

var _ core.Rasterizer = (*Rasterizer)(nil)

// New returns a gift rasterizer with parallel row processing enabled.
func New() *Rasterizer {
	return &Rasterizer{opts: gift.Options{Parallelization: true}}
}

func (*Rasterizer) Name() string { return Name }

func resampling(k core.Kernel) (gift.Resampling, error) {
	switch k {
	case core.KernelNearest:
		return gift.NearestNeighborResampling, nil
	case core.KernelBilinear:
		return gift.LinearResampling, nil
	case core.KernelBicubic:
		return gift.CubicResampling, nil
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
}

// Scale draws src resized to dst's size straight into dst with the gift
// resampling matching k.
func (r *Rasterizer) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	rs, err := resampling(k)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	opts := r.opts
	gift.Resize(b.Dx(), b.Dy(), rs).Draw(dst, src, &opts)
	return nil
}
