package bild

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Name is the backend's configuration name.
const Name = "bild"

// Rasterizer uses "github.com/anthonynsimon/bild/transform"
type Rasterizer struct{}

var _ core.Rasterizer = (*Rasterizer)(nil)

func New() *Rasterizer { return &Rasterizer{} }

func (*Rasterizer) Name() string { return Name }

func filter(k core.Kernel) (transform.ResampleFilter, error) {
	switch k {
	case core.KernelNearest:
		return transform.NearestNeighbor, nil
	case core.KernelBilinear:
		return transform.Linear, nil
	case core.KernelBicubic:
		return transform.CatmullRom, nil
	}
	return transform.ResampleFilter{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
}

// Scale resizes into an intermediate RGBA and copies it into dst.
func (r *Rasterizer) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	f, err := filter(k)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	m := transform.Resize(src, b.Dx(), b.Dy(), f)
	draw.Draw(dst, b, m, m.Bounds().Min, draw.Src)
	return nil
}
