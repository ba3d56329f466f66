package scaler

import (
	"fmt"
	"image"
	"image/draw"

	goerrors "github.com/go-errors/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// LayoutOf classifies img as opaque or alpha-carrying.  See core.LayoutOf.
func LayoutOf(img image.Image) core.Layout { return core.LayoutOf(img) }

// HasAlpha reports whether img carries an alpha channel.
func HasAlpha(img image.Image) bool { return LayoutOf(img) == core.LayoutARGB }

// Optimal reports whether img is already in one of the two buffer types the
// scaler allocates, anchored at the origin.
func Optimal(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return img.Bounds().Min == image.Point{}
	}
	return false
}

// Normalize copies img into a fresh *image.RGBA or *image.NRGBA matching its
// layout.  Optimal images are returned as-is.
func Normalize(img image.Image) draw.Image {
	if d, ok := img.(draw.Image); ok && Optimal(img) {
		return d
	}
	b := img.Bounds()
	var dst draw.Image
	if LayoutOf(img) == core.LayoutARGB {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst
}

// normalize is Normalize backed by the scaler's allocator.  owned reports
// whether the result is a new buffer.
func (s *Scaler) normalize(img image.Image) (out image.Image, owned bool) {
	if Optimal(img) {
		return img, false
	}
	b := img.Bounds()
	dst := s.alloc.Alloc(LayoutOf(img), b.Dx(), b.Dy())
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst, true
}

// Draw performs one rasterization pass: it allocates a size buffer matching
// src's layout and scales the whole of src into it with kernel k.  src is
// never modified.
func (s *Scaler) Draw(src image.Image, size core.Dimensions, k core.Kernel) (draw.Image, error) {
	if src == nil {
		return nil, apperrors.InvalidArgument("draw", "src", apperrors.ErrNilSource)
	}
	if !k.Valid() {
		return nil, apperrors.InvalidArgument("draw", "kernel", apperrors.ErrInvalidKernel)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, apperrors.InvalidArgument("draw", "size",
			fmt.Errorf("%w: %s", apperrors.ErrInvalidDimensions, size))
	}

	dst := s.alloc.Alloc(LayoutOf(src), size.Width, size.Height)
	if err := s.scale(dst, src, k); err != nil {
		s.alloc.Release(dst)
		return nil, err
	}
	return dst, nil
}

// scale runs the backend, turning both returned errors and panics into
// rasterization failures.
func (s *Scaler) scale(dst draw.Image, src image.Image, k core.Kernel) (err error) {
	op := "draw/" + s.raster.Name()
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Rasterization(op, fmt.Errorf("%w: %w", apperrors.ErrRasterizer, goerrors.Wrap(r, 2)))
		}
	}()
	if e := s.raster.Scale(dst, src, k); e != nil {
		return apperrors.Rasterization(op, fmt.Errorf("%w: %w", apperrors.ErrRasterizer, e))
	}
	return nil
}
