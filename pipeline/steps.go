// Package pipeline provides the built-in op steps, an op builder and a
// hook-aware runner.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
	"github.com/Skryldev/image-scaler/scaler"
)

// source extracts the pixel buffer of img after a cancellation check.
func source(ctx context.Context, step string, img *core.ImageData) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, step, err)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.InvalidArgument(step, "src", apperrors.ErrNilSource)
	}
	return img.Image, nil
}

// ── Resize ────────────────────────────────────────────────────────────────────

// ResizeStep resizes through the scaler.
type ResizeStep struct {
	Scaler  *scaler.Scaler
	Options scaler.Options
}

func (s *ResizeStep) Name() string { return "resize" }

func (s *ResizeStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	src, err := source(ctx, s.Name(), img)
	if err != nil {
		return nil, err
	}
	res, err := s.Scaler.Resize(src, s.Options)
	if err != nil {
		return nil, err
	}
	return img.WithImage(res.Image), nil
}

// ── Crop ──────────────────────────────────────────────────────────────────────

// CropStep crops a rectangle from the image.
type CropStep struct {
	Scaler              *scaler.Scaler
	X, Y, Width, Height int
	Filters             []core.Filter
}

func (s *CropStep) Name() string { return "crop" }

func (s *CropStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	src, err := source(ctx, s.Name(), img)
	if err != nil {
		return nil, err
	}
	out, err := s.Scaler.Crop(src, s.X, s.Y, s.Width, s.Height, s.Filters...)
	if err != nil {
		return nil, err
	}
	return img.WithImage(out), nil
}

// ── Pad ───────────────────────────────────────────────────────────────────────

// PadStep adds a solid border around the image.
type PadStep struct {
	Scaler  *scaler.Scaler
	Padding int
	Color   color.Color
	Filters []core.Filter
}

func (s *PadStep) Name() string { return "pad" }

func (s *PadStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	src, err := source(ctx, s.Name(), img)
	if err != nil {
		return nil, err
	}
	out, err := s.Scaler.Pad(src, s.Padding, s.Color, s.Filters...)
	if err != nil {
		return nil, err
	}
	return img.WithImage(out), nil
}

// ── Rotate ────────────────────────────────────────────────────────────────────

// RotateStep rotates or flips the image.
type RotateStep struct {
	Scaler   *scaler.Scaler
	Rotation core.Rotation
	Filters  []core.Filter
}

func (s *RotateStep) Name() string { return "rotate" }

func (s *RotateStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	src, err := source(ctx, s.Name(), img)
	if err != nil {
		return nil, err
	}
	out, err := s.Scaler.Rotate(src, s.Rotation, s.Filters...)
	if err != nil {
		return nil, err
	}
	return img.WithImage(out), nil
}

// ── Apply ─────────────────────────────────────────────────────────────────────

// ApplyStep runs post-filters on the image.
type ApplyStep struct {
	Scaler  *scaler.Scaler
	Filters []core.Filter
}

func (s *ApplyStep) Name() string { return "apply" }

func (s *ApplyStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	src, err := source(ctx, s.Name(), img)
	if err != nil {
		return nil, err
	}
	out, err := s.Scaler.Apply(src, s.Filters...)
	if err != nil {
		return nil, err
	}
	return img.WithImage(out), nil
}

// ── Thumbnail ────────────────────────────────────────────────────────────────

// ThumbnailStep resizes so the shorter side equals Size, then centre-crops
// to a Size×Size square.
type ThumbnailStep struct {
	Scaler *scaler.Scaler
	Size   int
	Method core.Method
}

func (s *ThumbnailStep) Name() string { return "thumbnail" }

func (s *ThumbnailStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	src, err := source(ctx, s.Name(), img)
	if err != nil {
		return nil, err
	}
	if s.Size <= 0 {
		return nil, apperrors.InvalidArgument(s.Name(), "size",
			fmt.Errorf("%w: %d", apperrors.ErrInvalidDimensions, s.Size))
	}

	// Shorter side is primary.
	d := core.DimensionsOf(src)
	opts := scaler.Options{Method: s.Method, Mode: core.FitToHeight, Width: s.Size, Height: s.Size}
	if d.Width < d.Height {
		opts.Mode = core.FitToWidth
	}
	res, err := s.Scaler.Resize(src, opts)
	if err != nil {
		return nil, err
	}

	rd := core.DimensionsOf(res.Image)
	size := min(s.Size, rd.Width, rd.Height)
	ox := (rd.Width - size) / 2
	oy := (rd.Height - size) / 2
	out, err := s.Scaler.Crop(res.Image, ox, oy, size, size)
	if err != nil {
		return nil, err
	}
	return img.WithImage(out), nil
}

// compile-time interface checks
var (
	_ core.Step = (*ResizeStep)(nil)
	_ core.Step = (*CropStep)(nil)
	_ core.Step = (*PadStep)(nil)
	_ core.Step = (*RotateStep)(nil)
	_ core.Step = (*ApplyStep)(nil)
	_ core.Step = (*ThumbnailStep)(nil)
)
