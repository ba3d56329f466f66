package scaler

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/gift"
	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Crop copies the w×h region at (x, y), relative to src's bounds, into a
// new buffer and applies filters to it.
func (s *Scaler) Crop(src image.Image, x, y, w, h int, filters ...core.Filter) (image.Image, error) {
	if err := ValidateCrop(src, x, y, w, h); err != nil {
		return nil, err
	}
	start := time.Now()
	b := src.Bounds()
	dst := s.alloc.Alloc(LayoutOf(src), w, h)
	xdraw.Copy(dst, image.Point{}, src, image.Rect(b.Min.X+x, b.Min.Y+y, b.Min.X+x+w, b.Min.Y+y+h), xdraw.Src, nil)
	s.trace("scaler.crop", "source", core.DimensionsOf(src).String(),
		"rect", fmt.Sprintf("%d,%d %dx%d", x, y, w, h), "elapsed_ms", time.Since(start).Milliseconds())
	return s.applyFilters("crop", dst, filters)
}

// ValidateCrop checks crop arguments against src without touching pixels.
func ValidateCrop(src image.Image, x, y, w, h int) error {
	if err := ValidateSource("crop", src); err != nil {
		return err
	}
	if err := CheckCrop(x, y, w, h); err != nil {
		return err
	}
	d := core.DimensionsOf(src)
	if x+w > d.Width {
		return apperrors.InvalidArgument("crop", "width",
			fmt.Errorf("%w: x+width %d exceeds source width %d", apperrors.ErrInvalidCrop, x+w, d.Width))
	}
	if y+h > d.Height {
		return apperrors.InvalidArgument("crop", "height",
			fmt.Errorf("%w: y+height %d exceeds source height %d", apperrors.ErrInvalidCrop, y+h, d.Height))
	}
	return nil
}

// CheckCrop checks the source-independent crop arguments.
func CheckCrop(x, y, w, h int) error {
	switch {
	case x < 0:
		return apperrors.InvalidArgument("crop", "x", fmt.Errorf("%w: x %d < 0", apperrors.ErrInvalidCrop, x))
	case y < 0:
		return apperrors.InvalidArgument("crop", "y", fmt.Errorf("%w: y %d < 0", apperrors.ErrInvalidCrop, y))
	case w <= 0:
		return apperrors.InvalidArgument("crop", "width", fmt.Errorf("%w: width %d <= 0", apperrors.ErrInvalidCrop, w))
	case h <= 0:
		return apperrors.InvalidArgument("crop", "height", fmt.Errorf("%w: height %d <= 0", apperrors.ErrInvalidCrop, h))
	}
	return nil
}

// Pad surrounds src with a padding-pixel border of c.  The result carries
// alpha when either c is translucent or src has alpha.
func (s *Scaler) Pad(src image.Image, padding int, c color.Color, filters ...core.Filter) (image.Image, error) {
	if err := ValidatePad(src, padding, c); err != nil {
		return nil, err
	}
	start := time.Now()
	d := core.DimensionsOf(src)
	layout := LayoutOf(src)
	if _, _, _, a := c.RGBA(); a != 0xffff {
		layout = core.LayoutARGB
	}

	dst := s.alloc.Alloc(layout, d.Width+2*padding, d.Height+2*padding)
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, image.Rect(padding, padding, padding+d.Width, padding+d.Height), src, src.Bounds().Min, xdraw.Over)
	s.trace("scaler.pad", "source", d.String(), "padding", padding,
		"layout", layout.String(), "elapsed_ms", time.Since(start).Milliseconds())
	return s.applyFilters("pad", dst, filters)
}

// ValidatePad checks pad arguments without touching pixels.
func ValidatePad(src image.Image, padding int, c color.Color) error {
	if err := ValidateSource("pad", src); err != nil {
		return err
	}
	return CheckPad(padding, c)
}

// CheckPad checks the source-independent pad arguments.
func CheckPad(padding int, c color.Color) error {
	if padding < 1 {
		return apperrors.InvalidArgument("pad", "padding", fmt.Errorf("%w: %d", apperrors.ErrInvalidPadding, padding))
	}
	if c == nil {
		return apperrors.InvalidArgument("pad", "color", apperrors.ErrNilColor)
	}
	return nil
}

// Rotate applies a clockwise quadrant rotation or a flip.  Rotate90 and
// Rotate270 swap the dimensions.
func (s *Scaler) Rotate(src image.Image, r core.Rotation, filters ...core.Filter) (image.Image, error) {
	if err := ValidateRotate(src, r); err != nil {
		return nil, err
	}
	start := time.Now()
	g := gift.New(rotationFilter(r))
	rb := g.Bounds(src.Bounds())
	dst := s.alloc.Alloc(LayoutOf(src), rb.Dx(), rb.Dy())
	g.Draw(dst, src)
	s.trace("scaler.rotate", "source", core.DimensionsOf(src).String(),
		"rotation", r.String(), "elapsed_ms", time.Since(start).Milliseconds())
	return s.applyFilters("rotate", dst, filters)
}

// ValidateRotate checks rotate arguments without touching pixels.
func ValidateRotate(src image.Image, r core.Rotation) error {
	if err := ValidateSource("rotate", src); err != nil {
		return err
	}
	return CheckRotate(r)
}

// CheckRotate checks the rotation value.
func CheckRotate(r core.Rotation) error {
	if !r.Valid() {
		return apperrors.InvalidArgument("rotate", "rotation", fmt.Errorf("%w: %d", apperrors.ErrInvalidRotation, int(r)))
	}
	return nil
}

// gift rotates counter-clockwise.
func rotationFilter(r core.Rotation) gift.Filter {
	switch r {
	case core.Rotate90:
		return gift.Rotate270()
	case core.Rotate180:
		return gift.Rotate180()
	case core.Rotate270:
		return gift.Rotate90()
	case core.FlipHorizontal:
		return gift.FlipHorizontal()
	case core.FlipVertical:
		return gift.FlipVertical()
	}
	panic("scaler: no filter for " + r.String())
}

// Apply normalises src and threads it through filters.  At least one
// non-nil filter is required.
func (s *Scaler) Apply(src image.Image, filters ...core.Filter) (image.Image, error) {
	if err := ValidateApply(src, filters); err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := s.applyFilters("apply", src, filters)
	if err != nil {
		return nil, err
	}
	s.trace("scaler.apply", "source", core.DimensionsOf(src).String(),
		"filters", countFilters(filters), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// ValidateApply checks apply arguments without touching pixels.
func ValidateApply(src image.Image, filters []core.Filter) error {
	if err := ValidateSource("apply", src); err != nil {
		return err
	}
	return CheckFilters(filters)
}

// CheckFilters requires at least one non-nil filter.
func CheckFilters(filters []core.Filter) error {
	if countFilters(filters) == 0 {
		return apperrors.InvalidArgument("apply", "filters", apperrors.ErrNoFilters)
	}
	return nil
}
