package pipeline

import (
	"image/color"

	"github.com/Skryldev/image-scaler/core"
	"github.com/Skryldev/image-scaler/scaler"
)

// Builder assembles a Pipeline of ops.  Every op's arguments are checked when
// it is added; the first rejection is kept and returned by Build, and later
// calls become no-ops.
type Builder struct {
	s     *scaler.Scaler
	steps []core.Step
	err   error
}

// NewBuilder returns a Builder whose steps run on s.
func NewBuilder(s *scaler.Scaler) *Builder { return &Builder{s: s} }

func (b *Builder) add(err error, step core.Step) *Builder {
	if b.err != nil {
		return b
	}
	if err != nil {
		b.err = err
		return b
	}
	b.steps = append(b.steps, step)
	return b
}

// Resize adds a resize.
func (b *Builder) Resize(opts scaler.Options) *Builder {
	return b.add(scaler.ValidateOptions(opts), &ResizeStep{Scaler: b.s, Options: opts})
}

// ResizeTo adds an automatic resize to a size×size box.
func (b *Builder) ResizeTo(size int) *Builder {
	return b.Resize(scaler.Options{Width: size, Height: size})
}

// Crop adds a crop of the w×h region at (x, y).
func (b *Builder) Crop(x, y, w, h int) *Builder {
	return b.add(scaler.CheckCrop(x, y, w, h), &CropStep{Scaler: b.s, X: x, Y: y, Width: w, Height: h})
}

// Pad adds a border of c.
func (b *Builder) Pad(padding int, c color.Color) *Builder {
	return b.add(scaler.CheckPad(padding, c), &PadStep{Scaler: b.s, Padding: padding, Color: c})
}

// PadBlack adds a black border.
func (b *Builder) PadBlack(padding int) *Builder { return b.Pad(padding, color.Black) }

// Rotate adds a rotation or flip.
func (b *Builder) Rotate(r core.Rotation) *Builder {
	return b.add(scaler.CheckRotate(r), &RotateStep{Scaler: b.s, Rotation: r})
}

// Apply adds a post-filter pass.
func (b *Builder) Apply(filters ...core.Filter) *Builder {
	return b.add(scaler.CheckFilters(filters), &ApplyStep{Scaler: b.s, Filters: filters})
}

// Thumbnail adds a square centre-cropped thumbnail.
func (b *Builder) Thumbnail(size int) *Builder {
	err := scaler.ValidateOptions(scaler.Options{Width: size, Height: size})
	return b.add(err, &ThumbnailStep{Scaler: b.s, Size: size})
}

// Steps returns the ops added so far, or the first argument error.
func (b *Builder) Steps() ([]core.Step, error) {
	if b.err != nil {
		return nil, b.err
	}
	return append([]core.Step(nil), b.steps...), nil
}

// Build returns a Pipeline of the added ops, or the first argument error.
func (b *Builder) Build() (*Pipeline, error) {
	steps, err := b.Steps()
	if err != nil {
		return nil, err
	}
	return New().Use(steps...), nil
}
