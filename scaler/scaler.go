// Package scaler implements proportional image resizing: target dimension
// resolution, speed/quality method selection, single-pass rasterization and
// incremental bicubic downscaling, plus the crop, pad, rotate and apply ops
// that share the same buffer discipline.
//
// A Scaler is immutable after New and safe for concurrent use.  Every call
// works on its own buffers; the caller's source image is never modified or
// released.
package scaler

import (
	"fmt"
	"image"
	"time"

	"github.com/Skryldev/image-scaler/adapters/raster"
	"github.com/Skryldev/image-scaler/config"
	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
	"github.com/Skryldev/image-scaler/hooks"
	"github.com/Skryldev/image-scaler/utils"
)

// Scaler resizes and transforms images.
type Scaler struct {
	selector *Selector
	raster   core.Rasterizer
	alloc    core.Allocator
	logger   core.Logger
	debug    bool
}

// Option customises a Scaler.
type Option func(*Scaler)

// WithRasterizer overrides the backend named by config.Backend.
func WithRasterizer(r core.Rasterizer) Option { return func(s *Scaler) { s.raster = r } }

// WithAllocator overrides the default pooled allocator.
func WithAllocator(a core.Allocator) Option { return func(s *Scaler) { s.alloc = a } }

// WithLogger sets the destination of debug trace lines.
func WithLogger(l core.Logger) Option { return func(s *Scaler) { s.logger = l } }

// New builds a Scaler from cfg.  Thresholds and the debug toggle are copied;
// later changes to cfg have no effect.
func New(cfg config.Config, opts ...Option) (*Scaler, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.New(apperrors.CategoryConfig, "scaler.new", err)
	}
	s := &Scaler{
		selector: NewSelector(cfg.Thresholds),
		debug:    cfg.Debug,
	}
	for _, o := range opts {
		o(s)
	}
	if s.raster == nil {
		r, err := raster.ByName(cfg.Backend)
		if err != nil {
			return nil, apperrors.New(apperrors.CategoryConfig, "scaler.new", err)
		}
		s.raster = r
	}
	if s.alloc == nil {
		s.alloc = utils.NewPixelPool()
	}
	if s.logger == nil {
		s.logger = hooks.NopLogger{}
	}
	return s, nil
}

// Selector exposes the method selector.
func (s *Scaler) Selector() *Selector { return s.selector }

// Backend returns the rasterizer's name.
func (s *Scaler) Backend() string { return s.raster.Name() }

// Options describes one resize.  The zero Method and Mode are the automatic
// variants; nil entries in Filters are skipped.
type Options struct {
	Method  core.Method
	Mode    core.FitMode
	Width   int
	Height  int
	Filters []core.Filter
}

// Result describes a finished resize.
type Result struct {
	Image  image.Image
	Source core.Dimensions
	Target core.Dimensions
	// Method is the concrete tier used; MethodAutomatic when no resize ran.
	Method core.Method
	// Kernel is zero when no resize ran.
	Kernel core.Kernel
	// Passes is the number of rasterization passes; 0 for a no-op.
	Passes  int
	Elapsed time.Duration
}

// Resized reports whether any rasterization pass ran.
func (r *Result) Resized() bool { return r.Passes > 0 }

// Resize scales src as described by opts and threads the result through
// opts.Filters.  All argument checks happen before any buffer is allocated.
// When no resize is needed and no filter is given, the returned image is src
// itself.
func (s *Scaler) Resize(src image.Image, opts Options) (*Result, error) {
	start := time.Now()
	if err := validateResize(src, opts); err != nil {
		return nil, err
	}

	source := core.DimensionsOf(src)
	req := core.Dimensions{Width: opts.Width, Height: opts.Height}
	ratio := Ratio(source)
	s.trace("scaler.resize.start",
		"source", source.String(),
		"mode", opts.Mode.String(),
		"orientation", orientation(ratio),
		"ratio", ratio,
		"requested", req.String())

	target, unchanged := Resolve(source, opts.Mode, req)
	res := &Result{Image: src, Source: source, Target: target}

	if !unchanged {
		if target.Width <= 0 {
			return nil, apperrors.InvalidArgument("resize", "width", apperrors.ErrInvalidDimensions)
		}
		if target.Height <= 0 {
			return nil, apperrors.InvalidArgument("resize", "height", apperrors.ErrInvalidDimensions)
		}
		if opts.Mode != core.FitExact && target != req {
			s.trace("scaler.resize.corrected", "from", req.String(), "to", target.String())
		}

		method := opts.Method
		if method == core.MethodAutomatic {
			method = s.selector.Select(target, ratio)
		}
		res.Method = method
		res.Kernel = kernelFor(method)
		s.trace("scaler.resize.method", "target", target.String(), "method", method.String())

		var err error
		if method == core.MethodQuality && !upscale(source, target) {
			res.Image, res.Passes, err = s.downscaleIncrementally(src, target)
		} else {
			res.Image, err = s.Draw(src, target, res.Kernel)
			res.Passes = 1
		}
		if err != nil {
			return nil, err
		}
	} else {
		s.trace("scaler.resize.noop", "source", source.String())
	}

	out, err := s.applyFilters("resize", res.Image, opts.Filters)
	if err != nil {
		return nil, err
	}
	res.Image = out
	res.Elapsed = time.Since(start)
	s.trace("scaler.resize.done",
		"source", source.String(),
		"result", core.DimensionsOf(out).String(),
		"passes", res.Passes,
		"filters", countFilters(opts.Filters),
		"elapsed_ms", res.Elapsed.Milliseconds())
	return res, nil
}

// ResizeImage is Resize returning only the image.
func (s *Scaler) ResizeImage(src image.Image, opts Options) (image.Image, error) {
	res, err := s.Resize(src, opts)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

func validateResize(src image.Image, opts Options) error {
	if err := ValidateSource("resize", src); err != nil {
		return err
	}
	return ValidateOptions(opts)
}

// ValidateOptions checks the source-independent resize arguments.
func ValidateOptions(opts Options) error {
	if !opts.Method.Valid() {
		return apperrors.InvalidArgument("resize", "method",
			fmt.Errorf("%w: %d", apperrors.ErrInvalidMethod, int(opts.Method)))
	}
	if !opts.Mode.Valid() {
		return apperrors.InvalidArgument("resize", "mode",
			fmt.Errorf("%w: %d", apperrors.ErrInvalidMode, int(opts.Mode)))
	}
	if opts.Width < 0 {
		return apperrors.InvalidArgument("resize", "width",
			fmt.Errorf("%w: width %d < 0", apperrors.ErrInvalidDimensions, opts.Width))
	}
	if opts.Height < 0 {
		return apperrors.InvalidArgument("resize", "height",
			fmt.Errorf("%w: height %d < 0", apperrors.ErrInvalidDimensions, opts.Height))
	}
	if opts.Width == 0 && opts.Height == 0 {
		return apperrors.InvalidArgument("resize", "width",
			fmt.Errorf("%w: width and height are both 0", apperrors.ErrInvalidDimensions))
	}
	return nil
}

// ValidateSource rejects a nil or empty src as an invalid "src" argument of op.
func ValidateSource(op string, src image.Image) error {
	if src == nil {
		return apperrors.InvalidArgument(op, "src", apperrors.ErrNilSource)
	}
	if src.Bounds().Empty() {
		return apperrors.InvalidArgument(op, "src", apperrors.ErrEmptySource)
	}
	return nil
}

// applyFilters threads img through filters in order.  Images that are not
// RGBA or NRGBA are normalised into a fresh buffer before the first filter.
func (s *Scaler) applyFilters(op string, img image.Image, filters []core.Filter) (image.Image, error) {
	if countFilters(filters) == 0 {
		return img, nil
	}
	cur, _ := s.normalize(img)

	for i, f := range filters {
		if isNilFilter(f) {
			continue
		}
		next, err := f.Apply(cur)
		if err != nil {
			return nil, apperrors.New(apperrors.CategoryFilter, fmt.Sprintf("%s.filter[%d]", op, i), err)
		}
		if next == nil {
			return nil, apperrors.Rasterization(fmt.Sprintf("%s.filter[%d]", op, i), apperrors.ErrNilFilterResult)
		}
		cur = next
	}
	return cur, nil
}

func isNilFilter(f core.Filter) bool {
	if f == nil {
		return true
	}
	ff, ok := f.(core.FilterFunc)
	return ok && ff == nil
}

func countFilters(filters []core.Filter) int {
	n := 0
	for _, f := range filters {
		if !isNilFilter(f) {
			n++
		}
	}
	return n
}

func upscale(src, target core.Dimensions) bool {
	return target.Width > src.Width || target.Height > src.Height
}

func orientation(ratio float32) string {
	if Landscape(ratio) {
		return "landscape/square"
	}
	return "portrait"
}

// trace emits a debug line when the debug toggle is on.
func (s *Scaler) trace(msg string, fields ...interface{}) {
	if s.debug {
		s.logger.Debug(msg, fields...)
	}
}
