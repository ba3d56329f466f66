package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryInput     Category = "input"
	CategoryRasterize Category = "rasterize"
	CategoryFilter    Category = "filter"
	CategoryDecode    Category = "decode"
	CategoryEncode    Category = "encode"
	CategoryPipeline  Category = "pipeline"
	CategoryConfig    Category = "config"
)

// ProcessingError is the structured error type used throughout the module.
type ProcessingError struct {
	Category Category
	Op       string // operation name
	Arg      string // offending argument, set for CategoryInput
	Err      error
}

func (e *ProcessingError) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Category, e.Op, e.Arg, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// InvalidArgument reports a rejected argument.  It is raised before any pixel
// buffer is allocated.
func InvalidArgument(op, arg string, err error) *ProcessingError {
	return &ProcessingError{Category: CategoryInput, Op: op, Arg: arg, Err: err}
}

// Rasterization reports a failure of the underlying 2D drawing backend.
func Rasterization(op string, err error) *ProcessingError {
	return &ProcessingError{Category: CategoryRasterize, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// CategoryOf returns err's category, or CategoryPipeline for errors that
// are not ProcessingErrors.
func CategoryOf(err error) Category {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryPipeline
}

// IsInvalidArgument reports whether err is an argument rejection.
func IsInvalidArgument(err error) bool { return IsCategory(err, CategoryInput) }

// IsRasterization reports whether err came from a rasterizer backend.
func IsRasterization(err error) bool { return IsCategory(err, CategoryRasterize) }

// ArgOf returns the name of the rejected argument, or "" when err is not an
// argument rejection.
func ArgOf(err error) string {
	var pe *ProcessingError
	if errors.As(err, &pe) && pe.Category == CategoryInput {
		return pe.Arg
	}
	return ""
}

// Sentinel errors for common failure modes.
var (
	ErrNilSource         = errors.New("source image is nil")
	ErrEmptySource       = errors.New("source image has empty bounds")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidMethod     = errors.New("invalid scaling method")
	ErrInvalidMode       = errors.New("invalid fit mode")
	ErrInvalidKernel     = errors.New("invalid interpolation kernel")
	ErrInvalidRotation   = errors.New("invalid rotation")
	ErrInvalidCrop       = errors.New("invalid crop bounds")
	ErrInvalidPadding    = errors.New("padding must be > 0")
	ErrNilColor          = errors.New("color is nil")
	ErrNoFilters         = errors.New("no filters given")
	ErrNilFilterResult   = errors.New("filter returned a nil image")
	ErrRasterizer        = errors.New("rasterizer failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrUnknownBackend    = errors.New("unknown rasterizer backend")
	ErrWorkerPoolFull    = errors.New("worker pool queue full")
	ErrPoolStopped       = errors.New("worker pool stopped")
	ErrEmptyPipeline     = errors.New("empty pipeline")
)
