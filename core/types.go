package core

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"
)

// Format identifies an image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatUnknown Format = "unknown"
)

// Layout is the channel layout of a pixel buffer allocated by the scaler.
type Layout int

const (
	// LayoutRGB is an opaque buffer, backed by *image.RGBA.
	LayoutRGB Layout = iota
	// LayoutARGB is a buffer with alpha, backed by *image.NRGBA.
	LayoutARGB
)

func (l Layout) String() string {
	switch l {
	case LayoutRGB:
		return "RGB"
	case LayoutARGB:
		return "ARGB"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// LayoutOf classifies img as opaque (LayoutRGB) or alpha-carrying
// (LayoutARGB) from its pixel type, not its pixel values.
func LayoutOf(img image.Image) Layout {
	switch m := img.(type) {
	case *image.RGBA, *image.RGBA64, *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return LayoutRGB
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return LayoutARGB
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return LayoutARGB
			}
		}
		return LayoutRGB
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return LayoutRGB
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return LayoutRGB
	}
	return LayoutARGB
}

// Dimensions is an immutable width/height pair.
type Dimensions struct {
	Width  int
	Height int
}

// DimensionsOf returns the size of img's bounds.
func DimensionsOf(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

func (d Dimensions) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

// FitMode controls how the secondary dimension of a resize is derived.
type FitMode int

const (
	// FitAutomatic picks the primary dimension from the source orientation:
	// width for landscape and square sources, height for portrait ones.
	FitAutomatic FitMode = iota
	// FitExact forces both requested dimensions and ignores proportions.
	FitExact
	// FitToWidth honours the requested width and derives the height.
	FitToWidth
	// FitToHeight honours the requested height and derives the width.
	FitToHeight
	// FitBoth keeps the result inside the requested box, shrinking whichever
	// axis would overflow.  Squares are treated as landscape.
	FitBoth
)

// Valid reports whether m is one of the defined fit modes.
func (m FitMode) Valid() bool { return m >= FitAutomatic && m <= FitBoth }

func (m FitMode) String() string {
	switch m {
	case FitAutomatic:
		return "automatic"
	case FitExact:
		return "fit_exact"
	case FitToWidth:
		return "fit_to_width"
	case FitToHeight:
		return "fit_to_height"
	case FitBoth:
		return "fit_both"
	}
	return fmt.Sprintf("FitMode(%d)", int(m))
}

// Method is a speed/quality tier for scaling.
type Method int

const (
	// MethodAutomatic lets the method selector pick a tier from the target size.
	MethodAutomatic Method = iota
	// MethodSpeed uses a single nearest-neighbour pass.
	MethodSpeed
	// MethodBalanced uses a single bilinear pass.
	MethodBalanced
	// MethodQuality uses incremental bicubic passes when downscaling and a
	// single bicubic pass when upscaling.
	MethodQuality
)

// MethodUltraQuality is the earlier name of MethodQuality.
const MethodUltraQuality = MethodQuality

// Valid reports whether m is one of the defined methods.
func (m Method) Valid() bool { return m >= MethodAutomatic && m <= MethodQuality }

func (m Method) String() string {
	switch m {
	case MethodAutomatic:
		return "automatic"
	case MethodSpeed:
		return "speed"
	case MethodBalanced:
		return "balanced"
	case MethodQuality:
		return "quality"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Kernel is the interpolation kernel used by a single rasterization pass.
// The zero value is not a kernel.
type Kernel int

const (
	KernelNearest Kernel = iota + 1
	KernelBilinear
	KernelBicubic
)

// Valid reports whether k is one of the defined kernels.
func (k Kernel) Valid() bool { return k >= KernelNearest && k <= KernelBicubic }

func (k Kernel) String() string {
	switch k {
	case KernelNearest:
		return "nearest"
	case KernelBilinear:
		return "bilinear"
	case KernelBicubic:
		return "bicubic"
	}
	return fmt.Sprintf("Kernel(%d)", int(k))
}

// Rotation is a quadrant rotation or a flip.  The zero value is not a rotation.
type Rotation int

const (
	// Rotate90 rotates clockwise by 90 degrees.
	Rotate90 Rotation = iota + 1
	Rotate180
	// Rotate270 rotates clockwise by 270 degrees (90 counter-clockwise).
	Rotate270
	// FlipHorizontal mirrors around the vertical axis.
	FlipHorizontal
	// FlipVertical mirrors around the horizontal axis.
	FlipVertical
)

// Valid reports whether r is one of the defined rotations.
func (r Rotation) Valid() bool { return r >= Rotate90 && r <= FlipVertical }

func (r Rotation) String() string {
	switch r {
	case Rotate90:
		return "cw_90"
	case Rotate180:
		return "cw_180"
	case Rotate270:
		return "cw_270"
	case FlipHorizontal:
		return "flip_horz"
	case FlipVertical:
		return "flip_vert"
	}
	return fmt.Sprintf("Rotation(%d)", int(r))
}

// Metadata holds image information extracted at decode time and kept current
// by pipeline steps.
type Metadata struct {
	Width    int
	Height   int
	Format   Format
	Layout   Layout
	HasAlpha bool
}

// ImageData is the in-memory representation passed through a pipeline.
type ImageData struct {
	// Decoded pixel buffer.
	Image  image.Image
	Format Format
	Meta   Metadata
}

// NewImageData wraps a decoded image with metadata derived from it.
func NewImageData(img image.Image, f Format) *ImageData {
	d := &ImageData{Format: f, Meta: Metadata{Format: f}}
	return d.WithImage(img)
}

// WithImage returns a shallow copy of d carrying img and refreshed geometry.
// A nil img clears the geometry.
func (d *ImageData) WithImage(img image.Image) *ImageData {
	out := *d
	out.Image = img
	if img == nil {
		out.Meta.Width, out.Meta.Height = 0, 0
		out.Meta.Layout, out.Meta.HasAlpha = LayoutRGB, false
		return &out
	}
	b := img.Bounds()
	out.Meta.Width = b.Dx()
	out.Meta.Height = b.Dy()
	out.Meta.Layout = LayoutOf(img)
	out.Meta.HasAlpha = out.Meta.Layout == LayoutARGB
	return &out
}

// ProcessingResult is returned to the caller after the full pipeline completes.
type ProcessingResult struct {
	Primary  *ImageData
	Variants map[string]*ImageData // keyed by variant name

	// Observability.
	ProcessingTime time.Duration
	StepTimings    map[string]time.Duration
}

// Job encapsulates a single unit of work for the worker pool.
type Job struct {
	ID    string
	Ctx   context.Context //nolint:containedctx // intentional for async jobs
	Image *ImageData
	Steps []Step
	// Result channel; nil for fire-and-forget.
	ResultCh chan<- JobResult
}

// VariantDefinition instructs the pipeline to produce a named output variant.
type VariantDefinition struct {
	Name  string
	Steps []Step
}

// JobResult wraps the outcome of an async job.
type JobResult struct {
	JobID  string
	Result *ProcessingResult
	Err    error
}

// Step is the fundamental pipeline building block.  Each Step transforms an
// *ImageData value and must be safe for concurrent use across goroutines.
type Step interface {
	Name() string
	Execute(ctx context.Context, img *ImageData) (*ImageData, error)
}

// Hook is an optional observer invoked around pipeline steps.
type Hook interface {
	BeforeStep(ctx context.Context, stepName string, img *ImageData)
	AfterStep(ctx context.Context, stepName string, img *ImageData, d time.Duration, err error)
}
