package core

import (
	"context"
	"image"
	"image/draw"
	"io"
	"time"
)

// Rasterizer is the generic 2D drawing capability the scaler is built on.
// Implementations live in adapters/raster/ and adapters/vips/.
type Rasterizer interface {
	// Name identifies the backend in logs and configuration.
	Name() string
	// Scale draws the whole of src into the whole of dst with kernel k.
	// dst is freshly allocated by the caller; src must not be modified.
	Scale(dst draw.Image, src image.Image, k Kernel) error
}

// Allocator hands out destination buffers and takes back superseded ones.
type Allocator interface {
	// Alloc returns a zeroed w×h buffer anchored at the origin: *image.RGBA
	// for LayoutRGB, *image.NRGBA for LayoutARGB.
	Alloc(layout Layout, w, h int) draw.Image
	// Release reclaims a buffer previously returned by Alloc.  The caller
	// must not touch img afterwards.
	Release(img image.Image)
}

// Filter is a post-processing transform applied after a resize or op.
// Apply must not modify src.
type Filter interface {
	Apply(src image.Image) (image.Image, error)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(src image.Image) (image.Image, error)

func (f FilterFunc) Apply(src image.Image) (image.Image, error) { return f(src) }

// Decoder converts a reader into an in-memory ImageData.
// Implementations live in adapters/decoder/.
type Decoder interface {
	// Decode reads from r and returns a decoded ImageData.
	Decode(ctx context.Context, r io.Reader) (*ImageData, error)
	// CanDecode reports whether this decoder handles the given format hint.
	CanDecode(format Format) bool
}

// Encoder serialises an ImageData to bytes in a target format.
// Implementations live in adapters/encoder/.
type Encoder interface {
	Encode(ctx context.Context, img *ImageData, opts EncodeOptions) ([]byte, error)
	CanEncode(format Format) bool
}

// EncodeOptions carries format-specific encoding parameters.
type EncodeOptions struct {
	Quality int  // 1-100; 0 = use encoder default
	Best    bool // PNG best compression
}

// MetricsCollector receives performance observations from the pipeline.
type MetricsCollector interface {
	RecordProcessingTime(stepName string, d time.Duration)
	RecordPixels(pixels int64)
	RecordError(stepName string, category string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Registry maps Format values to Decoder/Encoder implementations.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
}
