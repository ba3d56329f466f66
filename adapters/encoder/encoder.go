// Package encoder provides format-specific image encoders built on the
// standard library and golang.org/x/image.  WebP output needs the vips
// backend.
package encoder

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
	"github.com/Skryldev/image-scaler/utils"
)

type encodeFunc func(w io.Writer, img image.Image, quality int, opts core.EncodeOptions) error

// Encoder encodes one format.
type Encoder struct {
	format         core.Format
	defaultQuality int
	encode         encodeFunc
}

var _ core.Encoder = (*Encoder)(nil)

// NewJPEG returns a JPEG encoder; defaultQuality applies when
// EncodeOptions.Quality is 0.
func NewJPEG(defaultQuality int) *Encoder {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &Encoder{format: core.FormatJPEG, defaultQuality: defaultQuality,
		encode: func(w io.Writer, img image.Image, q int, _ core.EncodeOptions) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
		}}
}

// NewPNG returns a PNG encoder.  EncodeOptions.Best selects best compression.
func NewPNG() *Encoder {
	return &Encoder{format: core.FormatPNG,
		encode: func(w io.Writer, img image.Image, _ int, opts core.EncodeOptions) error {
			enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
			if opts.Best {
				enc.CompressionLevel = png.BestCompression
			}
			return enc.Encode(w, img)
		}}
}

// NewGIF returns a single-frame GIF encoder.
func NewGIF() *Encoder {
	return &Encoder{format: core.FormatGIF,
		encode: func(w io.Writer, img image.Image, _ int, _ core.EncodeOptions) error {
			return gif.Encode(w, img, nil)
		}}
}

func NewBMP() *Encoder {
	return &Encoder{format: core.FormatBMP,
		encode: func(w io.Writer, img image.Image, _ int, _ core.EncodeOptions) error {
			return bmp.Encode(w, img)
		}}
}

func NewTIFF() *Encoder {
	return &Encoder{format: core.FormatTIFF,
		encode: func(w io.Writer, img image.Image, _ int, opts core.EncodeOptions) error {
			o := &tiff.Options{Compression: tiff.Uncompressed}
			if opts.Best {
				o.Compression = tiff.Deflate
			}
			return tiff.Encode(w, img, o)
		}}
}

// All returns one encoder per supported format.
func All(defaultQuality int) []*Encoder {
	return []*Encoder{NewJPEG(defaultQuality), NewPNG(), NewGIF(), NewBMP(), NewTIFF()}
}

// Format returns the encoded format.
func (e *Encoder) Format() core.Format { return e.format }

func (e *Encoder) CanEncode(format core.Format) bool { return format == e.format }

func (e *Encoder) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	op := string(e.format) + ".encode"
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, op, err)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, op, apperrors.ErrNilSource)
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = e.defaultQuality
	}

	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	if err := e.encode(buf, img.Image, quality, opts); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, op, err)
	}
	return bytes.Clone(buf.Bytes()), nil
}
