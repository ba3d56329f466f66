// Package decoder provides format-specific image decoders built on the
// standard library and golang.org/x/image.
package decoder

import (
	"context"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Decoder decodes one format.  Only the first frame of animated GIFs is read.
type Decoder struct {
	format core.Format
	decode func(io.Reader) (image.Image, error)
}

var _ core.Decoder = (*Decoder)(nil)

func NewJPEG() *Decoder { return &Decoder{format: core.FormatJPEG, decode: jpeg.Decode} }
func NewPNG() *Decoder  { return &Decoder{format: core.FormatPNG, decode: png.Decode} }
func NewGIF() *Decoder  { return &Decoder{format: core.FormatGIF, decode: gif.Decode} }
func NewWebP() *Decoder { return &Decoder{format: core.FormatWebP, decode: webp.Decode} }
func NewBMP() *Decoder  { return &Decoder{format: core.FormatBMP, decode: bmp.Decode} }
func NewTIFF() *Decoder { return &Decoder{format: core.FormatTIFF, decode: tiff.Decode} }

// All returns one decoder per supported format.
func All() []*Decoder {
	return []*Decoder{NewJPEG(), NewPNG(), NewGIF(), NewWebP(), NewBMP(), NewTIFF()}
}

// Format returns the decoded format.
func (d *Decoder) Format() core.Format { return d.format }

func (d *Decoder) CanDecode(format core.Format) bool { return format == d.format }

func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	op := string(d.format) + ".decode"
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, op, err)
	}
	img, err := d.decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, op, err)
	}
	if img.Bounds().Empty() {
		return nil, apperrors.New(apperrors.CategoryDecode, op, apperrors.ErrEmptySource)
	}
	return core.NewImageData(img, d.format), nil
}
