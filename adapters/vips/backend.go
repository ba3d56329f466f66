//go:build vips

// Package vips adapts libvips (through govips) as a rasterizer and codec
// backend.  It needs cgo and a libvips installation, so it is opt-in: call
// NewBackend once, then RegisterVipsBackend.
package vips

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"
	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/image-scaler/adapters/raster"
	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
	"github.com/Skryldev/image-scaler/utils"
)

// Name is the rasterizer's configuration name.
const Name = "vips"

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool
	MaxInputBytes  int64 // 0 = no limit
}

// Backend is a libvips-powered Rasterizer, Decoder and Encoder.
// Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = 85
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// ─── Rasterizer ───────────────────────────────────────────────────────────────

func (b *Backend) Name() string { return Name }

func vipsKernel(k core.Kernel) (govips.Kernel, error) {
	switch k {
	case core.KernelNearest:
		return govips.KernelNearest, nil
	case core.KernelBilinear:
		return govips.KernelLinear, nil
	case core.KernelBicubic:
		return govips.KernelCubic, nil
	}
	return 0, fmt.Errorf("%w: %s", apperrors.ErrInvalidKernel, k)
}

// Scale round-trips src through libvips' resize with independent horizontal
// and vertical factors.
func (b *Backend) Scale(dst draw.Image, src image.Image, k core.Kernel) error {
	kernel, err := vipsKernel(k)
	if err != nil {
		return err
	}
	ref, err := b.load(src)
	if err != nil {
		return err
	}
	defer ref.Close()

	db, sb := dst.Bounds(), src.Bounds()
	h := float64(db.Dx()) / float64(sb.Dx())
	v := float64(db.Dy()) / float64(sb.Dy())
	if err := ref.ResizeWithVScale(h, v, kernel); err != nil {
		return fmt.Errorf("vips resize: %w", err)
	}
	out, err := ref.ToImage(govips.NewDefaultPNGExportParams())
	if err != nil {
		return fmt.Errorf("vips export: %w", err)
	}
	ob := out.Bounds()
	if ob.Dx() == db.Dx() && ob.Dy() == db.Dy() {
		xdraw.Copy(dst, db.Min, out, ob, xdraw.Src, nil)
		return nil
	}
	// libvips rounds the output size; absorb a one-pixel drift.
	xdraw.NearestNeighbor.Scale(dst, db, out, ob, xdraw.Src, nil)
	return nil
}

// load hands src to libvips as an uncompressed PNG.
func (b *Backend) load(src image.Image) (*govips.ImageRef, error) {
	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(buf, src); err != nil {
		return nil, fmt.Errorf("vips load: %w", err)
	}
	ref, err := govips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("vips load: %w", err)
	}
	return ref, nil
}

// ─── Decoder ──────────────────────────────────────────────────────────────────

func (b *Backend) CanDecode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatWebP, core.FormatGIF, core.FormatTIFF, core.FormatUnknown:
		return true
	}
	return false
}

func (b *Backend) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}

	buf, err := utils.ReadAll(ctx, r, b.cfg.MaxInputBytes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.read", err)
	}
	defer utils.ReleaseBuffer(buf)

	ref, err := govips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}
	defer ref.Close()

	format := vipsFormatToCore(ref.Format())
	hasAlpha := ref.HasAlpha()
	img, err := ref.ToImage(govips.NewDefaultPNGExportParams())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.export", err)
	}
	layout := core.LayoutRGB
	if hasAlpha {
		layout = core.LayoutARGB
	}
	b2 := img.Bounds()
	return &core.ImageData{
		Image:  img,
		Format: format,
		Meta: core.Metadata{
			Width:    b2.Dx(),
			Height:   b2.Dy(),
			Format:   format,
			Layout:   layout,
			HasAlpha: hasAlpha,
		},
	}, nil
}

// ─── Encoder ──────────────────────────────────────────────────────────────────

func (b *Backend) CanEncode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatWebP:
		return true
	}
	return false
}

func (b *Backend) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode", err)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.encode", apperrors.ErrNilSource)
	}
	if !b.CanEncode(img.Format) {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.encode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, img.Format))
	}

	ref, err := b.load(img.Image)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode", err)
	}
	defer ref.Close()

	quality := opts.Quality
	if quality <= 0 {
		quality = b.cfg.DefaultQuality
	}

	var out []byte
	switch img.Format {
	case core.FormatJPEG:
		ep := govips.NewJpegExportParams()
		ep.Quality = quality
		ep.StripMetadata = true
		out, _, err = ref.ExportJpeg(ep)
	case core.FormatPNG:
		ep := govips.NewPngExportParams()
		ep.StripMetadata = true
		if opts.Best {
			ep.Compression = 9
		}
		out, _, err = ref.ExportPng(ep)
	case core.FormatWebP:
		ep := govips.NewWebpExportParams()
		ep.Quality = quality
		ep.StripMetadata = true
		out, _, err = ref.ExportWebp(ep)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode."+string(img.Format), err)
	}
	return out, nil
}

// ─── RegisterVipsBackend ──────────────────────────────────────────────────────

// RegisterVipsBackend routes JPEG, PNG and WebP codecs through libvips and
// makes the "vips" rasterizer available by name.
func RegisterVipsBackend(reg core.Registry, b *Backend) {
	for _, f := range []core.Format{core.FormatJPEG, core.FormatPNG, core.FormatWebP} {
		reg.RegisterDecoder(f, b)
		reg.RegisterEncoder(f, b)
	}
	raster.Register(Name, func() core.Rasterizer { return b })
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func vipsFormatToCore(f govips.ImageType) core.Format {
	switch f {
	case govips.ImageTypeJPEG:
		return core.FormatJPEG
	case govips.ImageTypePNG:
		return core.FormatPNG
	case govips.ImageTypeWEBP:
		return core.FormatWebP
	case govips.ImageTypeGIF:
		return core.FormatGIF
	case govips.ImageTypeTIFF:
		return core.FormatTIFF
	default:
		return core.FormatUnknown
	}
}

// compile-time interface checks
var (
	_ core.Rasterizer = (*Backend)(nil)
	_ core.Decoder    = (*Backend)(nil)
	_ core.Encoder    = (*Backend)(nil)
)
