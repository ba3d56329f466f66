// Package imagescaler resizes images with automatic speed/quality selection
// and incremental high-quality downscaling, and offers crop, pad, rotate and
// filter ops over the same buffers.  Processor wires the scaler, codecs and
// an async worker pool together.
package imagescaler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/Skryldev/image-scaler/adapters/decoder"
	"github.com/Skryldev/image-scaler/adapters/encoder"
	"github.com/Skryldev/image-scaler/config"
	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
	"github.com/Skryldev/image-scaler/hooks"
	"github.com/Skryldev/image-scaler/pipeline"
	"github.com/Skryldev/image-scaler/scaler"
	"github.com/Skryldev/image-scaler/utils"
)

// Re-export Format constants for convenience.
const (
	JPEG = core.FormatJPEG
	PNG  = core.FormatPNG
	GIF  = core.FormatGIF
	WebP = core.FormatWebP
	BMP  = core.FormatBMP
	TIFF = core.FormatTIFF
)

// Scaling methods.
const (
	Automatic    = core.MethodAutomatic
	Speed        = core.MethodSpeed
	Balanced     = core.MethodBalanced
	Quality      = core.MethodQuality
	UltraQuality = core.MethodUltraQuality
)

// Fit modes.
const (
	FitAutomatic = core.FitAutomatic
	FitExact     = core.FitExact
	FitToWidth   = core.FitToWidth
	FitToHeight  = core.FitToHeight
	FitBoth      = core.FitBoth
)

// Rotations.
const (
	Rotate90       = core.Rotate90
	Rotate180      = core.Rotate180
	Rotate270      = core.Rotate270
	FlipHorizontal = core.FlipHorizontal
	FlipVertical   = core.FlipVertical
)

type (
	// Options describes one resize.
	Options = scaler.Options
	// Result describes a finished resize.
	Result = scaler.Result
)

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// Option customises a Processor.
type Option func(*options)

type options struct {
	logger     core.Logger
	metrics    core.MetricsCollector
	scalerOpts []scaler.Option
}

// WithLogger routes debug traces and worker-pool logs to l.
func WithLogger(l core.Logger) Option { return func(o *options) { o.logger = l } }

// WithMetrics attaches a metrics collector to the worker pool.
func WithMetrics(m core.MetricsCollector) Option { return func(o *options) { o.metrics = m } }

// WithRasterizer overrides the backend named by config.Backend.
func WithRasterizer(r core.Rasterizer) Option {
	return func(o *options) { o.scalerOpts = append(o.scalerOpts, scaler.WithRasterizer(r)) }
}

// WithAllocator overrides the pooled pixel allocator.
func WithAllocator(a core.Allocator) Option {
	return func(o *options) { o.scalerOpts = append(o.scalerOpts, scaler.WithAllocator(a)) }
}

// Processor is the primary entry point.  It is safe for concurrent use.
type Processor struct {
	cfg    config.Config
	scaler *scaler.Scaler
	pool   *core.Processor
	reg    *core.DefaultRegistry
	jobSeq atomic.Uint64
}

// New creates a fully wired Processor with the built-in codecs registered.
// The configuration is validated and captured; later changes to cfg have no
// effect.
func New(cfg config.Config, opts ...Option) (*Processor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hooks.NopLogger{}
	}

	s, err := scaler.New(cfg, append(o.scalerOpts, scaler.WithLogger(o.logger))...)
	if err != nil {
		return nil, err
	}

	reg := core.NewRegistry()
	for _, d := range decoder.All() {
		reg.RegisterDecoder(d.Format(), d)
	}
	for _, e := range encoder.All(cfg.DefaultQuality) {
		reg.RegisterEncoder(e.Format(), e)
	}

	pool := core.NewProcessor(core.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		JobTimeout:  cfg.JobTimeout,
	})
	pool.SetLogger(o.logger)
	if o.metrics != nil {
		pool.SetMetrics(o.metrics)
	}
	if cfg.Debug {
		pool.AddHook(hooks.NewLoggingHook(o.logger))
	}

	return &Processor{cfg: cfg, scaler: s, pool: pool, reg: reg}, nil
}

// Config returns the captured configuration.
func (p *Processor) Config() config.Config { return p.cfg }

// Scaler exposes the underlying scaler.
func (p *Processor) Scaler() *scaler.Scaler { return p.scaler }

// Pool exposes the underlying worker pool for advanced use.
func (p *Processor) Pool() *core.Processor { return p.pool }

// Registry exposes the codec registry.
func (p *Processor) Registry() core.Registry { return p.reg }

// AddHook registers an observer for pipeline step events.
func (p *Processor) AddHook(h core.Hook) { p.pool.AddHook(h) }

// RegisterDecoder registers a custom decoder for the given format.
func (p *Processor) RegisterDecoder(f core.Format, d core.Decoder) { p.reg.RegisterDecoder(f, d) }

// RegisterEncoder registers a custom encoder for the given format.
func (p *Processor) RegisterEncoder(f core.Format, e core.Encoder) { p.reg.RegisterEncoder(f, e) }

// ── Synchronous ops ───────────────────────────────────────────────────────────

// Resize scales src.  See scaler.Scaler.Resize.
func (p *Processor) Resize(src image.Image, opts Options) (*Result, error) {
	return p.scaler.Resize(src, opts)
}

// Crop copies a region of src.
func (p *Processor) Crop(src image.Image, x, y, w, h int, filters ...core.Filter) (image.Image, error) {
	return p.scaler.Crop(src, x, y, w, h, filters...)
}

// Pad adds a border around src.
func (p *Processor) Pad(src image.Image, padding int, c color.Color, filters ...core.Filter) (image.Image, error) {
	return p.scaler.Pad(src, padding, c, filters...)
}

// Rotate rotates or flips src.
func (p *Processor) Rotate(src image.Image, r core.Rotation, filters ...core.Filter) (image.Image, error) {
	return p.scaler.Rotate(src, r, filters...)
}

// Apply runs filters over src.
func (p *Processor) Apply(src image.Image, filters ...core.Filter) (image.Image, error) {
	return p.scaler.Apply(src, filters...)
}

// Builder starts an op chain bound to this processor's scaler.
func (p *Processor) Builder() *pipeline.Builder { return pipeline.NewBuilder(p.scaler) }

// ── Worker pool ───────────────────────────────────────────────────────────────

// Start starts the background worker pool.
func (p *Processor) Start() { p.pool.Start() }

// Stop rejects new jobs and waits for the queued ones to finish.
func (p *Processor) Stop() { p.pool.Stop() }

// Process executes the provided steps synchronously and returns the result.
func (p *Processor) Process(ctx context.Context, img *core.ImageData, steps ...core.Step) (*core.ProcessingResult, error) {
	return p.pool.Process(ctx, img, steps...)
}

// Batch runs the same steps on multiple images concurrently.
func (p *Processor) Batch(ctx context.Context, imgs []*core.ImageData, steps ...core.Step) ([]*core.ProcessingResult, []error) {
	return p.pool.Batch(ctx, imgs, steps...)
}

// ProcessVariants runs base steps and then produces named variants in parallel.
func (p *Processor) ProcessVariants(
	ctx context.Context,
	img *core.ImageData,
	baseSteps []core.Step,
	variants []core.VariantDefinition,
) (*core.ProcessingResult, error) {
	return p.pool.ProcessVariants(ctx, img, baseSteps, variants)
}

// Submit enqueues an async job for the worker pool.
func (p *Processor) Submit(job core.Job) error { return p.pool.Submit(job) }

// Async enqueues steps on img and returns a channel that receives exactly
// one result.  Start must have been called.
func (p *Processor) Async(ctx context.Context, img *core.ImageData, steps ...core.Step) (<-chan core.JobResult, error) {
	ch := make(chan core.JobResult, 1)
	job := core.Job{
		ID:       "job-" + strconv.FormatUint(p.jobSeq.Add(1), 10),
		Ctx:      ctx,
		Image:    img,
		Steps:    steps,
		ResultCh: ch,
	}
	if err := p.pool.Submit(job); err != nil {
		return nil, err
	}
	return ch, nil
}

// ResizeAsync is Async with a single resize step.
func (p *Processor) ResizeAsync(ctx context.Context, src image.Image, opts Options) (<-chan core.JobResult, error) {
	if err := scaler.ValidateSource("resize", src); err != nil {
		return nil, err
	}
	if err := scaler.ValidateOptions(opts); err != nil {
		return nil, err
	}
	return p.Async(ctx, core.NewImageData(src, core.FormatUnknown),
		&pipeline.ResizeStep{Scaler: p.scaler, Options: opts})
}

// Stats returns lightweight processing statistics.
func (p *Processor) Stats() (processed, errors int64) {
	return p.pool.ProcessedCount(), p.pool.ErrorCount()
}

// ── Codecs ────────────────────────────────────────────────────────────────────

// Decode sniffs the format of r and decodes it with the registered decoder.
func (p *Processor) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	buf, err := utils.ReadAll(ctx, r, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "decode.read", err)
	}
	defer utils.ReleaseBuffer(buf)

	f := utils.DetectFormat(buf.Bytes())
	dec, ok := p.reg.DecoderFor(f)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryDecode, "decode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, f))
	}
	return dec.Decode(ctx, bytes.NewReader(buf.Bytes()))
}

// Encode serialises img as f.  quality <= 0 uses the configured default.
func (p *Processor) Encode(ctx context.Context, img *core.ImageData, f core.Format, quality int) ([]byte, error) {
	enc, ok := p.reg.EncoderFor(f)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryEncode, "encode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, f))
	}
	if quality <= 0 {
		quality = p.cfg.DefaultQuality
	}
	out := *img
	out.Format = f
	out.Meta.Format = f
	return enc.Encode(ctx, &out, core.EncodeOptions{Quality: quality})
}
