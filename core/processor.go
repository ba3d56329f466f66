package core

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/Skryldev/image-scaler/errors"
)

// PoolConfig sizes the async worker pool.
type PoolConfig struct {
	WorkerCount int // <= 0: runtime.NumCPU()
	QueueSize   int // <= 0: 256
	JobTimeout  time.Duration
}

// Processor runs step chains synchronously or on a bounded worker pool.  It
// is safe for concurrent use.  Steps are not retried: a failed step fails the
// whole run.
type Processor struct {
	cfg     PoolConfig
	hooks   []Hook
	logger  Logger
	metrics MetricsCollector

	// Worker pool.  mu guards stopped and the closing of jobQueue.
	jobQueue chan Job
	wg       sync.WaitGroup
	once     sync.Once
	mu       sync.RWMutex
	stopped  bool

	// Atomic counters for lightweight internal metrics.
	processedCount int64
	errorCount     int64
}

// NewProcessor creates a Processor.  Call Start() before submitting jobs;
// call Stop() when done.
func NewProcessor(cfg PoolConfig) *Processor {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	return &Processor{
		cfg:      cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
	}
}

// SetLogger attaches a structured logger.
func (p *Processor) SetLogger(l Logger) { p.logger = l }

// SetMetrics attaches a metrics collector.
func (p *Processor) SetMetrics(m MetricsCollector) { p.metrics = m }

// AddHook registers a pipeline hook.
func (p *Processor) AddHook(h Hook) { p.hooks = append(p.hooks, h) }

// Workers returns the resolved worker count.
func (p *Processor) Workers() int { return p.cfg.WorkerCount }

// Start launches the worker pool.  It is idempotent.
func (p *Processor) Start() {
	p.once.Do(func() {
		for i := 0; i < p.cfg.WorkerCount; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop rejects further submissions, lets the workers finish every job
// already queued and waits for them.  Jobs queued on a pool that was never
// started are answered with ErrPoolStopped.  It is idempotent.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobQueue)
	}
	p.mu.Unlock()
	p.wg.Wait()

	for job := range p.jobQueue {
		if job.ResultCh != nil {
			job.ResultCh <- JobResult{JobID: job.ID,
				Err: apperrors.New(apperrors.CategoryPipeline, "stop", apperrors.ErrPoolStopped)}
		}
	}
}

// Process runs steps on img and returns a ProcessingResult.  The context is
// checked between steps only; a step in progress runs to completion.
func (p *Processor) Process(ctx context.Context, img *ImageData, steps ...Step) (*ProcessingResult, error) {
	if len(steps) == 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, "process", apperrors.ErrEmptyPipeline)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.InvalidArgument("process", "img", apperrors.ErrNilSource)
	}

	start := time.Now()
	timings := make(map[string]time.Duration, len(steps))
	current := img
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			atomic.AddInt64(&p.errorCount, 1)
			return nil, apperrors.Wrap(apperrors.CategoryPipeline, step.Name(), err)
		}
		p.notifyBefore(ctx, step.Name(), current)
		t := time.Now()
		next, stepErr := step.Execute(ctx, current)
		elapsed := time.Since(t)
		timings[step.Name()] += elapsed
		p.notifyAfter(ctx, step.Name(), next, elapsed, stepErr)
		if stepErr != nil {
			atomic.AddInt64(&p.errorCount, 1)
			if p.logger != nil {
				p.logger.Warn("processor.step.failed", "step", step.Name(), "error", stepErr.Error())
			}
			return nil, stepErr
		}
		current = next
	}

	atomic.AddInt64(&p.processedCount, 1)
	return &ProcessingResult{
		Primary:        current,
		ProcessingTime: time.Since(start),
		StepTimings:    timings,
	}, nil
}

// Submit enqueues an async job.  Returns ErrWorkerPoolFull if the queue is
// full and ErrPoolStopped after Stop.
func (p *Processor) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return apperrors.New(apperrors.CategoryPipeline, "submit", apperrors.ErrPoolStopped)
	}
	select {
	case p.jobQueue <- job:
		return nil
	default:
		return apperrors.New(apperrors.CategoryPipeline, "submit", ErrWorkerPoolFull())
	}
}

// ErrWorkerPoolFull returns the back-pressure sentinel.
func ErrWorkerPoolFull() error { return apperrors.ErrWorkerPoolFull }

// Batch processes multiple images concurrently (fan-out / fan-in).
func (p *Processor) Batch(ctx context.Context, imgs []*ImageData, steps ...Step) ([]*ProcessingResult, []error) {
	results := make([]*ProcessingResult, len(imgs))
	errs := make([]error, len(imgs))
	var wg sync.WaitGroup

	for i, img := range imgs {
		wg.Add(1)
		go func(idx int, in *ImageData) {
			defer wg.Done()
			results[idx], errs[idx] = p.Process(ctx, in, steps...)
		}(i, img)
	}
	wg.Wait()
	return results, errs
}

// ProcessVariants runs baseSteps, then each VariantDefinition against the base
// result in parallel.  Steps never mutate their input, so variants can share
// the base image.
func (p *Processor) ProcessVariants(ctx context.Context, img *ImageData, baseSteps []Step, variants []VariantDefinition) (*ProcessingResult, error) {
	base := &ProcessingResult{Primary: img, StepTimings: map[string]time.Duration{}}
	if len(baseSteps) > 0 {
		var err error
		if base, err = p.Process(ctx, img, baseSteps...); err != nil {
			return nil, err
		}
	}

	variantResults := make(map[string]*ImageData, len(variants))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for _, v := range variants {
		wg.Add(1)
		go func(vd VariantDefinition) {
			defer wg.Done()
			r, err := p.Process(ctx, base.Primary, vd.Steps...)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			variantResults[vd.Name] = r.Primary
		}(v)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	base.Variants = variantResults
	return base, nil
}

// ── worker pool internals ──────────────────────────────────────────────────────

func (p *Processor) worker() {
	defer p.wg.Done()
	for job := range p.jobQueue {
		p.processJob(job)
	}
}

func (p *Processor) processJob(job Job) {
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if p.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.JobTimeout)
		defer cancel()
	}

	result, err := p.Process(ctx, job.Image, job.Steps...)
	if job.ResultCh != nil {
		job.ResultCh <- JobResult{JobID: job.ID, Result: result, Err: err}
	}
}

func (p *Processor) notifyBefore(ctx context.Context, name string, img *ImageData) {
	for _, h := range p.hooks {
		h.BeforeStep(ctx, name, img)
	}
}

func (p *Processor) notifyAfter(ctx context.Context, name string, img *ImageData, d time.Duration, err error) {
	for _, h := range p.hooks {
		h.AfterStep(ctx, name, img, d, err)
	}
	if p.metrics != nil {
		p.metrics.RecordProcessingTime(name, d)
		if err != nil {
			p.metrics.RecordError(name, string(apperrors.CategoryOf(err)))
		} else if img != nil {
			p.metrics.RecordPixels(int64(img.Meta.Width) * int64(img.Meta.Height))
		}
	}
}

// ProcessedCount returns the total number of successfully processed images.
func (p *Processor) ProcessedCount() int64 { return atomic.LoadInt64(&p.processedCount) }

// ErrorCount returns the total number of processing errors.
func (p *Processor) ErrorCount() int64 { return atomic.LoadInt64(&p.errorCount) }
