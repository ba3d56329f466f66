package scaler_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Skryldev/image-scaler/config"
	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
	"github.com/Skryldev/image-scaler/hooks"
	"github.com/Skryldev/image-scaler/scaler"
)

var red = color.RGBA{R: 255, A: 255}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Thresholds = config.Thresholds{QualityBalanced: 1600, BalancedSpeed: 800}
	_, err := scaler.New(cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfig))

	cfg = config.Default()
	cfg.Backend = "missing"
	_, err = scaler.New(cfg)
	assert.ErrorIs(t, err, apperrors.ErrUnknownBackend)
}

func TestNew_Defaults(t *testing.T) {
	s := newScaler(t)
	assert.Equal(t, "xdraw", s.Backend())
	assert.Equal(t, config.DefaultThresholds(), s.Selector().Thresholds())
}

func TestResize_AutomaticTiers(t *testing.T) {
	tests := []struct {
		width  int
		method core.Method
		kernel core.Kernel
		passes int
	}{
		{1700, core.MethodSpeed, core.KernelNearest, 1},
		{1000, core.MethodBalanced, core.KernelBilinear, 1},
		// 4000x3000 -> 2000x1500 -> 1000x750 -> 500x375
		{500, core.MethodQuality, core.KernelBicubic, 3},
	}
	for _, tc := range tests {
		fr := &fakeRaster{}
		s := newScaler(t, scaler.WithRasterizer(fr), scaler.WithAllocator(newCountingAlloc()))

		res, err := s.Resize(image.NewRGBA(image.Rect(0, 0, 4000, 3000)), scaler.Options{Width: tc.width})
		require.NoError(t, err)
		assert.Equal(t, tc.method, res.Method)
		assert.Equal(t, tc.kernel, res.Kernel)
		assert.Equal(t, tc.passes, res.Passes)
		assert.Len(t, fr.kernels, tc.passes)
		for _, k := range fr.kernels {
			assert.Equal(t, tc.kernel, k)
		}
		assert.Equal(t, tc.width, dims(res.Image).Width)
		assert.True(t, res.Resized())
	}
}

func TestResize_IncrementalHalving(t *testing.T) {
	fr := &fakeRaster{}
	s := newScaler(t, scaler.WithRasterizer(fr))

	res, err := s.Resize(image.NewRGBA(image.Rect(0, 0, 1600, 1600)),
		scaler.Options{Method: core.MethodQuality, Width: 320})
	require.NoError(t, err)
	assert.Equal(t, wh(320, 320), dims(res.Image))
	assert.Equal(t, []core.Dimensions{wh(800, 800), wh(400, 400), wh(320, 320)}, fr.sizes)
	assert.LessOrEqual(t, res.Passes, int(math.Ceil(math.Log2(1600.0/320)))+1)
}

func TestResize_IncrementalTerminates(t *testing.T) {
	tests := []struct {
		name   string
		src    core.Dimensions
		mode   core.FitMode
		req    core.Dimensions
		passes int
	}{
		{"down to one pixel", wh(32, 32), core.FitExact, wh(1, 1), 5},
		{"one axis fixed", wh(1000, 100), core.FitExact, wh(10, 100), 7},
		{"one axis below target", wh(1000, 40), core.FitExact, wh(100, 40), 4},
		{"already at target", wh(64, 64), core.FitExact, wh(64, 64), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fr := &fakeRaster{}
			s := newScaler(t, scaler.WithRasterizer(fr))
			res, err := s.Resize(image.NewRGBA(image.Rect(0, 0, tc.src.Width, tc.src.Height)),
				scaler.Options{Method: core.MethodQuality, Mode: tc.mode, Width: tc.req.Width, Height: tc.req.Height})
			require.NoError(t, err)
			assert.Equal(t, tc.req, dims(res.Image))
			assert.Equal(t, tc.passes, res.Passes)
			for _, k := range fr.kernels {
				assert.Equal(t, core.KernelBicubic, k)
			}
		})
	}
}

func TestResize_IncrementalReleasesIntermediates(t *testing.T) {
	alloc := newCountingAlloc()
	s := newScaler(t, scaler.WithAllocator(alloc))
	src := solid(1600, 1200, red)

	res, err := s.Resize(src, scaler.Options{Method: core.MethodQuality, Width: 320})
	require.NoError(t, err)
	require.Equal(t, 3, res.Passes)

	assert.Equal(t, 3, alloc.allocs)
	assert.LessOrEqual(t, alloc.maxLive, 2)
	assert.Len(t, alloc.live, 1, "only the result stays live")
	assert.True(t, alloc.live[res.Image])
	assert.False(t, alloc.wasReleased(src))
	assert.Equal(t, red, src.RGBAAt(800, 600), "source must be untouched")

	r, g, b, a := res.Image.At(160, 120).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestResize_UpscaleIsSinglePass(t *testing.T) {
	fr := &fakeRaster{}
	s := newScaler(t, scaler.WithRasterizer(fr))
	res, err := s.Resize(image.NewRGBA(image.Rect(0, 0, 100, 50)),
		scaler.Options{Method: core.MethodQuality, Width: 400})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passes)
	assert.Equal(t, []core.Kernel{core.KernelBicubic}, fr.kernels)
	assert.Equal(t, wh(400, 200), dims(res.Image))
}

func TestResize_ExplicitMethodOverridesSelection(t *testing.T) {
	fr := &fakeRaster{}
	s := newScaler(t, scaler.WithRasterizer(fr))
	res, err := s.Resize(image.NewRGBA(image.Rect(0, 0, 1600, 1600)),
		scaler.Options{Method: core.MethodBalanced, Width: 320})
	require.NoError(t, err)
	assert.Equal(t, core.MethodBalanced, res.Method)
	assert.Equal(t, []core.Kernel{core.KernelBilinear}, fr.kernels)
}

func TestResize_NoOpReturnsSource(t *testing.T) {
	alloc := newCountingAlloc()
	s := newScaler(t, scaler.WithAllocator(alloc))
	src := solid(800, 600, red)

	res, err := s.Resize(src, scaler.Options{Width: 800, Height: 1})
	require.NoError(t, err)
	assert.Same(t, src, res.Image)
	assert.Equal(t, 0, res.Passes)
	assert.False(t, res.Resized())
	assert.Equal(t, core.MethodAutomatic, res.Method)
	assert.Zero(t, alloc.allocs)
}

func TestResize_NoOpStillFilters(t *testing.T) {
	s := newScaler(t)
	src := solid(20, 10, red)
	calls := 0
	res, err := s.Resize(src, scaler.Options{Width: 20, Filters: []core.Filter{
		core.FilterFunc(func(img image.Image) (image.Image, error) {
			calls++
			return solid(20, 10, color.Black), nil
		}),
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NotSame(t, src, res.Image)
}

func TestResize_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
		opts scaler.Options
		arg  string
		is   error
	}{
		{"nil source", nil, scaler.Options{Width: 10}, "src", apperrors.ErrNilSource},
		{"empty source", image.NewRGBA(image.Rect(0, 0, 0, 5)), scaler.Options{Width: 10}, "src", apperrors.ErrEmptySource},
		{"negative width", solid(10, 10, red), scaler.Options{Width: -1, Height: 10}, "width", apperrors.ErrInvalidDimensions},
		{"negative height", solid(10, 10, red), scaler.Options{Width: 5, Height: -3}, "height", apperrors.ErrInvalidDimensions},
		{"both zero", solid(10, 10, red), scaler.Options{}, "width", apperrors.ErrInvalidDimensions},
		{"bad method", solid(10, 10, red), scaler.Options{Method: core.Method(42), Width: 5}, "method", apperrors.ErrInvalidMethod},
		{"bad mode", solid(10, 10, red), scaler.Options{Mode: core.FitMode(-1), Width: 5}, "mode", apperrors.ErrInvalidMode},
		{"zero primary", solid(600, 800, red), scaler.Options{Mode: core.FitToWidth, Height: 100}, "width", apperrors.ErrInvalidDimensions},
		{"exact zero height", solid(10, 10, red), scaler.Options{Mode: core.FitExact, Width: 5}, "height", apperrors.ErrInvalidDimensions},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			alloc := newCountingAlloc()
			s := newScaler(t, scaler.WithAllocator(alloc))
			res, err := s.Resize(tc.src, tc.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, apperrors.IsInvalidArgument(err))
			assert.Equal(t, tc.arg, apperrors.ArgOf(err))
			assert.ErrorIs(t, err, tc.is)
			assert.Zero(t, alloc.allocs, "nothing may be allocated for a rejected call")
		})
	}
}

func TestResize_BackendFailure(t *testing.T) {
	boom := errors.New("boom")
	alloc := newCountingAlloc()
	s := newScaler(t, scaler.WithRasterizer(&fakeRaster{err: boom}), scaler.WithAllocator(alloc))

	_, err := s.Resize(solid(100, 100, red), scaler.Options{Method: core.MethodSpeed, Width: 50})
	require.Error(t, err)
	assert.True(t, apperrors.IsRasterization(err))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, apperrors.ErrRasterizer)
	assert.Empty(t, alloc.live, "failed pass buffer must be released")
}

func TestResize_BackendPanic(t *testing.T) {
	alloc := newCountingAlloc()
	s := newScaler(t, scaler.WithRasterizer(&fakeRaster{panicV: "kaboom"}), scaler.WithAllocator(alloc))

	_, err := s.Resize(solid(1000, 1000, red), scaler.Options{Method: core.MethodQuality, Width: 100})
	require.Error(t, err)
	assert.True(t, apperrors.IsRasterization(err))
	assert.Contains(t, err.Error(), "kaboom")

	var stack interface{ ErrorStack() string }
	assert.True(t, errors.As(err, &stack))
	assert.Empty(t, alloc.live)
}

func TestResize_Filters(t *testing.T) {
	s := newScaler(t)
	var order []string
	mark := func(name string) core.Filter {
		return core.FilterFunc(func(img image.Image) (image.Image, error) {
			order = append(order, name)
			_, ok := img.(*image.RGBA)
			assert.True(t, ok, "filters see a normalised buffer")
			return img, nil
		})
	}

	src := image.NewYCbCr(image.Rect(0, 0, 64, 48), image.YCbCrSubsampleRatio420)
	res, err := s.Resize(src, scaler.Options{
		Width:   64,
		Filters: []core.Filter{nil, mark("a"), core.FilterFunc(nil), mark("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, wh(64, 48), dims(res.Image))
}

func TestResize_FilterErrors(t *testing.T) {
	s := newScaler(t)
	bad := errors.New("bad filter")

	_, err := s.Resize(solid(40, 40, red), scaler.Options{Width: 20, Filters: []core.Filter{
		core.FilterFunc(func(image.Image) (image.Image, error) { return nil, bad }),
	}})
	assert.ErrorIs(t, err, bad)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryFilter))

	_, err = s.Resize(solid(40, 40, red), scaler.Options{Width: 20, Filters: []core.Filter{
		core.FilterFunc(func(image.Image) (image.Image, error) { return nil, nil }),
	}})
	assert.ErrorIs(t, err, apperrors.ErrNilFilterResult)
	assert.True(t, apperrors.IsRasterization(err))
}

func TestResize_KeepsAlphaLayout(t *testing.T) {
	s := newScaler(t)
	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	res, err := s.Resize(src, scaler.Options{Width: 50})
	require.NoError(t, err)
	_, ok := res.Image.(*image.NRGBA)
	assert.True(t, ok)
	assert.True(t, scaler.HasAlpha(res.Image))

	res, err = s.Resize(image.NewGray(image.Rect(0, 0, 200, 100)), scaler.Options{Width: 50})
	require.NoError(t, err)
	_, ok = res.Image.(*image.RGBA)
	assert.True(t, ok)
}

func TestResize_DebugTrace(t *testing.T) {
	zc, logs := observer.New(zap.DebugLevel)
	cfg := config.Default()
	cfg.Debug = true
	s, err := scaler.New(cfg, scaler.WithLogger(hooks.NewZapLogger(zap.New(zc))))
	require.NoError(t, err)

	res, err := s.Resize(solid(800, 600, red), scaler.Options{Width: 100})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("scaler.resize.start").Len())
	assert.Equal(t, 1, logs.FilterMessage("scaler.resize.method").Len())
	assert.Equal(t, res.Passes, logs.FilterMessage("scaler.incremental.pass").Len())
	done := logs.FilterMessage("scaler.resize.done").All()
	require.Len(t, done, 1)
	assert.Equal(t, "100x75", done[0].ContextMap()["result"])

	_, err = s.Resize(solid(800, 600, red), scaler.Options{Width: 800})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("scaler.resize.noop").Len())
}

func TestResize_NoTraceWithoutDebug(t *testing.T) {
	zc, logs := observer.New(zap.DebugLevel)
	s := newScaler(t, scaler.WithLogger(hooks.NewZapLogger(zap.New(zc))))
	_, err := s.Resize(solid(800, 600, red), scaler.Options{Width: 100})
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestDraw_Validation(t *testing.T) {
	s := newScaler(t)
	_, err := s.Draw(nil, wh(1, 1), core.KernelNearest)
	assert.Equal(t, "src", apperrors.ArgOf(err))
	_, err = s.Draw(solid(4, 4, red), wh(1, 1), core.Kernel(0))
	assert.Equal(t, "kernel", apperrors.ArgOf(err))
	_, err = s.Draw(solid(4, 4, red), wh(0, 1), core.KernelNearest)
	assert.Equal(t, "size", apperrors.ArgOf(err))

	out, err := s.Draw(solid(4, 4, red), wh(2, 8), core.KernelBilinear)
	require.NoError(t, err)
	assert.Equal(t, wh(2, 8), dims(out))
}

func TestNormalize(t *testing.T) {
	rgba := solid(3, 3, red)
	assert.Same(t, rgba, scaler.Normalize(rgba))

	sub := rgba.SubImage(image.Rect(1, 1, 3, 3))
	assert.False(t, scaler.Optimal(sub))
	n := scaler.Normalize(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), n.Bounds())

	_, ok := scaler.Normalize(image.NewNRGBA64(image.Rect(0, 0, 2, 2))).(*image.NRGBA)
	assert.True(t, ok)
}
