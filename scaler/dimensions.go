package scaler

import (
	"math"

	"github.com/Skryldev/image-scaler/core"
)

// Axis names the primary dimension of a proportional resize.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

func (a Axis) String() string {
	if a == AxisHeight {
		return "height"
	}
	return "width"
}

// Ratio returns height/width in float32, matching the precision the rounding
// rules are defined against.
func Ratio(d core.Dimensions) float32 {
	return float32(d.Height) / float32(d.Width)
}

// Landscape reports whether ratio describes a landscape or square image.
func Landscape(ratio float32) bool { return ratio <= 1 }

// PrimaryAxis returns the authoritative axis for a proportional resize.
// FitExact and FitBoth have no fixed primary axis; they report the
// orientation-driven one.
func PrimaryAxis(mode core.FitMode, ratio float32) Axis {
	switch mode {
	case core.FitToWidth:
		return AxisWidth
	case core.FitToHeight:
		return AxisHeight
	}
	if Landscape(ratio) {
		return AxisWidth
	}
	return AxisHeight
}

// round is half-up rounding of a float32 product.
func round(x float32) int {
	return int(math.Floor(float64(x) + 0.5))
}

// derive computes the non-primary dimension from the primary target.  A
// result that rounds to zero is clamped to one pixel.
func derive(axis Axis, primary int, ratio float32) int {
	var v int
	if axis == AxisWidth {
		v = round(float32(primary) * ratio)
	} else {
		v = round(float32(primary) / ratio)
	}
	if v < 1 && primary > 0 {
		v = 1
	}
	return v
}

// Resolve computes the target dimensions of resizing src into req under mode.
// unchanged is true when no resize is needed, in which case target == src.
// FitExact never reports unchanged.  src must be non-empty; req is not
// validated here.
func Resolve(src core.Dimensions, mode core.FitMode, req core.Dimensions) (target core.Dimensions, unchanged bool) {
	ratio := Ratio(src)

	if mode == core.FitExact {
		return req, false
	}

	axis := PrimaryAxis(mode, ratio)
	if mode == core.FitBoth {
		axis = fitBothAxis(req, ratio)
	}

	if axis == AxisWidth {
		if req.Width == src.Width {
			return src, true
		}
		return core.Dimensions{Width: req.Width, Height: derive(AxisWidth, req.Width, ratio)}, false
	}
	if req.Height == src.Height {
		return src, true
	}
	return core.Dimensions{Width: derive(AxisHeight, req.Height, ratio), Height: req.Height}, false
}

// fitBothAxis picks the primary axis that keeps the result inside req.
// Landscape and square sources try width first, portrait sources height
// first; the other axis wins only when the first choice overflows.  A zero
// bound is unconstrained.
func fitBothAxis(req core.Dimensions, ratio float32) Axis {
	switch {
	case req.Height == 0:
		return AxisWidth
	case req.Width == 0:
		return AxisHeight
	}
	if Landscape(ratio) {
		if derive(AxisWidth, req.Width, ratio) > req.Height {
			return AxisHeight
		}
		return AxisWidth
	}
	if derive(AxisHeight, req.Height, ratio) > req.Width {
		return AxisWidth
	}
	return AxisHeight
}
