package scaler

import (
	"github.com/Skryldev/image-scaler/config"
	"github.com/Skryldev/image-scaler/core"
)

// Selector resolves core.MethodAutomatic to a concrete tier from the target's
// primary dimension.  It is immutable and safe for concurrent use.
type Selector struct {
	qualityBalanced int
	balancedSpeed   int
}

// NewSelector captures t.  Use config.DefaultThresholds() for 800/1600.
func NewSelector(t config.Thresholds) *Selector {
	return &Selector{qualityBalanced: t.QualityBalanced, balancedSpeed: t.BalancedSpeed}
}

// Thresholds returns the captured cut-offs.
func (s *Selector) Thresholds() config.Thresholds {
	return config.Thresholds{QualityBalanced: s.qualityBalanced, BalancedSpeed: s.balancedSpeed}
}

// Select never returns core.MethodAutomatic.  The primary dimension is the
// width for landscape and square ratios and the height otherwise.
func (s *Selector) Select(target core.Dimensions, ratio float32) core.Method {
	primary := target.Height
	if Landscape(ratio) {
		primary = target.Width
	}
	switch {
	case primary <= s.qualityBalanced:
		return core.MethodQuality
	case primary <= s.balancedSpeed:
		return core.MethodBalanced
	default:
		return core.MethodSpeed
	}
}

// kernelFor maps a concrete method to its single-pass kernel.
func kernelFor(m core.Method) core.Kernel {
	switch m {
	case core.MethodSpeed:
		return core.KernelNearest
	case core.MethodBalanced:
		return core.KernelBilinear
	case core.MethodQuality:
		return core.KernelBicubic
	}
	panic("scaler: no kernel for " + m.String())
}
