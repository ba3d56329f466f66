package scaler

import (
	"image"

	"github.com/Skryldev/image-scaler/core"
)

// downscaleIncrementally halves each axis that is still above target, one
// bicubic pass per step, until target is reached.  Every pass makes progress
// on at least one axis.
//
// Each superseded intermediate is released as soon as the next one exists;
// src itself is never released.
func (s *Scaler) downscaleIncrementally(src image.Image, target core.Dimensions) (image.Image, int, error) {
	cur := core.DimensionsOf(src)
	working, owned := src, false
	passes := 0

	for {
		cur.Width = halveToward(cur.Width, target.Width)
		cur.Height = halveToward(cur.Height, target.Height)

		next, err := s.Draw(working, cur, core.KernelBicubic)
		if owned {
			s.alloc.Release(working)
		}
		if err != nil {
			return nil, passes, err
		}
		working, owned = next, true
		passes++
		s.trace("scaler.incremental.pass", "pass", passes, "size", cur.String())

		if cur == target {
			return working, passes, nil
		}
	}
}

// halveToward halves cur without undershooting target.  An axis already below
// target jumps straight to it.
func halveToward(cur, target int) int {
	if cur > target {
		return max(target, cur/2)
	}
	return target
}
