package main

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	f := cropCmd.Flags()
	f.IntVarP(&cropX, `x`, `x`, 0, `left edge`)
	f.IntVarP(&cropY, `y`, `y`, 0, `top edge`)
	f.IntVarP(&cropWidth, `width`, `W`, 0, `crop width`)
	f.IntVarP(&cropHeight, `height`, `H`, 0, `crop height`)
	f.StringSliceVar(&filterNames, `filter`, nil, `post-filters applied in order`)

	f = padCmd.Flags()
	f.IntVarP(&padding, `padding`, `p`, 1, `border width in pixels`)
	f.StringVar(&padColor, `color`, `#000000`, `border colour: #rrggbb, #rrggbbaa or transparent`)
	f.StringSliceVar(&filterNames, `filter`, nil, `post-filters applied in order`)

	f = rotateCmd.Flags()
	f.StringVarP(&rotation, `rotation`, `r`, `cw_90`, `cw_90, cw_180, cw_270, flip_horz or flip_vert`)
	f.StringSliceVar(&filterNames, `filter`, nil, `post-filters applied in order`)

	rootCmd.AddCommand(cropCmd, padCmd, rotateCmd)
}

var (
	cropX, cropY, cropWidth, cropHeight int
	padding                             int
	padColor                            string
	rotation                            string
)

var cropCmd = &cobra.Command{
	Use:   `crop <in> <out>`,
	Short: `copy a rectangle out of an image`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			fs, err := namedFilters(filterNames)
			if err != nil {
				return err
			}
			img, err := s.load(args[0])
			if err != nil {
				return err
			}
			out, err := s.proc.Crop(img.Image, cropX, cropY, cropWidth, cropHeight, fs...)
			if err != nil {
				return err
			}
			return s.save(img, out, args[1])
		})
	},
}

var padCmd = &cobra.Command{
	Use:   `pad <in> <out>`,
	Short: `add a uniform border around an image`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			c, err := parseColor(padColor)
			if err != nil {
				return err
			}
			fs, err := namedFilters(filterNames)
			if err != nil {
				return err
			}
			img, err := s.load(args[0])
			if err != nil {
				return err
			}
			out, err := s.proc.Pad(img.Image, padding, c, fs...)
			if err != nil {
				return err
			}
			return s.save(img, out, args[1])
		})
	},
}

var rotateCmd = &cobra.Command{
	Use:   `rotate <in> <out>`,
	Short: `rotate by a quarter turn or flip an image`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			r, err := parseRotation(rotation)
			if err != nil {
				return err
			}
			fs, err := namedFilters(filterNames)
			if err != nil {
				return err
			}
			img, err := s.load(args[0])
			if err != nil {
				return err
			}
			out, err := s.proc.Rotate(img.Image, r, fs...)
			if err != nil {
				return err
			}
			return s.save(img, out, args[1])
		})
	},
}

func parseColor(s string) (color.Color, error) {
	if s == `transparent` {
		return color.NRGBA{}, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, `#`))
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return nil, fmt.Errorf("bad colour %q", s)
	}
	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
