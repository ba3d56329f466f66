package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skryldev/image-scaler/adapters/raster"
	"github.com/Skryldev/image-scaler/core"
	"github.com/Skryldev/image-scaler/scaler"
)

func init() {
	f := infoCmd.Flags()
	f.IntVarP(&infoWidth, `width`, `W`, 0, `show the resize plan for this width`)
	f.IntVarP(&infoHeight, `height`, `H`, 0, `show the resize plan for this height`)
	rootCmd.AddCommand(infoCmd)
}

var infoWidth, infoHeight int

var infoCmd = &cobra.Command{
	Use:   `info <in>`,
	Short: `print image properties and, with --width/--height, the resize plan`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error {
			img, err := s.load(args[0])
			if err != nil {
				return err
			}
			m := img.Meta
			w := os.Stdout
			fmt.Fprintf(w, "format:   %s\n", m.Format)
			fmt.Fprintf(w, "size:     %dx%d\n", m.Width, m.Height)
			fmt.Fprintf(w, "layout:   %s\n", m.Layout)
			fmt.Fprintf(w, "backend:  %s (have %s)\n", s.proc.Scaler().Backend(), strings.Join(raster.Names(), ", "))
			if infoWidth == 0 && infoHeight == 0 {
				return nil
			}

			src := core.Dimensions{Width: m.Width, Height: m.Height}
			req := core.Dimensions{Width: infoWidth, Height: infoHeight}
			target, unchanged := scaler.Resolve(src, core.FitAutomatic, req)
			switch {
			case unchanged:
				fmt.Fprintln(w, "plan:     no resize")
				return nil
			case target.Width <= 0 || target.Height <= 0:
				fmt.Fprintf(w, "plan:     %s -> %s is not a valid target\n", src, target)
				return nil
			}
			method := s.proc.Scaler().Selector().Select(target, scaler.Ratio(src))
			fmt.Fprintf(w, "plan:     %s -> %s (%s, primary %s)\n",
				src, target, method, scaler.PrimaryAxis(core.FitAutomatic, scaler.Ratio(src)))
			return nil
		})
	},
}
