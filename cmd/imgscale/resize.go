package main

import (
	"fmt"

	"github.com/spf13/cobra"

	imagescaler "github.com/Skryldev/image-scaler"
	"github.com/Skryldev/image-scaler/core"
	"github.com/Skryldev/image-scaler/filters"
)

func init() {
	f := resizeCmd.Flags()
	f.IntVarP(&resizeWidth, `width`, `W`, 0, `target width`)
	f.IntVarP(&resizeHeight, `height`, `H`, 0, `target height`)
	f.StringVarP(&resizeMethod, `method`, `m`, core.MethodAutomatic.String(), `automatic, speed, balanced or quality`)
	f.StringVar(&resizeMode, `mode`, core.FitAutomatic.String(), `automatic, fit_exact, fit_to_width, fit_to_height or fit_both`)
	f.StringSliceVar(&filterNames, `filter`, nil, `post-filters applied in order: antialias, brighter, darker, grayscale`)
	rootCmd.AddCommand(resizeCmd)
}

var (
	resizeWidth  int
	resizeHeight int
	resizeMethod string
	resizeMode   string
	filterNames  []string
)

var resizeCmd = &cobra.Command{
	Use:   `resize <in> <out>`,
	Short: `resize an image, keeping proportions unless --mode fit_exact`,
	Long: `Resize an image.

The primary dimension follows --mode; the other one is derived from the
source's aspect ratio. With --method automatic the tier is chosen from the
target size. "-" reads stdin or writes stdout.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(s *session) error { return resizeFunc(s, args[0], args[1]) })
	},
}

func resizeFunc(s *session, in, out string) error {
	method, err := parseMethod(resizeMethod)
	if err != nil {
		return err
	}
	mode, err := parseMode(resizeMode)
	if err != nil {
		return err
	}
	fs, err := namedFilters(filterNames)
	if err != nil {
		return err
	}

	img, err := s.load(in)
	if err != nil {
		return err
	}
	res, err := s.proc.Resize(img.Image, imagescaler.Options{
		Method:  method,
		Mode:    mode,
		Width:   resizeWidth,
		Height:  resizeHeight,
		Filters: fs,
	})
	if err != nil {
		return err
	}
	s.log.Info("imgscale.resize",
		"source", res.Source.String(),
		"target", res.Target.String(),
		"method", res.Method.String(),
		"passes", res.Passes,
		"elapsed_ms", res.Elapsed.Milliseconds())
	return s.save(img, res.Image, out)
}

func namedFilters(names []string) ([]core.Filter, error) {
	out := make([]core.Filter, 0, len(names))
	for _, n := range names {
		f, ok := filters.ByName(n)
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", n)
		}
		out = append(out, f)
	}
	return out, nil
}
