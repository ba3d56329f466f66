package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/Skryldev/image-scaler/core"
	"github.com/Skryldev/image-scaler/utils"
)

// load decodes path; "-" reads stdin.
func (s *session) load(path string) (*core.ImageData, error) {
	var r io.Reader = os.Stdin
	if path != `-` {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return s.proc.Decode(s.ctx, r)
}

// save encodes img into path; "-" writes stdout.  The output format is
// --format, then the extension of path, then the input format.
func (s *session) save(in *core.ImageData, out image.Image, path string) error {
	f := outputFormat(in.Format, path)
	data, err := s.proc.Encode(s.ctx, in.WithImage(out), f, qualityFlag)
	if err != nil {
		return err
	}
	s.log.Debug("imgscale.save", "path", path, "format", f, "bytes", len(data))
	if path == `-` {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func outputFormat(in core.Format, path string) core.Format {
	if formatFlag != `` {
		return utils.ParseFormat(formatFlag)
	}
	if path != `-` {
		if f := utils.ParseFormat(filepath.Ext(path)); f != core.FormatUnknown {
			return f
		}
	}
	return in
}

// parseEnum matches name against the String form of every value in vals.
func parseEnum[T fmt.Stringer](kind, name string, vals ...T) (T, error) {
	for _, v := range vals {
		if v.String() == name {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, name)
}

func parseMethod(name string) (core.Method, error) {
	return parseEnum("method", name,
		core.MethodAutomatic, core.MethodSpeed, core.MethodBalanced, core.MethodQuality)
}

func parseMode(name string) (core.FitMode, error) {
	return parseEnum("mode", name,
		core.FitAutomatic, core.FitExact, core.FitToWidth, core.FitToHeight, core.FitBoth)
}

func parseRotation(name string) (core.Rotation, error) {
	return parseEnum("rotation", name,
		core.Rotate90, core.Rotate180, core.Rotate270, core.FlipHorizontal, core.FlipVertical)
}
