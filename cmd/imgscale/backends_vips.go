//go:build vips

package main

import (
	"sync"

	imagescaler "github.com/Skryldev/image-scaler"
	"github.com/Skryldev/image-scaler/adapters/raster"
	"github.com/Skryldev/image-scaler/adapters/vips"
	"github.com/Skryldev/image-scaler/core"
)

var (
	vipsOnce    sync.Once
	vipsBackend *vips.Backend
)

// registerExtraBackends makes "vips" selectable through --backend.  libvips
// is only started when that backend is picked.
func registerExtraBackends(l core.Logger) {
	raster.Register(vips.Name, func() core.Rasterizer {
		vipsOnce.Do(func() {
			l.Debug("imgscale.vips.startup")
			vipsBackend = vips.NewBackend(vips.BackendConfig{})
		})
		return vipsBackend
	})
}

// attachExtraCodecs routes JPEG, PNG and WebP through libvips once it runs.
func attachExtraCodecs(p *imagescaler.Processor) {
	if vipsBackend != nil {
		vips.RegisterVipsBackend(p.Registry(), vipsBackend)
	}
}

func shutdownExtraBackends() {
	if vipsBackend != nil {
		vipsBackend.Shutdown()
	}
}
