// Package raster resolves rasterizer backends by configuration name.
package raster

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Skryldev/image-scaler/adapters/raster/bild"
	"github.com/Skryldev/image-scaler/adapters/raster/gg"
	"github.com/Skryldev/image-scaler/adapters/raster/gift"
	"github.com/Skryldev/image-scaler/adapters/raster/imaging"
	"github.com/Skryldev/image-scaler/adapters/raster/nfnt"
	"github.com/Skryldev/image-scaler/adapters/raster/xdraw"
	"github.com/Skryldev/image-scaler/core"
	apperrors "github.com/Skryldev/image-scaler/errors"
)

// Default is the backend used when none is configured.
const Default = xdraw.Name

var (
	mu       sync.RWMutex
	backends = map[string]func() core.Rasterizer{
		xdraw.Name:   func() core.Rasterizer { return xdraw.New() },
		gift.Name:    func() core.Rasterizer { return gift.New() },
		imaging.Name: func() core.Rasterizer { return imaging.New() },
		nfnt.Name:    func() core.Rasterizer { return nfnt.New() },
		bild.Name:    func() core.Rasterizer { return bild.New() },
		gg.Name:      func() core.Rasterizer { return gg.New() },
	}
)

// Register adds or replaces a named backend.  Used by backends that need
// process-level setup, such as libvips.
func Register(name string, factory func() core.Rasterizer) {
	mu.Lock()
	backends[strings.ToLower(name)] = factory
	mu.Unlock()
}

// ByName returns a new rasterizer for name; "" selects Default.
func ByName(name string) (core.Rasterizer, error) {
	if name == "" {
		name = Default
	}
	mu.RLock()
	f, ok := backends[strings.ToLower(name)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", apperrors.ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// Names lists the registered backends, sorted.
func Names() []string {
	mu.RLock()
	out := make([]string, 0, len(backends))
	for n := range backends {
		out = append(out, n)
	}
	mu.RUnlock()
	sort.Strings(out)
	return out
}
