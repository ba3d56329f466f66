package utils

import (
	"image"
	"image/draw"
	"sync"

	"github.com/Skryldev/image-scaler/core"
)

// maxPooledPix caps the size of a pixel slice kept for reuse.
const maxPooledPix = 64 * 1024 * 1024

// PixelPool is the default core.Allocator.  It recycles the Pix slices of
// released buffers through a sync.Pool.  Safe for concurrent use.
type PixelPool struct {
	pool sync.Pool
}

var _ core.Allocator = (*PixelPool)(nil)

// NewPixelPool returns an empty pool.
func NewPixelPool() *PixelPool { return &PixelPool{} }

// Alloc returns a zeroed w×h buffer at the origin: *image.RGBA for
// core.LayoutRGB and *image.NRGBA for core.LayoutARGB.
func (p *PixelPool) Alloc(layout core.Layout, w, h int) draw.Image {
	r := image.Rect(0, 0, w, h)
	pix := p.take(4 * w * h)
	if layout == core.LayoutARGB {
		return &image.NRGBA{Pix: pix, Stride: 4 * w, Rect: r}
	}
	return &image.RGBA{Pix: pix, Stride: 4 * w, Rect: r}
}

// Release hands img's pixels back to the pool.  Images the pool did not
// allocate are accepted as long as they are RGBA or NRGBA.
func (p *PixelPool) Release(img image.Image) {
	var pix []byte
	switch m := img.(type) {
	case *image.RGBA:
		pix = m.Pix
		m.Pix = nil
	case *image.NRGBA:
		pix = m.Pix
		m.Pix = nil
	default:
		return
	}
	if cap(pix) == 0 || cap(pix) > maxPooledPix {
		return
	}
	p.pool.Put(&pix)
}

func (p *PixelPool) take(n int) []byte {
	if v, ok := p.pool.Get().(*[]byte); ok && cap(*v) >= n {
		buf := (*v)[:n]
		clear(buf)
		return buf
	}
	return make([]byte, n)
}
