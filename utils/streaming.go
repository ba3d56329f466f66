package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// ErrInputTooLarge is returned by ReadAll when the input exceeds its limit.
var ErrInputTooLarge = errors.New("input exceeds size limit")

const (
	readChunk       = 32 * 1024
	maxPooledBuffer = 8 * 1024 * 1024
)

// bufPool reuses encoded-image byte buffers.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// AcquireBuffer returns a reset buffer from the pool.
func AcquireBuffer() *bytes.Buffer {
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// ReleaseBuffer returns b to the pool.  Callers must not use b after this call.
func ReleaseBuffer(b *bytes.Buffer) {
	if b == nil || b.Cap() > maxPooledBuffer {
		return
	}
	bufPool.Put(b)
}

// ReadAll reads r to EOF into a pooled buffer, checking ctx between chunks.
// maxBytes <= 0 disables the limit.  Pass the buffer back with ReleaseBuffer.
func ReadAll(ctx context.Context, r io.Reader, maxBytes int64) (*bytes.Buffer, error) {
	buf := AcquireBuffer()
	chunk := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			ReleaseBuffer(buf)
			return nil, err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if maxBytes > 0 && int64(buf.Len()) > maxBytes {
				ReleaseBuffer(buf)
				return nil, ErrInputTooLarge
			}
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			ReleaseBuffer(buf)
			return nil, err
		}
	}
}
