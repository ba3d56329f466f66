package utils

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/Skryldev/image-scaler/core"
)

// DetectFormat sniffs the leading bytes of data and returns the image format.
func DetectFormat(data []byte) core.Format {
	if len(data) < 4 {
		return core.FormatUnknown
	}
	switch {
	// JPEG: FF D8 FF
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return core.FormatJPEG
	// PNG: 89 50 4E 47
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return core.FormatPNG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return core.FormatGIF
	case data[0] == 'B' && data[1] == 'M':
		return core.FormatBMP
	// TIFF: little-endian II*\0 or big-endian MM\0*
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return core.FormatTIFF
	// WebP: RIFF....WEBP
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return core.FormatWebP
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return core.FormatJPEG
	case "image/png":
		return core.FormatPNG
	case "image/gif":
		return core.FormatGIF
	case "image/bmp":
		return core.FormatBMP
	case "image/webp":
		return core.FormatWebP
	}
	return core.FormatUnknown
}

// ParseFormat maps a file extension or format name ("jpg", ".png", "JPEG")
// to a Format.
func ParseFormat(s string) core.Format {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	switch s {
	case "jpg", "jpeg":
		return core.FormatJPEG
	case "png":
		return core.FormatPNG
	case "gif":
		return core.FormatGIF
	case "webp":
		return core.FormatWebP
	case "bmp":
		return core.FormatBMP
	case "tif", "tiff":
		return core.FormatTIFF
	}
	return core.FormatUnknown
}
