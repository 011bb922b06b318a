// Package imaging forces generated images into the canonical encoding: a
// TargetSize×TargetSize PNG. Everything downstream of the generation client
// (thread artifacts, base images, the serving store) deals only in canonical
// images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

const (
	// TargetSize is the side length of the canonical square, in pixels.
	TargetSize = 1024

	// CanonicalMIME is the MIME type of normalized output.
	CanonicalMIME = "image/png"

	canonicalFormat = "png"
)

// ErrDecode marks input bytes that could not be parsed as an image. It is
// distinct from generation errors so callers can abort before any model call
// when an uploaded or theme base image is broken.
var ErrDecode = errors.New("imaging: cannot decode image data")

// Normalize returns the canonical encoding of raw: the largest centered
// square crop, scaled to TargetSize and re-encoded as PNG with maximum
// compression. Input that is already a TargetSize PNG is returned unchanged.
// Normalize is idempotent.
func Normalize(raw []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if format == canonicalFormat && cfg.Width == TargetSize && cfg.Height == TargetSize {
		return raw, nil
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	side := w
	if h < w {
		side = h
	}
	// Centered crop; floor division leaves an odd remainder on the
	// bottom-right edge.
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, TargetSize, TargetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode canonical image: %w", err)
	}
	return buf.Bytes(), nil
}
