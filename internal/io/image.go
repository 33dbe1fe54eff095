package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService prepares cover art for embedding.
//
// Covers served by the catalog are normally JPEG files of the requested
// size already; ImageService only re-encodes when the image is too large or
// is not a JPEG.
//
//	svc := NewImageService()
//	cover, err := svc.FitCover(ctx, raw, 640)
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService encoding JPEGs at quality 90.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// FitCover returns a JPEG cover no larger than size x size.
//
// The aspect ratio is preserved. A JPEG that already fits is returned
// unchanged so the original encoding is kept byte for byte.
//
// The Catmull-Rom algorithm is used for resizing.
func (s *ImageService) FitCover(ctx context.Context, data []byte, size int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if format == "jpeg" && cfg.Width <= size && cfg.Height <= size {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), size)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitWithin scales width x height down to fit a size x size box.
func fitWithin(width, height, size int) (int, int) {
	if width <= size && height <= size {
		return width, height
	}
	if width >= height {
		h := int(float64(height) * float64(size) / float64(width))
		return size, max(h, 1)
	}
	w := int(float64(width) * float64(size) / float64(height))
	return max(w, 1), size
}
