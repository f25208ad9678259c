package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const (
	CanvasSize       = 512
	NormalizedFormat = "image/png"
)

type ImageProcessor struct {
	log *zap.Logger
}

func NewImageProcessor(log *zap.Logger) *ImageProcessor {
	return &ImageProcessor{log: log}
}

// DetectContentType sniffs the payload instead of trusting the multipart header.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsAllowedFormat reports whether the sniffed type of data is one of allowed.
func IsAllowedFormat(data []byte, allowed []string) (string, bool) {
	mt := mimetype.Detect(data)
	for _, a := range allowed {
		if mt.Is(a) {
			return mt.String(), true
		}
	}
	return mt.String(), false
}

// Dimensions reads only the image header and reports the declared size.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Normalize decodes data and places it on a transparent CanvasSize square,
// scaled to fit while keeping its aspect ratio. The result is PNG encoded.
func (p *ImageProcessor) Normalize(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	canvas := Contain(src, CanvasSize, CanvasSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode normalized image: %w", err)
	}

	p.log.Debug("Image normalized",
		zap.String("format", format),
		zap.Int("src_width", src.Bounds().Dx()),
		zap.Int("src_height", src.Bounds().Dy()),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

// Contain fits src inside a width x height canvas, centered, padding with
// fully transparent pixels. Sources that already match the canvas are copied
// without resampling.
func Contain(src image.Image, width, height int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(src)
	}

	scale := math.Min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	resized := imaging.Resize(src, w, h, imaging.Lanczos)
	canvas := imaging.New(width, height, color.NRGBA{})

	return imaging.PasteCenter(canvas, resized)
}
