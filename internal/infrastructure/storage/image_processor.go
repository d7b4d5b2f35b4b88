package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/webp"

	"github.com/marcos-nsantos/imagepipe/internal/domain"
	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

const (
	DefaultMaxSourceBytes  = 25 << 20
	DefaultMaxSourcePixels = 50_000_000
	DefaultJPEGQuality     = 82
	DefaultWebPQuality     = 60
	DefaultAVIFQuality     = 55

	avifSpeed = 8
)

type TranscoderConfig struct {
	MaxSourceBytes  int64
	MaxSourcePixels int64
	JPEGQuality     int
	WebPQuality     int
	AVIFQuality     int
}

type ImageTranscoderImpl struct {
	maxSourceBytes  int64
	maxSourcePixels int64
	quality         map[entity.Format]int
}

func NewImageTranscoder(cfg TranscoderConfig) *ImageTranscoderImpl {
	return &ImageTranscoderImpl{
		maxSourceBytes:  orDefault64(cfg.MaxSourceBytes, DefaultMaxSourceBytes),
		maxSourcePixels: orDefault64(cfg.MaxSourcePixels, DefaultMaxSourcePixels),
		quality: map[entity.Format]int{
			entity.FormatJPEG: orDefault(cfg.JPEGQuality, DefaultJPEGQuality),
			entity.FormatWebP: orDefault(cfg.WebPQuality, DefaultWebPQuality),
			entity.FormatAVIF: orDefault(cfg.AVIFQuality, DefaultAVIFQuality),
		},
	}
}

// Decode checks the byte and pixel limits before allocating the full image.
func (p *ImageTranscoderImpl) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperror.InvalidImage(errors.New("empty input"))
	}
	if int64(len(data)) > p.maxSourceBytes {
		return nil, apperror.TooLarge(fmt.Sprintf("source is %d bytes, limit is %d", len(data), p.maxSourceBytes))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.InvalidImage(err)
	}
	size := valueobject.NewDimensions(cfg.Width, cfg.Height)
	if size.Pixels() > p.maxSourcePixels {
		return nil, apperror.TooLarge(fmt.Sprintf("source is %dx%d, limit is %d pixels", cfg.Width, cfg.Height, p.maxSourcePixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperror.InvalidImage(err)
	}
	return img, nil
}

func (p *ImageTranscoderImpl) Encode(img image.Image, opts entity.TranscodeOptions) (*entity.EncodedImage, error) {
	if !opts.Format.IsValid() {
		return nil, apperror.BadRequest(fmt.Sprintf("cannot encode %q", opts.Format), domain.ErrUnsupportedFormat)
	}

	img = fit(img, opts.MaxSize)
	if opts.Transparency == entity.TransparencyFlatten || !opts.Format.SupportsAlpha() {
		img = flatten(img)
	}

	quality := p.qualityFor(opts)

	var buf bytes.Buffer
	var err error
	switch opts.Format {
	case entity.FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case entity.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case entity.FormatWebP:
		err = encodeWebP(&buf, img, quality)
	case entity.FormatAVIF:
		err = avif.Encode(&buf, img, avif.Options{Quality: quality, QualityAlpha: quality, Speed: avifSpeed})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", opts.Format, err)
	}

	bounds := img.Bounds()
	return &entity.EncodedImage{
		Data:    buf.Bytes(),
		Format:  opts.Format,
		Quality: quality,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
	}, nil
}

func (p *ImageTranscoderImpl) qualityFor(opts entity.TranscodeOptions) int {
	if opts.Format == entity.FormatPNG {
		return 0
	}
	q := opts.Quality
	if q <= 0 {
		q = p.quality[opts.Format]
	}
	return min(q, 100)
}

func encodeWebP(buf *bytes.Buffer, img image.Image, quality int) error {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("creating webp encoder options: %w", err)
	}
	return webp.Encode(buf, img, options)
}

func fit(img image.Image, maxSize valueobject.Dimensions) image.Image {
	bounds := img.Bounds()
	src := valueobject.NewDimensions(bounds.Dx(), bounds.Dy())
	target := maxSize.FitInside(src)
	if target == src {
		return img
	}
	return imaging.Resize(img, target.Width, target.Height, imaging.Lanczos)
}

// flatten composites img onto white. Opaque images pass through untouched.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefault64(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}
