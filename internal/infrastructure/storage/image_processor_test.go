package storage_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/gen2brain/avif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"

	"github.com/marcos-nsantos/imagepipe/internal/domain"
	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
	"github.com/marcos-nsantos/imagepipe/internal/infrastructure/storage"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

func createOpaquePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// createHalfTransparentPNG is transparent on the left half, opaque blue on the right.
func createHalfTransparentPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x < w/2 {
				img.Set(x, y, color.NRGBA{})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func transcode(t *testing.T, p *storage.ImageTranscoderImpl, data []byte, opts entity.TranscodeOptions) *entity.EncodedImage {
	t.Helper()
	img, err := p.Decode(data)
	require.NoError(t, err)
	out, err := p.Encode(img, opts)
	require.NoError(t, err)
	return out
}

func TestImageTranscoder_JPEG(t *testing.T) {
	t.Run("downsamples large opaque source to cap", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createOpaquePNG(t, 2000, 2000), entity.TranscodeOptions{
			Format:  entity.FormatJPEG,
			MaxSize: valueobject.NewDimensions(800, 800),
		})

		decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, 800, decoded.Bounds().Dx())
		assert.Equal(t, 800, decoded.Bounds().Dy())
		assert.Equal(t, 800, out.Width)
		assert.Equal(t, storage.DefaultJPEGQuality, out.Quality)
	})

	t.Run("does not enlarge small source", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createOpaquePNG(t, 120, 80), entity.TranscodeOptions{
			Format:  entity.FormatJPEG,
			MaxSize: valueobject.NewDimensions(800, 800),
			Quality: 70,
		})

		decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, 120, decoded.Bounds().Dx())
		assert.Equal(t, 80, decoded.Bounds().Dy())
		assert.Equal(t, 70, out.Quality)
	})

	t.Run("preserves aspect ratio", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createOpaquePNG(t, 1600, 900), entity.TranscodeOptions{
			Format:  entity.FormatJPEG,
			MaxSize: valueobject.NewDimensions(400, 400),
		})

		assert.Equal(t, 400, out.Width)
		assert.Equal(t, 225, out.Height)
		assert.InDelta(t, 1600.0/900.0, float64(out.Width)/float64(out.Height), 0.01)
	})

	t.Run("composites transparency onto white", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createHalfTransparentPNG(t, 100, 50), entity.TranscodeOptions{
			Format:  entity.FormatJPEG,
			Quality: 85,
		})

		decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assertNearWhite(t, decoded.At(5, 25))
	})
}

func TestImageTranscoder_PNG(t *testing.T) {
	t.Run("keeps alpha when preserving", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createHalfTransparentPNG(t, 100, 50), entity.TranscodeOptions{
			Format:       entity.FormatPNG,
			Transparency: entity.TransparencyPreserve,
		})

		decoded, err := png.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		_, _, _, a := decoded.At(5, 25).RGBA()
		assert.Equal(t, uint32(0), a)
		_, _, b, a := decoded.At(95, 25).RGBA()
		assert.Equal(t, uint32(0xffff), a)
		assert.Equal(t, uint32(0xffff), b)
		assert.Equal(t, 0, out.Quality)
	})

	t.Run("flattens when asked", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createHalfTransparentPNG(t, 100, 50), entity.TranscodeOptions{
			Format:       entity.FormatPNG,
			Transparency: entity.TransparencyFlatten,
		})

		decoded, err := png.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		r, g, b, a := decoded.At(5, 25).RGBA()
		assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
	})
}

func TestImageTranscoder_WebP(t *testing.T) {
	t.Run("flattened output has no transparency", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createHalfTransparentPNG(t, 100, 50), entity.TranscodeOptions{
			Format:       entity.FormatWebP,
			Transparency: entity.TransparencyFlatten,
		})

		decoded, err := xwebp.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, 100, 50), decoded.Bounds())
		assert.IsType(t, &image.YCbCr{}, decoded, "output carries an alpha plane")

		cfg, err := xwebp.DecodeConfig(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, color.YCbCrModel, cfg.ColorModel)

		for y := range 50 {
			for x := range 100 {
				_, _, _, a := decoded.At(x, y).RGBA()
				require.Equal(t, uint32(0xffff), a, "pixel %d,%d is not opaque", x, y)
			}
		}
		assertNearWhite(t, decoded.At(10, 25))
		assert.Equal(t, storage.DefaultWebPQuality, out.Quality)
	})

	t.Run("output decodes through image.Decode", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createOpaquePNG(t, 64, 64), entity.TranscodeOptions{Format: entity.FormatWebP})

		_, format, err := image.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, "webp", format)
	})
}

func TestImageTranscoder_AVIF(t *testing.T) {
	t.Run("produces decodable avif", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		out := transcode(t, p, createOpaquePNG(t, 640, 480), entity.TranscodeOptions{
			Format:  entity.FormatAVIF,
			MaxSize: valueobject.NewDimensions(320, 320),
		})

		require.Greater(t, len(out.Data), 12)
		assert.Equal(t, "ftyp", string(out.Data[4:8]))

		decoded, err := avif.Decode(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, 320, decoded.Bounds().Dx())
		assert.Equal(t, 240, decoded.Bounds().Dy())
		assert.Equal(t, storage.DefaultAVIFQuality, out.Quality)
	})

	t.Run("uses configured quality", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{AVIFQuality: 50})

		out := transcode(t, p, createOpaquePNG(t, 32, 32), entity.TranscodeOptions{Format: entity.FormatAVIF})

		assert.Equal(t, 50, out.Quality)
	})
}

func TestImageTranscoder_Decode(t *testing.T) {
	t.Run("rejects corrupt input as bad input", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		_, err := p.Decode([]byte("definitely not an image"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
		assert.True(t, apperror.IsBadInput(err))
		assert.False(t, apperror.IsStorage(err))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		_, err := p.Decode(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("rejects truncated image", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})
		data := createOpaquePNG(t, 64, 64)

		_, err := p.Decode(data[:len(data)/2])
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("rejects source over byte limit", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{MaxSourceBytes: 16})

		_, err := p.Decode(createOpaquePNG(t, 8, 8))
		assert.ErrorIs(t, err, domain.ErrImageTooLarge)
	})

	t.Run("rejects source over pixel limit before decoding", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{MaxSourcePixels: 100})

		_, err := p.Decode(createOpaquePNG(t, 20, 20))
		assert.ErrorIs(t, err, domain.ErrImageTooLarge)
		assert.True(t, apperror.IsBadInput(err))
	})

	t.Run("accepts webp source", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})
		webp := transcode(t, p, createOpaquePNG(t, 40, 30), entity.TranscodeOptions{Format: entity.FormatWebP})

		img, err := p.Decode(webp.Data)
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dx())
	})
}

func TestImageTranscoder_Encode(t *testing.T) {
	t.Run("rejects unsupported format", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})

		_, err := p.Encode(image.NewNRGBA(image.Rect(0, 0, 4, 4)), entity.TranscodeOptions{Format: "gif"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("does not mutate the source image", func(t *testing.T) {
		p := storage.NewImageTranscoder(storage.TranscoderConfig{})
		img, err := p.Decode(createHalfTransparentPNG(t, 10, 10))
		require.NoError(t, err)

		_, err = p.Encode(img, entity.TranscodeOptions{Format: entity.FormatJPEG})
		require.NoError(t, err)

		_, _, _, a := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(0), a)
	})
}

func assertNearWhite(t *testing.T, c color.Color) {
	t.Helper()
	r, g, b, _ := c.RGBA()
	const floor = 0xf000
	assert.GreaterOrEqual(t, r, uint32(floor), "red channel")
	assert.GreaterOrEqual(t, g, uint32(floor), "green channel")
	assert.GreaterOrEqual(t, b, uint32(floor), "blue channel")
}
