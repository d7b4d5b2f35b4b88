package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
)

func TestParseFormat(t *testing.T) {
	t.Run("accepts known formats and aliases", func(t *testing.T) {
		cases := map[string]entity.Format{
			"jpeg":  entity.FormatJPEG,
			"JPG":   entity.FormatJPEG,
			"png":   entity.FormatPNG,
			" webp": entity.FormatWebP,
			"avif":  entity.FormatAVIF,
		}
		for in, want := range cases {
			got, err := entity.ParseFormat(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := entity.ParseFormat("gif")
		assert.Error(t, err)
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, ".jpg", entity.FormatJPEG.Extension())
	assert.Equal(t, "image/avif", entity.FormatAVIF.ContentType())
	assert.False(t, entity.FormatJPEG.SupportsAlpha())
	assert.True(t, entity.FormatWebP.SupportsAlpha())
	assert.False(t, entity.Format("gif").IsValid())
}
