package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
)

func TestDimensions_FitInside(t *testing.T) {
	t.Run("shrinks square source to cap", func(t *testing.T) {
		got := valueobject.NewDimensions(800, 800).FitInside(valueobject.NewDimensions(2000, 2000))

		assert.Equal(t, valueobject.NewDimensions(800, 800), got)
	})

	t.Run("never enlarges", func(t *testing.T) {
		src := valueobject.NewDimensions(100, 50)
		got := valueobject.NewDimensions(800, 800).FitInside(src)

		assert.Equal(t, src, got)
	})

	t.Run("preserves landscape aspect ratio", func(t *testing.T) {
		got := valueobject.NewDimensions(400, 400).FitInside(valueobject.NewDimensions(1600, 900))

		assert.Equal(t, 400, got.Width)
		assert.Equal(t, 225, got.Height)
	})

	t.Run("preserves portrait aspect ratio", func(t *testing.T) {
		got := valueobject.NewDimensions(400, 400).FitInside(valueobject.NewDimensions(900, 1600))

		assert.Equal(t, 225, got.Width)
		assert.Equal(t, 400, got.Height)
	})

	t.Run("treats zero axis as unbounded", func(t *testing.T) {
		got := valueobject.NewDimensions(500, 0).FitInside(valueobject.NewDimensions(1000, 3000))

		assert.Equal(t, valueobject.NewDimensions(500, 1500), got)
	})

	t.Run("zero cap keeps source", func(t *testing.T) {
		src := valueobject.NewDimensions(1234, 567)

		assert.Equal(t, src, valueobject.Dimensions{}.FitInside(src))
	})

	t.Run("keeps at least one pixel", func(t *testing.T) {
		got := valueobject.NewDimensions(10, 10).FitInside(valueobject.NewDimensions(5000, 1))

		assert.Equal(t, 10, got.Width)
		assert.Equal(t, 1, got.Height)
	})
}

func TestDimensions_Pixels(t *testing.T) {
	assert.Equal(t, int64(100000000), valueobject.NewDimensions(10000, 10000).Pixels())
	assert.True(t, valueobject.Dimensions{}.IsZero())
	assert.False(t, valueobject.NewDimensions(1, 0).IsZero())
}
