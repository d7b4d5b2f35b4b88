package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/imagepipe/internal/domain"
	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
)

func TestPreviewKey(t *testing.T) {
	t.Run("builds slotted path", func(t *testing.T) {
		key := entity.SlotKey("42", 3)

		assert.Equal(t, "42_3_preview", key.Name())
		assert.Equal(t, "42_3_preview.avif", key.Filename())
		assert.Equal(t, "3/5/42/42_3_preview.avif", key.RelativePath())
	})

	t.Run("builds unslotted path", func(t *testing.T) {
		key := entity.EntityKey("7")

		assert.Equal(t, "9/a/7/7_preview.avif", key.RelativePath())
	})
}

func TestPreviewKey_Validate(t *testing.T) {
	valid := []entity.PreviewKey{
		entity.EntityKey("42"),
		entity.SlotKey("sku-001", 0),
		entity.EntityKey("2f7c1e0a-6a43-4a9a-9a5e-3f1f1a1b2c3d"),
	}
	for _, key := range valid {
		assert.NoError(t, key.Validate(), key.EntityID)
	}

	invalid := []entity.PreviewKey{
		entity.EntityKey(""),
		entity.EntityKey(".."),
		entity.EntityKey("."),
		entity.EntityKey("a/b"),
		entity.EntityKey(`a\b`),
		entity.SlotKey("42", -1),
	}
	for _, key := range invalid {
		assert.ErrorIs(t, key.Validate(), domain.ErrInvalidKey, key.EntityID)
	}
}
