package entity

import (
	"strings"

	"github.com/marcos-nsantos/imagepipe/internal/domain"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
)

// PreviewKey identifies a preview by its owning entity and, for entities
// with several images, the zero-based slot index.
type PreviewKey struct {
	EntityID string
	Slot     *int
}

func EntityKey(entityID string) PreviewKey {
	return PreviewKey{EntityID: entityID}
}

func SlotKey(entityID string, slot int) PreviewKey {
	return PreviewKey{EntityID: entityID, Slot: &slot}
}

// Name is the logical string hashed for addressing, e.g. "42_3_preview".
func (k PreviewKey) Name() string {
	return valueobject.KeyName(k.EntityID, k.Slot)
}

func (k PreviewKey) Address() valueobject.StorageAddress {
	return valueobject.DeriveKeyAddress(k.EntityID, k.Slot)
}

// Filename is the preview file inside the key address, e.g. "42_3_preview.avif".
func (k PreviewKey) Filename() string {
	return k.Name() + FormatAVIF.Extension()
}

func (k PreviewKey) RelativePath() string {
	return k.Address().Path(k.Filename())
}

func (k PreviewKey) Validate() error {
	id := k.EntityID
	if id == "" || id == "." || id == ".." {
		return domain.ErrInvalidKey
	}
	if strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return domain.ErrInvalidKey
	}
	if k.Slot != nil && *k.Slot < 0 {
		return domain.ErrInvalidKey
	}
	return nil
}
