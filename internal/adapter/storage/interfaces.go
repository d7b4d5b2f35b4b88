package storage

import (
	"context"
	"image"

	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/storage_mocks.go -package=mocks

// Backend stores derivatives under slash-separated paths relative to its
// own root. Remove on a missing path returns an error matching
// fs.ErrNotExist. EnsureDir must treat an existing directory as success.
type Backend interface {
	Write(ctx context.Context, relPath string, data []byte, contentType string) error
	Remove(ctx context.Context, relPath string) error
	EnsureDir(ctx context.Context, relDir string) error
}

type ImageTranscoder interface {
	Decode(data []byte) (image.Image, error)
	Encode(img image.Image, opts entity.TranscodeOptions) (*entity.EncodedImage, error)
}
