package entity

import "github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"

// TranscodeOptions describes one target encoding. A zero Quality selects
// the encoder's configured default. A zero MaxSize selects the service's
// default cap; a zero on only one axis leaves that axis unbounded.
type TranscodeOptions struct {
	Format       Format
	MaxSize      valueobject.Dimensions
	Quality      int
	Transparency TransparencyPolicy
}

type EncodedImage struct {
	Data    []byte
	Format  Format
	Quality int
	Width   int
	Height  int
}
