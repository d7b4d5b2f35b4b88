package domain

import "errors"

var (
	ErrInvalidImage      = errors.New("invalid image")
	ErrImageTooLarge     = errors.New("image too large")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidKey        = errors.New("invalid key")
	ErrForeignURL        = errors.New("url outside storage base")
	ErrStorage           = errors.New("storage failure")
)
