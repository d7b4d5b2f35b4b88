package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"syscall"

	"github.com/marcos-nsantos/imagepipe/internal/domain"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Op         string `json:"-"`
	Path       string `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s %s %s", msg, e.Op, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func InvalidImage(err error) *AppError {
	return &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "image could not be decoded",
		StatusCode: http.StatusUnprocessableEntity,
		Err:        join(domain.ErrInvalidImage, err),
	}
}

func TooLarge(message string) *AppError {
	return &AppError{
		Code:       "IMAGE_TOO_LARGE",
		Message:    message,
		StatusCode: http.StatusRequestEntityTooLarge,
		Err:        domain.ErrImageTooLarge,
	}
}

// BadRequest wraps err, which should be one of the domain sentinels.
func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

func Storage(op, path string, err error) *AppError {
	status := http.StatusInternalServerError
	if errors.Is(err, syscall.ENOSPC) {
		status = http.StatusInsufficientStorage
	}
	return &AppError{
		Code:       "STORAGE_FAILURE",
		Message:    "storage",
		StatusCode: status,
		Op:         op,
		Path:       path,
		Err:        join(domain.ErrStorage, err),
	}
}

func Is(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsBadInput reports whether err was caused by the caller's input rather
// than by the storage layer.
func IsBadInput(err error) bool {
	return errors.Is(err, domain.ErrInvalidImage) ||
		errors.Is(err, domain.ErrImageTooLarge) ||
		errors.Is(err, domain.ErrUnsupportedFormat) ||
		errors.Is(err, domain.ErrInvalidKey) ||
		errors.Is(err, domain.ErrForeignURL)
}

func IsStorage(err error) bool {
	return errors.Is(err, domain.ErrStorage)
}

func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func join(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
