package derivative

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/imagepipe/internal/adapter/storage"
	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

const (
	DefaultPreviewSize    = 400
	DefaultPreviewQuality = 40
	DefaultWorkers        = 4
)

type Recorder interface {
	ObserveDerivative(format, role string, size int, elapsed time.Duration, err error)
	ObserveDeletion(outcome string)
}

type Options struct {
	BaseURL        string
	Workers        int
	MaxSize        valueobject.Dimensions
	PreviewSize    int
	PreviewQuality int
}

type Service struct {
	backend    storage.Backend
	transcoder storage.ImageTranscoder
	logger     *zap.Logger
	metrics    Recorder
	opts       Options
}

func NewService(
	backend storage.Backend,
	transcoder storage.ImageTranscoder,
	logger *zap.Logger,
	metrics Recorder,
	opts Options,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if opts.BaseURL != "" && !strings.HasSuffix(opts.BaseURL, "/") {
		opts.BaseURL += "/"
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.PreviewSize < 1 {
		opts.PreviewSize = DefaultPreviewSize
	}
	if opts.PreviewQuality < 1 {
		opts.PreviewQuality = DefaultPreviewQuality
	}
	return &Service{
		backend:    backend,
		transcoder: transcoder,
		logger:     logger,
		metrics:    metrics,
		opts:       opts,
	}
}

// Transcode writes one full derivative of src at its content address. The
// file is named {digest}_{W}x{H}{ext} after the cap, not after
// src.Filename, so several caps of one source sit side by side.
func (s *Service) Transcode(ctx context.Context, src entity.SourceImage, opts entity.TranscodeOptions) (*entity.Derivative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.transcoder.Decode(src.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src.Filename, err)
	}
	return s.writeFull(ctx, valueobject.DeriveContentAddress(src.Data), img, opts)
}

// CreatePreview writes the AVIF thumbnail for key, replacing any previous one.
func (s *Service) CreatePreview(ctx context.Context, src entity.SourceImage, key entity.PreviewKey) (*entity.Derivative, error) {
	if err := key.Validate(); err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("invalid preview key %q", key.Name()), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.transcoder.Decode(src.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src.Filename, err)
	}
	return s.writePreview(ctx, key, img)
}

// writeFull stores img at addr as {digest}_{W}x{H}{ext}, where WxH is the
// effective cap. A zero cap falls back to Options.MaxSize.
func (s *Service) writeFull(ctx context.Context, addr valueobject.StorageAddress, img image.Image, opts entity.TranscodeOptions) (*entity.Derivative, error) {
	if opts.MaxSize.IsZero() {
		opts.MaxSize = s.opts.MaxSize
	}
	filename := fmt.Sprintf("%s_%dx%d%s", addr.Digest, opts.MaxSize.Width, opts.MaxSize.Height, opts.Format.Extension())
	return s.write(ctx, entity.RoleFull, addr.Dir, addr.Path(filename), img, opts)
}

func (s *Service) writePreview(ctx context.Context, key entity.PreviewKey, img image.Image) (*entity.Derivative, error) {
	opts := entity.TranscodeOptions{
		Format:       entity.FormatAVIF,
		MaxSize:      valueobject.NewDimensions(s.opts.PreviewSize, s.opts.PreviewSize),
		Quality:      s.opts.PreviewQuality,
		Transparency: entity.TransparencyPreserve,
	}
	return s.write(ctx, entity.RolePreview, key.Address().Dir, key.RelativePath(), img, opts)
}

func (s *Service) write(
	ctx context.Context,
	role entity.Role,
	dir, relPath string,
	img image.Image,
	opts entity.TranscodeOptions,
) (d *entity.Derivative, err error) {
	start := time.Now()
	size := 0
	defer func() {
		s.metrics.ObserveDerivative(string(opts.Format), string(role), size, time.Since(start), err)
	}()

	encoded, err := s.transcoder.Encode(img, opts)
	if err != nil {
		return nil, fmt.Errorf("transcoding to %s: %w", opts.Format, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.backend.EnsureDir(ctx, dir); err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, relPath, encoded.Data, opts.Format.ContentType()); err != nil {
		return nil, err
	}
	size = len(encoded.Data)

	s.logger.Debug("derivative written",
		zap.String("path", relPath),
		zap.String("format", string(opts.Format)),
		zap.String("role", string(role)),
		zap.Int("width", encoded.Width),
		zap.Int("height", encoded.Height),
		zap.Int("bytes", size),
	)

	return &entity.Derivative{
		Format:       opts.Format,
		Role:         role,
		MaxWidth:     opts.MaxSize.Width,
		MaxHeight:    opts.MaxSize.Height,
		Quality:      encoded.Quality,
		Width:        encoded.Width,
		Height:       encoded.Height,
		Size:         int64(size),
		RelativePath: relPath,
		URL:          s.URL(relPath),
	}, nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveDerivative(string, string, int, time.Duration, error) {}
func (nopRecorder) ObserveDeletion(string)                                      {}
