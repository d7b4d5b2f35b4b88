package derivative

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

type ItemResult struct {
	Source     string
	Index      int
	Format     entity.Format
	Role       entity.Role
	Derivative *entity.Derivative
	Err        error
}

type BatchResult struct {
	ID    string
	Items []ItemResult
}

func (r *BatchResult) Succeeded() []ItemResult {
	var out []ItemResult
	for _, item := range r.Items {
		if item.Err == nil {
			out = append(out, item)
		}
	}
	return out
}

func (r *BatchResult) Failed() []ItemResult {
	var out []ItemResult
	for _, item := range r.Items {
		if item.Err != nil {
			out = append(out, item)
		}
	}
	return out
}

func (r *BatchResult) Err() error {
	var err error
	for _, item := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("%s (%s %s): %w", item.Source, item.Role, item.Format, item.Err))
	}
	return err
}

// EntityUpload is the set of images owned by one entity. Slotted entities
// (products) get one preview per slot index; others (categories) get a
// single preview keyed by the entity id.
type EntityUpload struct {
	EntityID string
	Slotted  bool
	Sources  []entity.SourceImage
}

// ProcessAll writes every target encoding of every source. Work runs on at
// most Options.Workers goroutines; a failure only affects its own item.
func (s *Service) ProcessAll(ctx context.Context, sources []entity.SourceImage, targets []entity.TranscodeOptions) *BatchResult {
	return s.run(ctx, sources, targets, nil)
}

// ProcessEntity is ProcessAll plus one preview per source.
func (s *Service) ProcessEntity(ctx context.Context, upload EntityUpload, targets []entity.TranscodeOptions) *BatchResult {
	keys := make([]entity.PreviewKey, len(upload.Sources))
	for i := range upload.Sources {
		if upload.Slotted {
			keys[i] = entity.SlotKey(upload.EntityID, i)
		} else {
			keys[i] = entity.EntityKey(upload.EntityID)
		}
	}
	if !upload.Slotted && len(keys) > 1 {
		// one preview per unslotted entity; the first source wins
		keys = keys[:1]
	}
	return s.run(ctx, upload.Sources, targets, keys)
}

type task struct {
	index   int
	target  entity.TranscodeOptions
	preview *entity.PreviewKey
}

func (s *Service) run(ctx context.Context, sources []entity.SourceImage, targets []entity.TranscodeOptions, previews []entity.PreviewKey) *BatchResult {
	batchID := uuid.New().String()
	logger := s.logger.With(zap.String("batch_id", batchID))

	decoded := make([]image.Image, len(sources))
	decodeErrs := make([]error, len(sources))

	var decodeGroup errgroup.Group
	decodeGroup.SetLimit(s.opts.Workers)
	for i, src := range sources {
		decodeGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				decodeErrs[i] = err
				return nil
			}
			img, err := s.transcoder.Decode(src.Data)
			if err != nil {
				decodeErrs[i] = fmt.Errorf("decoding %s: %w", src.Filename, err)
				return nil
			}
			decoded[i] = img
			return nil
		})
	}
	_ = decodeGroup.Wait()

	var tasks []task
	for i := range sources {
		for _, target := range targets {
			tasks = append(tasks, task{index: i, target: target})
		}
		if i < len(previews) {
			tasks = append(tasks, task{index: i, preview: &previews[i]})
		}
	}

	result := &BatchResult{ID: batchID, Items: make([]ItemResult, len(tasks))}

	var encodeGroup errgroup.Group
	encodeGroup.SetLimit(s.opts.Workers)
	for n, t := range tasks {
		item := &result.Items[n]
		item.Source = sources[t.index].Filename
		item.Index = t.index
		item.Format = t.target.Format
		item.Role = entity.RoleFull
		if t.preview != nil {
			item.Format = entity.FormatAVIF
			item.Role = entity.RolePreview
		}

		if err := decodeErrs[t.index]; err != nil {
			item.Err = err
			continue
		}

		encodeGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				item.Err = err
				return nil
			}
			img := decoded[t.index]
			if t.preview != nil {
				if err := t.preview.Validate(); err != nil {
					item.Err = apperror.BadRequest(fmt.Sprintf("invalid preview key %q", t.preview.Name()), err)
					return nil
				}
				item.Derivative, item.Err = s.writePreview(ctx, *t.preview, img)
			} else {
				addr := valueobject.DeriveContentAddress(sources[t.index].Data)
				item.Derivative, item.Err = s.writeFull(ctx, addr, img, t.target)
			}
			return nil
		})
	}
	_ = encodeGroup.Wait()

	failed := len(result.Failed())
	for _, item := range result.Failed() {
		logger.Warn("batch item failed",
			zap.String("source", item.Source),
			zap.String("format", string(item.Format)),
			zap.String("role", string(item.Role)),
			zap.Error(item.Err),
		)
	}
	logger.Info("batch finished",
		zap.Int("sources", len(sources)),
		zap.Int("items", len(result.Items)),
		zap.Int("failed", failed),
	)

	return result
}
