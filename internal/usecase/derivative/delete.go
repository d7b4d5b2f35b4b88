package derivative

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marcos-nsantos/imagepipe/internal/domain/entity"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

const (
	outcomeDeleted = "deleted"
	outcomeMissing = "missing"
	outcomeFailed  = "failed"
)

// DeletePreview removes the preview stored for key. A preview that does not
// exist is not an error.
func (s *Service) DeletePreview(ctx context.Context, key entity.PreviewKey) error {
	if err := key.Validate(); err != nil {
		return apperror.BadRequest(fmt.Sprintf("invalid preview key %q", key.Name()), err)
	}
	_, err := s.remove(ctx, key.RelativePath())
	return err
}

// DeleteByURL removes the derivative behind a URL previously returned by
// this service. A derivative that does not exist is not an error.
func (s *Service) DeleteByURL(ctx context.Context, url string) error {
	rel, err := s.RelativePath(url)
	if err != nil {
		return err
	}
	_, err = s.remove(ctx, rel)
	return err
}

type DeleteReport struct {
	Deleted []string
	Missing []string
	Failed  map[string]error
}

// Err combines every failure, or returns nil when nothing failed.
func (r *DeleteReport) Err() error {
	var err error
	for url, e := range r.Failed {
		err = multierr.Append(err, fmt.Errorf("deleting %s: %w", url, e))
	}
	return err
}

// DeleteMany attempts every URL independently; one failure never stops the
// others. Callers that want all-or-nothing semantics inspect Err.
func (s *Service) DeleteMany(ctx context.Context, urls []string) *DeleteReport {
	report := &DeleteReport{Failed: make(map[string]error)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for _, url := range urls {
		g.Go(func() error {
			outcome, err := s.deleteOne(ctx, url)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeDeleted:
				report.Deleted = append(report.Deleted, url)
			case outcomeMissing:
				report.Missing = append(report.Missing, url)
			default:
				report.Failed[url] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (s *Service) deleteOne(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return outcomeFailed, err
	}
	rel, err := s.RelativePath(url)
	if err != nil {
		return outcomeFailed, err
	}
	return s.remove(ctx, rel)
}

func (s *Service) remove(ctx context.Context, relPath string) (string, error) {
	err := s.backend.Remove(ctx, relPath)
	switch {
	case err == nil:
		s.metrics.ObserveDeletion(outcomeDeleted)
		s.logger.Debug("derivative deleted", zap.String("path", relPath))
		return outcomeDeleted, nil
	case errors.Is(err, fs.ErrNotExist):
		s.metrics.ObserveDeletion(outcomeMissing)
		s.logger.Info("derivative already absent", zap.String("path", relPath))
		return outcomeMissing, nil
	default:
		s.metrics.ObserveDeletion(outcomeFailed)
		s.logger.Warn("deleting derivative", zap.String("path", relPath), zap.Error(err))
		return outcomeFailed, err
	}
}
