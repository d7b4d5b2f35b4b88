package derivative

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/marcos-nsantos/imagepipe/internal/domain"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

// URL is the public address of a relative derivative path: {baseURL}{relPath}.
func (s *Service) URL(relPath string) string {
	return s.opts.BaseURL + strings.TrimPrefix(relPath, "/")
}

// RelativePath recovers the storage path from a URL built by URL. Query
// strings and fragments are ignored.
func (s *Service) RelativePath(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, s.opts.BaseURL)
	if !ok || s.opts.BaseURL == "" {
		return "", apperror.BadRequest(fmt.Sprintf("url %q is not under %q", url, s.opts.BaseURL), domain.ErrForeignURL)
	}
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	if !fs.ValidPath(rel) || rel == "." {
		return "", apperror.BadRequest(fmt.Sprintf("url %q does not name a derivative", url), domain.ErrInvalidKey)
	}
	return rel, nil
}
