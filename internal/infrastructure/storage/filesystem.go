package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	adapter "github.com/marcos-nsantos/imagepipe/internal/adapter/storage"
	"github.com/marcos-nsantos/imagepipe/internal/domain"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

var _ adapter.Backend = (*FileSystem)(nil)

// FileSystem writes derivatives under basePath using the relative path as-is.
type FileSystem struct {
	basePath string
}

func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: filepath.Clean(basePath)}
}

func (s *FileSystem) BasePath() string {
	return s.basePath
}

func (s *FileSystem) resolve(relPath string) (string, error) {
	local := filepath.FromSlash(relPath)
	if !filepath.IsLocal(local) {
		return "", apperror.BadRequest(fmt.Sprintf("path %q escapes storage root", relPath), domain.ErrInvalidKey)
	}
	return filepath.Join(s.basePath, local), nil
}

// mkdirAttempts bounds retries when a concurrent Remove prunes a parent
// between MkdirAll's existence check and its final Mkdir.
const mkdirAttempts = 5

// EnsureDir is safe to call concurrently for the same directory and
// alongside Remove pruning the same shards.
func (s *FileSystem) EnsureDir(_ context.Context, relDir string) error {
	dir, err := s.resolve(relDir)
	if err != nil {
		return err
	}
	return s.mkdirAll(dir, relDir)
}

func (s *FileSystem) mkdirAll(dir, relDir string) error {
	var err error
	for range mkdirAttempts {
		if err = os.MkdirAll(dir, 0o755); !errors.Is(err, fs.ErrNotExist) {
			break
		}
	}
	if err != nil {
		return apperror.Storage("mkdir", relDir, err)
	}
	return nil
}

// Write stages data in a temp file next to the destination and renames it
// into place, so readers never observe a partial derivative. The directory
// is only created when it is missing; callers normally EnsureDir first.
func (s *FileSystem) Write(_ context.Context, relPath string, data []byte, _ string) error {
	dst, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	dir, relDir := filepath.Dir(dst), path.Dir(relPath)

	tmp, err := os.CreateTemp(dir, ".derivative-*")
	for attempt := 1; errors.Is(err, fs.ErrNotExist) && attempt < mkdirAttempts; attempt++ {
		// missing, or pruned by a concurrent Remove
		if err := s.mkdirAll(dir, relDir); err != nil {
			return err
		}
		tmp, err = os.CreateTemp(dir, ".derivative-*")
	}
	if err != nil {
		return apperror.Storage("create", relPath, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperror.Storage("write", relPath, err)
	}
	if err := tmp.Close(); err != nil {
		return apperror.Storage("close", relPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return apperror.Storage("chmod", relPath, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return apperror.Storage("rename", relPath, err)
	}

	tmpPath = ""
	return nil
}

// Remove deletes one derivative and prunes shard directories it leaves
// empty. A missing file is reported with an error matching fs.ErrNotExist.
func (s *FileSystem) Remove(_ context.Context, relPath string) error {
	target, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		return apperror.Storage("remove", relPath, err)
	}
	s.pruneEmptyDirs(filepath.Dir(target))
	return nil
}

func (s *FileSystem) pruneEmptyDirs(dir string) {
	for dir != s.basePath && len(dir) > len(s.basePath) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
