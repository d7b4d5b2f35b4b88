package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	adapter "github.com/marcos-nsantos/imagepipe/internal/adapter/storage"
	"github.com/marcos-nsantos/imagepipe/internal/infrastructure/config"
	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

var _ adapter.Backend = (*S3Storage)(nil)

// S3Storage maps relative derivative paths to object keys under prefix.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Storage(cfg config.S3Config, prefix string) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	client := s3.New(s3.Options{}, opts...)

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: cleanPrefix(prefix),
	}, nil
}

func (s *S3Storage) key(relPath string) string {
	if s.prefix == "" {
		return relPath
	}
	return path.Join(s.prefix, relPath)
}

func (s *S3Storage) Write(ctx context.Context, relPath string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(relPath)),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return apperror.Storage("put", relPath, fmt.Errorf("uploading to s3: %w", err))
	}
	return nil
}

// Remove issues a HeadObject first because DeleteObject succeeds on
// missing keys and callers want to tell a miss from a deletion.
func (s *S3Storage) Remove(ctx context.Context, relPath string) error {
	key := s.key(relPath)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return apperror.Storage("remove", relPath, fs.ErrNotExist)
		}
		return apperror.Storage("head", relPath, fmt.Errorf("checking s3 object: %w", err))
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperror.Storage("remove", relPath, fmt.Errorf("deleting from s3: %w", err))
	}
	return nil
}

// EnsureDir is a no-op: object stores have no directories.
func (s *S3Storage) EnsureDir(context.Context, string) error {
	return nil
}

func cleanPrefix(prefix string) string {
	p := path.Clean("/" + prefix)
	if p == "/" {
		return ""
	}
	return p[1:]
}
