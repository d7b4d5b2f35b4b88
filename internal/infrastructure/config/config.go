package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
)

type Config struct {
	Storage  StorageConfig
	S3       S3Config
	Pipeline PipelineConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" default:"filesystem"`
	BasePath string `envconfig:"STORAGE_BASE_PATH" default:"./media"`
	BaseURL  string `envconfig:"STORAGE_BASE_URL" required:"true"`
}

type S3Config struct {
	Endpoint        string `envconfig:"S3_ENDPOINT"`
	Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	Bucket          string `envconfig:"S3_BUCKET"`
	AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `envconfig:"S3_USE_PATH_STYLE" default:"false"`
}

type PipelineConfig struct {
	Workers         int   `envconfig:"PIPELINE_WORKERS" default:"4"`
	MaxSourceBytes  int64 `envconfig:"PIPELINE_MAX_SOURCE_BYTES" default:"26214400"`
	MaxSourcePixels int64 `envconfig:"PIPELINE_MAX_SOURCE_PIXELS" default:"50000000"`
	MaxWidth        int   `envconfig:"PIPELINE_MAX_WIDTH" default:"2048"`
	MaxHeight       int   `envconfig:"PIPELINE_MAX_HEIGHT" default:"2048"`
	JPEGQuality     int   `envconfig:"PIPELINE_JPEG_QUALITY" default:"82"`
	WebPQuality     int   `envconfig:"PIPELINE_WEBP_QUALITY" default:"60"`
	AVIFQuality     int   `envconfig:"PIPELINE_AVIF_QUALITY" default:"55"`
	PreviewSize     int   `envconfig:"PIPELINE_PREVIEW_SIZE" default:"400"`
	PreviewQuality  int   `envconfig:"PIPELINE_PREVIEW_QUALITY" default:"40"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type MetricsConfig struct {
	PushgatewayURL string `envconfig:"METRICS_PUSHGATEWAY_URL"`
	Job            string `envconfig:"METRICS_JOB" default:"imagepipe"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Storage.BaseURL == "" {
		errs = append(errs, errors.New("STORAGE_BASE_URL is required"))
	}

	switch c.Storage.Backend {
	case BackendFilesystem:
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	p := c.Pipeline
	if p.Workers < 1 {
		errs = append(errs, errors.New("PIPELINE_WORKERS must be positive"))
	}
	if p.MaxSourceBytes < 1 || p.MaxSourcePixels < 1 {
		errs = append(errs, errors.New("source limits must be positive"))
	}
	if p.MaxWidth < 0 || p.MaxHeight < 0 || p.PreviewSize < 1 {
		errs = append(errs, errors.New("dimensions must not be negative and preview size must be positive"))
	}
	for name, q := range map[string]int{
		"PIPELINE_JPEG_QUALITY":    p.JPEGQuality,
		"PIPELINE_WEBP_QUALITY":    p.WebPQuality,
		"PIPELINE_AVIF_QUALITY":    p.AVIFQuality,
		"PIPELINE_PREVIEW_QUALITY": p.PreviewQuality,
	} {
		if q < 1 || q > 100 {
			errs = append(errs, fmt.Errorf("%s must be within 1..100, got %d", name, q))
		}
	}
	if p.PreviewQuality >= p.AVIFQuality {
		errs = append(errs, errors.New("PIPELINE_PREVIEW_QUALITY must be lower than PIPELINE_AVIF_QUALITY"))
	}

	return errors.Join(errs...)
}
