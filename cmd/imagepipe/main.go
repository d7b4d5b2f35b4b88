package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/imagepipe/internal/adapter/storage"
	"github.com/marcos-nsantos/imagepipe/internal/domain/valueobject"
	"github.com/marcos-nsantos/imagepipe/internal/infrastructure/config"
	"github.com/marcos-nsantos/imagepipe/internal/infrastructure/observability"
	infra "github.com/marcos-nsantos/imagepipe/internal/infrastructure/storage"
	"github.com/marcos-nsantos/imagepipe/internal/usecase/derivative"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "imagepipe",
		Usage: "generate and delete image derivatives",
		Commands: []*cli.Command{
			processCommand(),
			entityCommand(),
			previewCommand(),
			deleteCommand(),
			deletePreviewCommand(),
			addressCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	svc      *derivative.Service
}

func bootstrap() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	p := cfg.Pipeline
	transcoder := infra.NewImageTranscoder(infra.TranscoderConfig{
		MaxSourceBytes:  p.MaxSourceBytes,
		MaxSourcePixels: p.MaxSourcePixels,
		JPEGQuality:     p.JPEGQuality,
		WebPQuality:     p.WebPQuality,
		AVIFQuality:     p.AVIFQuality,
	})

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	svc := derivative.NewService(backend, transcoder, logger, metrics, derivative.Options{
		BaseURL:        cfg.Storage.BaseURL,
		Workers:        p.Workers,
		MaxSize:        valueobject.NewDimensions(p.MaxWidth, p.MaxHeight),
		PreviewSize:    p.PreviewSize,
		PreviewQuality: p.PreviewQuality,
	})

	return &session{cfg: cfg, logger: logger, registry: registry, svc: svc}, nil
}

func newBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		s3Storage, err := infra.NewS3Storage(cfg.S3, cfg.Storage.BasePath)
		if err != nil {
			return nil, fmt.Errorf("creating s3 storage: %w", err)
		}
		return s3Storage, nil
	default:
		return infra.NewFileSystem(cfg.Storage.BasePath), nil
	}
}

// close pushes the run's metrics when a Pushgateway is configured.
func (r *session) close() {
	defer r.logger.Sync()

	url := r.cfg.Metrics.PushgatewayURL
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.Push(ctx, url, r.cfg.Metrics.Job, r.registry); err != nil {
		r.logger.Warn("failed to push metrics", zap.Error(err))
	}
}

// withSession adapts a command body that needs the configured service.
func withSession(fn func(c *cli.Context, r *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := bootstrap()
		if err != nil {
			return cli.Exit(err, exitFailure)
		}
		defer r.close()
		return fn(c, r)
	}
}
