// Package bootstrap provides dependency initialization for the API server.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/videoforge/videoforge-api/internal/config"
	"github.com/videoforge/videoforge-api/internal/gemini"
	"github.com/videoforge/videoforge-api/internal/heygen"
	"github.com/videoforge/videoforge-api/internal/job"
	"github.com/videoforge/videoforge-api/internal/luma"
	"github.com/videoforge/videoforge-api/internal/provider"
	"github.com/videoforge/videoforge-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	GenerationService *job.GenerationService
	Registry          *provider.Registry
}

// NewDependencies creates and initializes all dependencies for the
// application. Providers whose credential is missing are registered
// unavailable so the health endpoint can report them and submissions fail
// fast with an auth error instead of a doomed network call.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	registry := provider.NewRegistry()

	var lumaClient luma.Client
	if cfg.LumaAPIKey != "" {
		c, err := luma.NewClient(luma.WithAPIKey(cfg.LumaAPIKey))
		if err != nil {
			return nil, fmt.Errorf("create Luma client: %w", err)
		}
		lumaClient = c
	}
	registry.Register(provider.NewLumaAdapter(lumaClient))

	var geminiClient gemini.Client
	if cfg.GeminiAPIKey != "" {
		c, err := gemini.NewClient(gemini.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("create Gemini client: %w", err)
		}
		geminiClient = c
	}
	registry.Register(provider.NewGeminiAdapter(geminiClient))

	var heygenClient heygen.Client
	if cfg.HeyGenAPIKey != "" {
		c, err := heygen.NewClient(heygen.WithAPIKey(cfg.HeyGenAPIKey))
		if err != nil {
			return nil, fmt.Errorf("create HeyGen client: %w", err)
		}
		heygenClient = c
	}
	registry.Register(provider.NewHeyGenAdapter(heygenClient))

	registry.Register(provider.NewDemo())

	// One-hop fallback, applied to every other provider when configured.
	if cfg.ProviderFallback != "" {
		for _, name := range registry.Names() {
			if name == cfg.ProviderFallback {
				continue
			}
			if err := registry.SetFallback(name, cfg.ProviderFallback); err != nil {
				return nil, fmt.Errorf("configure fallback: %w", err)
			}
		}
		logger.Info("provider fallback configured",
			slog.String("fallback", cfg.ProviderFallback),
		)
	}

	store := job.NewMemoryStore()

	opts := []job.ServiceOption{
		job.WithInitialDelay(cfg.PollInitialDelay),
		job.WithPollInterval(cfg.PollInterval),
		job.WithMaxAttempts(cfg.PollMaxAttempts),
	}

	if cfg.ArchiveEnabled() {
		archiveStorage, err := initArchiveStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, job.WithArchiver(storage.NewArchiver(archiveStorage)))
	}

	svc := job.NewGenerationService(store, registry, logger, opts...)

	return &Dependencies{
		GenerationService: svc,
		Registry:          registry,
	}, nil
}

// initArchiveStorage creates the archive storage backend based on
// configuration, preferring S3 when it is fully configured.
func initArchiveStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Storage(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 archive storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local archive storage configured",
		slog.String("dir", localStore.Dir()),
	)
	return localStore, nil
}
