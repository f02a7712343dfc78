package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxlab/interviewd/internal/api"
	"github.com/voxlab/interviewd/internal/archive"
	"github.com/voxlab/interviewd/internal/config"
	"github.com/voxlab/interviewd/internal/domain"
	"github.com/voxlab/interviewd/internal/engine"
	"github.com/voxlab/interviewd/internal/extract"
	"github.com/voxlab/interviewd/internal/llm"
	"github.com/voxlab/interviewd/internal/logger"
	"github.com/voxlab/interviewd/internal/policy"
	"github.com/voxlab/interviewd/internal/prompt"
	"github.com/voxlab/interviewd/internal/store"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err := logger.New(jsonLog || cfg.Log.JSON, debug || cfg.Log.Debug)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		return serve(cmd.Context(), cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	provider, err := llm.NewProvider(ctx, llm.Config{
		Name:        cfg.Provider.Name,
		APIKey:      cfg.Provider.APIKey,
		BaseURL:     cfg.Provider.BaseURL,
		Model:       cfg.Provider.Model,
		Temperature: cfg.Provider.Temperature,
		Timeout:     cfg.Provider.Timeout,
	})
	if err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}

	extractor, err := newExtractor(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize extractor: %w", err)
	}

	policyContent := policy.DefaultPolicy
	if cfg.Policy.File != "" {
		raw, err := os.ReadFile(cfg.Policy.File)
		if err != nil {
			return fmt.Errorf("read policy file: %w", err)
		}
		policyContent = string(raw)
	}
	admission, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		return fmt.Errorf("initialize admission policy: %w", err)
	}

	var (
		transcripts   *archive.SQLiteArchive
		archiveWriter engine.Archiver
		archiveReader api.ArchiveReader
	)
	if cfg.Archive.Enabled {
		transcripts, err = archive.NewSQLiteArchive(cfg.Archive.DSN)
		if err != nil {
			return fmt.Errorf("initialize archive: %w", err)
		}
		defer transcripts.Close()
		archiveWriter = transcripts
		archiveReader = transcripts
	}

	prompts := prompt.NewBuilder(prompt.Options{
		QuestionMin:     cfg.Interview.QuestionMin,
		QuestionMax:     cfg.Interview.QuestionMax,
		ScoreMin:        cfg.Interview.ScoreMin,
		ScoreMax:        cfg.Interview.ScoreMax,
		Tone:            cfg.Interview.Tone,
		ResumeCharLimit: cfg.Interview.ResumeCharLimit,
	})

	// The memory store's eviction callback feeds the engine, which in
	// turn needs the store; the closure resolves the cycle. Eviction
	// cannot fire before the engine exists (TTL is never that short).
	var eng *engine.Engine
	sessions, err := newSessionStore(cfg, func(sess *domain.Session) {
		if eng != nil {
			eng.HandleEvicted(sess)
		}
	})
	if err != nil {
		return fmt.Errorf("initialize session store: %w", err)
	}
	defer sessions.Close()

	eng = engine.New(sessions, provider, prompts, admission, archiveWriter,
		engine.Config{MinResumeChars: cfg.Policy.MinResumeChars}, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h := api.NewHandler(eng, extractor, archiveReader, log)
	h.RegisterRoutes(e)

	go func() {
		if err := e.Start(cfg.Listen); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("interview server started",
		zap.String("listen", cfg.Listen),
		zap.String("provider", provider.Name()),
		zap.String("store", cfg.Store.Backend))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("failed to shut down gracefully", zap.Error(err))
	}
	return nil
}

func newExtractor(ctx context.Context, cfg *config.Config) (extract.Extractor, error) {
	switch cfg.Extractor.Backend {
	case "gemini":
		apiKey := cfg.Extractor.APIKey
		if apiKey == "" && cfg.Provider.Name == "gemini" {
			apiKey = cfg.Provider.APIKey
		}
		return extract.NewGemini(ctx, apiKey, cfg.Extractor.Model)
	case "plain", "":
		return extract.NewPlainText(), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", cfg.Extractor.Backend)
	}
}

func newSessionStore(cfg *config.Config, onEvict store.EvictFunc) (store.SessionStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(store.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			TTL:      cfg.Store.TTL,
		})
	case "memory", "":
		return store.NewMemoryStore(store.MemoryConfig{
			TTL:         cfg.Store.TTL,
			MaxSessions: cfg.Store.MaxSessions,
			OnEvict:     onEvict,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
