package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/backend"
	"github.com/mindcare-ai/mindcare/internal/config"
	"github.com/mindcare-ai/mindcare/internal/llm"
	"github.com/mindcare-ai/mindcare/internal/logging"
	"github.com/mindcare-ai/mindcare/internal/store"
)

// Backend request timeouts. Journal uploads carry a whole video.
const (
	serviceTimeout = 30 * time.Second
	journalTimeout = 5 * time.Minute
)

// runtime bundles what every command needs: configuration, the file
// logger and the request log.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// openRuntime loads configuration, starts logging and opens the store.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfgPath, err := resolveConfigPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.Logging.File
	if logPath == "" {
		if logPath, err = logging.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	logger, err := logging.NewOrNop(logPath, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger.Debug("runtime ready",
		zap.String("config", cfgPath),
		zap.String("db", dbPath),
		zap.String("prediction_url", cfg.Services.PredictionURL))
	return &runtime{cfg: cfg, logger: logger, store: st}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("close store", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// httpClient returns a request-logging client for one backend service.
func (r *runtime) httpClient(service string, timeout time.Duration) *http.Client {
	return backend.NewHTTPClient(service, timeout, r.store.EventRepo(), r.logger)
}

// provider builds the LLM provider, or returns nil when no API key can be
// found. The assistant is optional, so that is not an error.
func (r *runtime) provider(ctx context.Context) (llm.Provider, error) {
	cfg := r.cfg.LLM
	if !cfg.Discover() {
		r.logger.Info("no LLM provider configured")
		return nil, nil
	}
	p, err := llm.NewProvider(ctx, cfg, r.store.EventRepo(), r.logger.Named("llm"))
	if err != nil {
		return nil, err
	}
	r.cfg.LLM = cfg
	return p, nil
}
