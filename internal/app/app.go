// Package app wires configuration into the running services. It is shared
// by the HTTP server and the command-line tools.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ndisfraud/internal/agent"
	"ndisfraud/internal/config"
	"ndisfraud/internal/domain"
	"ndisfraud/internal/ingest"
	"ndisfraud/internal/llm"
	"ndisfraud/internal/llm/claude"
	"ndisfraud/internal/llm/gemini"
	"ndisfraud/internal/llm/openai"
	"ndisfraud/internal/port"
	"ndisfraud/internal/reference"
	"ndisfraud/internal/service"
	s3storage "ndisfraud/internal/storage/s3"
	"ndisfraud/internal/tools"
)

var registerOnce sync.Once

// RegisterProviders registers the built-in LLM provider factories.
func RegisterProviders() {
	registerOnce.Do(func() {
		llm.RegisterProvider("openai", func(cfg *config.LLMProviderConfig, maxRounds int) (port.LLMRuntime, error) {
			return openai.NewRuntime(cfg, maxRounds), nil
		})
		llm.RegisterProvider("claude", func(cfg *config.LLMProviderConfig, maxRounds int) (port.LLMRuntime, error) {
			return claude.NewRuntime(cfg, maxRounds), nil
		})
		llm.RegisterProvider("gemini", func(cfg *config.LLMProviderConfig, maxRounds int) (port.LLMRuntime, error) {
			return gemini.NewRuntime(cfg, maxRounds)
		})
	})
}

// App holds the fully wired services.
type App struct {
	Verifier *tools.Verifier
	Analysis service.AnalysisService
}

// LoadVerifier loads both schedules and returns a Verifier over them.
// Object storage is only initialised when a schedule location is an s3:// URI.
func LoadVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*tools.Verifier, error) {
	var storage port.ObjectStorage
	if isS3(cfg.Reference.ActivePath) || isS3(cfg.Reference.InactivePath) {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		storage = s3Client
	}

	start := time.Now()
	loader := reference.NewLoader(storage, reference.ColumnsFromConfig(&cfg.Reference), cfg.Reference.Sheet)
	schedules, err := loader.LoadSchedules(ctx, cfg.Reference.ActivePath, cfg.Reference.InactivePath)
	if err != nil {
		return nil, err
	}
	logger.Info("reference schedules loaded",
		zap.String("active_path", cfg.Reference.ActivePath),
		zap.Int("active_rows", schedules.Active.Len()),
		zap.String("inactive_path", cfg.Reference.InactivePath),
		zap.Int("inactive_rows", schedules.Inactive.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return tools.NewVerifier(schedules), nil
}

// NewLLMRuntime builds the configured provider chain. More than one provider
// is wrapped in a FallbackRuntime.
func NewLLMRuntime(cfg *config.LLMConfig, logger *zap.Logger) (port.LLMRuntime, error) {
	RegisterProviders()

	providers := cfg.Providers()
	if len(providers) == 0 {
		return nil, fmt.Errorf("no llm provider configured")
	}

	runtimes := make([]port.LLMRuntime, 0, len(providers))
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		rt, err := llm.NewRuntime(p, cfg.MaxToolRounds)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s runtime: %w", p.Provider, err)
		}
		runtimes = append(runtimes, rt)
		names = append(names, p.Provider)
	}
	if len(runtimes) == 1 {
		logger.Info("llm runtime configured", zap.String("provider", names[0]))
		return runtimes[0], nil
	}
	logger.Info("llm fallback chain configured", zap.Strings("providers", names))
	return llm.NewFallbackRuntime(runtimes, names, logger), nil
}

// Build loads the schedules, the LLM runtime, and every agent.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	defaultAgent := domain.AgentKind(strings.TrimSpace(cfg.Agent.Default))
	if !defaultAgent.Valid() {
		return nil, fmt.Errorf("%w: default agent %q", domain.ErrUnknownAgent, cfg.Agent.Default)
	}

	verifier, err := LoadVerifier(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	runtime, err := NewLLMRuntime(&cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	agents := make([]agent.Agent, 0, len(domain.AgentKinds))
	for _, kind := range domain.AgentKinds {
		a, err := agent.New(kind, runtime, verifier)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s agent: %w", kind, err)
		}
		agents = append(agents, a)
	}

	parser := ingest.NewParser(ingest.Options{
		PreviewRows: cfg.Ingest.PreviewRows,
		TextLimit:   cfg.Ingest.TextLimit,
	})

	return &App{
		Verifier: verifier,
		Analysis: service.NewAnalysisService(agents, parser, &cfg.Ingest, defaultAgent, logger),
	}, nil
}

func isS3(location string) bool {
	_, _, ok := s3storage.ParseURI(location)
	return ok
}
