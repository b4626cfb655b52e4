package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ndisfraud/internal/agent"
	"ndisfraud/internal/config"
	"ndisfraud/internal/domain"
	"ndisfraud/internal/ingest"
)

// AnalyzeInput is the DTO for analysing an uploaded file.
type AnalyzeInput struct {
	Filename string
	Data     []byte
	Agent    domain.AgentKind // empty selects the configured default
}

// AnalysisService runs invoices through an agent strategy.
type AnalysisService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.Analysis, error)
	AnalyzeText(ctx context.Context, content string, kind domain.AgentKind) (*domain.Analysis, error)
	Agents() []agent.Descriptor
}

type analysisService struct {
	agents       map[domain.AgentKind]agent.Agent
	parser       *ingest.Parser
	maxBytes     int64
	defaultAgent domain.AgentKind
	logger       *zap.Logger
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	agents []agent.Agent,
	parser *ingest.Parser,
	ingestCfg *config.IngestConfig,
	defaultAgent domain.AgentKind,
	logger *zap.Logger,
) AnalysisService {
	byKind := make(map[domain.AgentKind]agent.Agent, len(agents))
	for _, a := range agents {
		byKind[a.Kind()] = a
	}
	return &analysisService{
		agents:       byKind,
		parser:       parser,
		maxBytes:     ingestCfg.MaxFileSizeMB * 1024 * 1024,
		defaultAgent: defaultAgent,
		logger:       logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, input AnalyzeInput) (*domain.Analysis, error) {
	a, err := s.resolveAgent(input.Agent)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	doc, err := s.parser.Parse(input.Filename, input.Data)
	if err != nil {
		return nil, err
	}
	if doc.Type == domain.DocumentTypeUnknown {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, input.Filename)
	}
	if ingest.IsEmpty(doc) {
		return nil, domain.ErrEmptyDocument
	}

	content, err := ingest.Content(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("analysing document",
		zap.String("filename", input.Filename),
		zap.String("type", string(doc.Type)),
		zap.Int("bytes", len(input.Data)),
		zap.String("agent", string(a.Kind())))

	analysis, err := s.run(ctx, a, content)
	if err != nil {
		return nil, err
	}
	analysis.Document = doc
	return analysis, nil
}

func (s *analysisService) AnalyzeText(ctx context.Context, content string, kind domain.AgentKind) (*domain.Analysis, error) {
	a, err := s.resolveAgent(kind)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if ingest.IsEmpty(&domain.ParsedDocument{Data: content}) {
		return nil, domain.ErrEmptyDocument
	}
	return s.run(ctx, a, content)
}

func (s *analysisService) Agents() []agent.Descriptor {
	var out []agent.Descriptor
	for _, d := range agent.Catalog() {
		if _, ok := s.agents[d.Kind]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (s *analysisService) resolveAgent(kind domain.AgentKind) (agent.Agent, error) {
	if kind == "" {
		kind = s.defaultAgent
	}
	a, ok := s.agents[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgent, kind)
	}
	return a, nil
}

func (s *analysisService) run(ctx context.Context, a agent.Agent, content string) (*domain.Analysis, error) {
	id := uuid.New()
	start := time.Now()

	res, err := a.Process(ctx, content)
	elapsed := time.Since(start)
	if err != nil {
		level := s.logger.Error
		if errors.Is(err, context.Canceled) {
			level = s.logger.Info
		}
		level("analysis failed",
			zap.String("analysis_id", id.String()),
			zap.String("agent", string(a.Kind())),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("analysis complete",
		zap.String("analysis_id", id.String()),
		zap.String("agent", string(a.Kind())),
		zap.String("model", res.Model),
		zap.Bool("is_valid", res.Response.IsValid),
		zap.Int("tool_calls", len(res.ToolCalls)),
		zap.Duration("elapsed", elapsed))

	toolCalls := res.ToolCalls
	if toolCalls == nil {
		toolCalls = []domain.ToolInvocation{}
	}
	return &domain.Analysis{
		ID:        id,
		Agent:     a.Kind(),
		Model:     res.Model,
		Response:  res.Response,
		ToolCalls: toolCalls,
		Duration:  elapsed,
	}, nil
}
