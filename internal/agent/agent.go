package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/port"
	"ndisfraud/internal/tools"
)

// Agent produces a fraud verdict for one document's content.
type Agent interface {
	Kind() domain.AgentKind
	Process(ctx context.Context, content string) (*Result, error)
}

// Result is an agent's verdict plus the tool calls the model made to reach it.
type Result struct {
	Response  domain.ProcessResponse
	ToolCalls []domain.ToolInvocation
	Model     string
}

// ToolProvider supplies LLM-callable tools by name. *tools.Verifier implements it.
type ToolProvider interface {
	Definitions(names ...string) ([]port.Tool, error)
}

type strategy struct {
	kind         domain.AgentKind
	instructions string
	userPrompt   string
	oldPricing   bool
	tools        []port.Tool
	runtime      port.LLMRuntime
}

// New builds the agent for kind. provider may be nil only for the basic agent.
func New(kind domain.AgentKind, runtime port.LLMRuntime, provider ToolProvider) (Agent, error) {
	s := &strategy{kind: kind, runtime: runtime}

	var toolNames []string
	switch kind {
	case domain.AgentBasic:
		s.instructions = basicInstructions
		s.userPrompt = basicUserPrompt
	case domain.AgentLineVerifier:
		s.instructions = lineVerifierInstructions
		s.userPrompt = lineVerifierUserPrompt
		toolNames = []string{tools.ToolItemExists}
	case domain.AgentPricingVerifier:
		s.instructions = pricingVerifierInstructions
		s.userPrompt = pricingVerifierUserPrompt
		s.oldPricing = true
		toolNames = tools.AllTools
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgent, kind)
	}

	if len(toolNames) > 0 {
		if provider == nil {
			return nil, fmt.Errorf("%s agent requires verification tools", kind)
		}
		defs, err := provider.Definitions(toolNames...)
		if err != nil {
			return nil, fmt.Errorf("building %s tools: %w", kind, err)
		}
		s.tools = defs
	}
	return s, nil
}

func (s *strategy) Kind() domain.AgentKind { return s.kind }

func (s *strategy) Process(ctx context.Context, content string) (*Result, error) {
	out, err := s.runtime.Invoke(ctx, port.InvokeInput{
		Instructions:   s.instructions,
		UserContent:    s.userPrompt + content,
		Tools:          s.tools,
		ResponseSchema: verdictSchema(s.oldPricing),
	})
	if err != nil {
		return nil, fmt.Errorf("%s agent: %w", s.kind, err)
	}

	resp, err := decodeVerdict(out.Content, s.oldPricing)
	if err != nil {
		return nil, fmt.Errorf("%s agent: %w", s.kind, err)
	}
	return &Result{Response: resp, ToolCalls: out.ToolCalls, Model: out.ModelUsed}, nil
}

// verdictSchema is the JSON schema the model's final answer must satisfy.
func verdictSchema(oldPricing bool) map[string]interface{} {
	props := map[string]interface{}{
		"is_valid": map[string]interface{}{
			"type":        "boolean",
			"description": "true if the invoice appears legitimate, false if it is suspicious or fraudulent",
		},
		"reason": map[string]interface{}{
			"type":        "string",
			"description": "concise explanation referencing specific item codes and findings",
		},
	}
	required := []string{"is_valid", "reason"}
	if oldPricing {
		props["is_using_old_pricing"] = map[string]interface{}{
			"type":        "boolean",
			"description": "true if any line item is billed from the inactive (superseded) price schedule",
		}
		required = append(required, "is_using_old_pricing")
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func decodeVerdict(raw json.RawMessage, oldPricing bool) (domain.ProcessResponse, error) {
	var v struct {
		IsValid           *bool   `json:"is_valid"`
		Reason            *string `json:"reason"`
		IsUsingOldPricing *bool   `json:"is_using_old_pricing"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.ProcessResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidVerdict, err)
	}
	if v.IsValid == nil {
		return domain.ProcessResponse{}, fmt.Errorf("%w: missing is_valid", domain.ErrInvalidVerdict)
	}
	if v.Reason == nil || strings.TrimSpace(*v.Reason) == "" {
		return domain.ProcessResponse{}, fmt.Errorf("%w: missing reason", domain.ErrInvalidVerdict)
	}

	resp := domain.ProcessResponse{IsValid: *v.IsValid, Reason: strings.TrimSpace(*v.Reason)}
	if oldPricing {
		if v.IsUsingOldPricing == nil {
			return domain.ProcessResponse{}, fmt.Errorf("%w: missing is_using_old_pricing", domain.ErrInvalidVerdict)
		}
		resp.IsUsingOldPricing = v.IsUsingOldPricing
	}
	return resp, nil
}
