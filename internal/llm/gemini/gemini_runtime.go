package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"ndisfraud/internal/config"
	"ndisfraud/internal/domain"
	"ndisfraud/internal/llm"
	"ndisfraud/internal/port"
)

const defaultModel = "gemini-2.0-flash"

// Runtime implements port.LLMRuntime using the Gemini API through the genai SDK.
type Runtime struct {
	client    *genai.Client
	model     string
	maxRounds int
}

// NewRuntime creates a Gemini runtime from a provider config.
func NewRuntime(cfg *config.LLMProviderConfig, maxRounds int) (*Runtime, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	if maxRounds <= 0 {
		maxRounds = 10
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Runtime{client: client, model: model, maxRounds: maxRounds}, nil
}

func (r *Runtime) Invoke(ctx context.Context, input port.InvokeInput) (*port.InvokeOutput, error) {
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			llm.SchemaInstructions(input.Instructions, input.ResponseSchema), genai.RoleUser),
	}
	if len(input.Tools) > 0 {
		genCfg.Tools = []*genai.Tool{{FunctionDeclarations: functionDeclarations(input.Tools)}}
	} else {
		// JSON mode cannot be combined with function calling.
		genCfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromText(input.UserContent, genai.RoleUser)}
	var invocations []domain.ToolInvocation

	for round := 1; round <= r.maxRounds; round++ {
		resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, genCfg)
		if err != nil {
			return nil, classifyError(err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, fmt.Errorf("empty response from API: no candidates")
		}
		if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
			return nil, fmt.Errorf("output truncated (finish_reason: MAX_TOKENS): response exceeded output token limit")
		}

		if calls := resp.FunctionCalls(); len(calls) > 0 {
			contents = append(contents, resp.Candidates[0].Content)
			parts := make([]*genai.Part, 0, len(calls))
			for _, fc := range calls {
				args := fc.Args
				if args == nil {
					args = map[string]interface{}{}
				}
				inv := llm.RunTool(ctx, input.Tools, fc.Name, args)
				invocations = append(invocations, inv)
				parts = append(parts, genai.NewPartFromFunctionResponse(fc.Name, functionResponse(inv)))
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
			continue
		}

		content, err := llm.ExtractJSON(resp.Text())
		if err != nil {
			return nil, err
		}
		return &port.InvokeOutput{
			Content:   content,
			ModelUsed: r.model,
			ToolCalls: invocations,
			Rounds:    round,
		}, nil
	}

	return nil, fmt.Errorf("%w (%d)", llm.ErrMaxToolRounds, r.maxRounds)
}

func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return llm.NewRateLimitError("gemini", err, 0)
	}
	return fmt.Errorf("calling gemini API: %w", err)
}

func functionResponse(inv domain.ToolInvocation) map[string]interface{} {
	if inv.IsError {
		return map[string]interface{}{"error": inv.Result}
	}
	return map[string]interface{}{"output": inv.Result}
}

func functionDeclarations(tools []port.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toSchema(t.Parameters),
		})
	}
	return decls
}

// toSchema converts a JSON-schema map into the SDK's Schema type.
// Only the keywords the tool definitions use are carried over.
func toSchema(m map[string]interface{}) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	s.Enum = stringList(m["enum"])
	s.Required = stringList(m["required"])
	if props, ok := m["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				s.Properties[name] = toSchema(sub)
			}
		}
	}
	if items, ok := m["items"].(map[string]interface{}); ok {
		s.Items = toSchema(items)
	}
	return s
}

func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
