package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ndisfraud/internal/config"
	"ndisfraud/internal/domain"
	"ndisfraud/internal/llm"
	"ndisfraud/internal/port"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
	maxTokens    = 4096
)

// Runtime implements port.LLMRuntime using the Anthropic Messages API with tool use.
type Runtime struct {
	apiKey    string
	model     string
	endpoint  string
	maxRounds int
	caller    *llm.HTTPCaller
}

// NewRuntime creates a Claude runtime from a provider config.
func NewRuntime(cfg *config.LLMProviderConfig, maxRounds int) *Runtime {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	}
	return newRuntime(cfg, maxRounds, endpoint)
}

// NewRuntimeWithEndpoint creates a runtime pointing at a custom API endpoint (for testing).
func NewRuntimeWithEndpoint(cfg *config.LLMProviderConfig, maxRounds int, endpoint string) *Runtime {
	return newRuntime(cfg, maxRounds, endpoint)
}

func newRuntime(cfg *config.LLMProviderConfig, maxRounds int, endpoint string) *Runtime {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	if maxRounds <= 0 {
		maxRounds = 10
	}
	return &Runtime{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		maxRounds: maxRounds,
		caller:    llm.NewHTTPCaller("claude", cfg.TimeoutSecs, cfg.MaxRetries),
	}
}

func (r *Runtime) Invoke(ctx context.Context, input port.InvokeInput) (*port.InvokeOutput, error) {
	messages := []map[string]interface{}{
		{"role": "user", "content": input.UserContent},
	}
	headers := map[string]string{
		"x-api-key":         r.apiKey,
		"anthropic-version": apiVersion,
	}
	system := llm.SchemaInstructions(input.Instructions, input.ResponseSchema)
	var invocations []domain.ToolInvocation

	for round := 1; round <= r.maxRounds; round++ {
		reqBody := map[string]interface{}{
			"model":      r.model,
			"max_tokens": maxTokens,
			"system":     system,
			"messages":   messages,
		}
		if len(input.Tools) > 0 {
			reqBody["tools"] = toolDefinitions(input.Tools)
		}

		respBody, err := r.caller.PostJSON(ctx, r.endpoint, headers, reqBody)
		if err != nil {
			return nil, err
		}

		var resp apiResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, fmt.Errorf("unmarshaling response: %w", err)
		}
		if len(resp.Content) == 0 {
			return nil, fmt.Errorf("empty response from API")
		}
		if resp.StopReason == "max_tokens" {
			return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
		}

		var echoed []contentBlock
		var results []map[string]interface{}
		var text strings.Builder
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text.WriteString(block.Text)
				if block.Text != "" {
					echoed = append(echoed, block)
				}
			case "tool_use":
				echoed = append(echoed, block)
				inv := runToolUse(ctx, input.Tools, block)
				invocations = append(invocations, inv)
				results = append(results, map[string]interface{}{
					"type":        "tool_result",
					"tool_use_id": block.ID,
					"content":     inv.Result,
					"is_error":    inv.IsError,
				})
			}
		}

		if len(results) > 0 {
			messages = append(messages,
				map[string]interface{}{"role": "assistant", "content": echoed},
				map[string]interface{}{"role": "user", "content": results},
			)
			continue
		}

		content, err := llm.ExtractJSON(text.String())
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

func runToolUse(ctx context.Context, tools []port.Tool, block contentBlock) domain.ToolInvocation {
	args, err := llm.DecodeArguments(string(block.Input))
	if err != nil {
		return domain.ToolInvocation{Name: block.Name, Result: "error: " + err.Error(), IsError: true}
	}
	return llm.RunTool(ctx, tools, block.Name, args)
}

func toolDefinitions(tools []port.Tool) []map[string]interface{} {
	defs := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, map[string]interface{}{
			"name":         t.Name,
			"description":  t.Description,
			"input_schema": t.Parameters,
		})
	}
	return defs
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}
