package openai

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
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o-mini"
)

// Runtime implements port.LLMRuntime using the OpenAI Chat Completions API
// with function calling. Any OpenAI-compatible endpoint works via base_url.
type Runtime struct {
	apiKey    string
	model     string
	endpoint  string
	maxRounds int
	caller    *llm.HTTPCaller
}

// NewRuntime creates an OpenAI runtime from a provider config.
func NewRuntime(cfg *config.LLMProviderConfig, maxRounds int) *Runtime {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
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
		caller:    llm.NewHTTPCaller("openai", cfg.TimeoutSecs, cfg.MaxRetries),
	}
}

func (r *Runtime) Invoke(ctx context.Context, input port.InvokeInput) (*port.InvokeOutput, error) {
	messages := []map[string]interface{}{
		{"role": "system", "content": llm.SchemaInstructions(input.Instructions, input.ResponseSchema)},
		{"role": "user", "content": input.UserContent},
	}
	headers := map[string]string{"Authorization": "Bearer " + r.apiKey}
	var invocations []domain.ToolInvocation

	for round := 1; round <= r.maxRounds; round++ {
		reqBody := map[string]interface{}{
			"model":    r.model,
			"messages": messages,
			"response_format": map[string]interface{}{
				"type": "json_object",
			},
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
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("empty response from API: no choices")
		}
		choice := resp.Choices[0]
		if choice.FinishReason == "length" {
			return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
		}

		if len(choice.Message.ToolCalls) > 0 {
			assistant := map[string]interface{}{
				"role":       "assistant",
				"tool_calls": choice.Message.ToolCalls,
			}
			if choice.Message.Content != "" {
				assistant["content"] = choice.Message.Content
			}
			messages = append(messages, assistant)

			for _, tc := range choice.Message.ToolCalls {
				inv := runToolCall(ctx, input.Tools, tc)
				invocations = append(invocations, inv)
				messages = append(messages, map[string]interface{}{
					"role":         "tool",
					"tool_call_id": tc.ID,
					"content":      inv.Result,
				})
			}
			continue
		}

		content, err := llm.ExtractJSON(choice.Message.Content)
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

func runToolCall(ctx context.Context, tools []port.Tool, tc toolCall) domain.ToolInvocation {
	args, err := llm.DecodeArguments(tc.Function.Arguments)
	if err != nil {
		return domain.ToolInvocation{Name: tc.Function.Name, Result: "error: " + err.Error(), IsError: true}
	}
	return llm.RunTool(ctx, tools, tc.Function.Name, args)
}

func toolDefinitions(tools []port.Tool) []map[string]interface{} {
	defs := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	return defs
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
