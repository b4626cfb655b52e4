package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndisfraud/internal/config"
	"ndisfraud/internal/llm"
	"ndisfraud/internal/llm/claude"
	"ndisfraud/internal/port"
)

func newTestRuntime(serverURL string, maxRounds int) *claude.Runtime {
	cfg := &config.LLMProviderConfig{
		Provider:     "claude",
		APIKey:       "test-anthropic-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewRuntimeWithEndpoint(cfg, maxRounds, serverURL)
}

func textResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"content":     []map[string]interface{}{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	}
}

func pricingTool(calls *int32) port.Tool {
	return port.Tool{
		Name:        "check_nids_item_pricing",
		Description: "Check pricing",
		Parameters:  map[string]interface{}{"type": "object"},
		Call: func(_ context.Context, args map[string]interface{}) (string, error) {
			atomic.AddInt32(calls, 1)
			if args["price"] != json.Number("78.81") {
				return "", errors.New("unexpected price")
			}
			return "Price $78.81 for item 01_002_0107_1_1 matches the expected standard price of $78.81.", nil
		},
	}
}

func TestClaudeRuntime_Invoke_NoTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-anthropic-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, float64(4096), reqBody["max_tokens"])
		assert.Contains(t, reqBody["system"], "Check the invoice")
		assert.NotContains(t, reqBody, "tools")

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "invoice text", messages[0].(map[string]interface{})["content"])

		_ = json.NewEncoder(w).Encode(textResponse(`{"is_valid":false,"reason":"duplicate line"}`))
	}))
	defer server.Close()

	rt := newTestRuntime(server.URL, 5)
	out, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Check the invoice.",
		UserContent:  "invoice text",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":false,"reason":"duplicate line"}`, string(out.Content))
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
	assert.Equal(t, 1, out.Rounds)
}

func TestClaudeRuntime_Invoke_ToolLoop(t *testing.T) {
	var requests, toolCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		tools := reqBody["tools"].([]interface{})
		require.Len(t, tools, 1)
		tool := tools[0].(map[string]interface{})
		assert.Equal(t, "check_nids_item_pricing", tool["name"])
		assert.NotNil(t, tool["input_schema"])

		if atomic.AddInt32(&requests, 1) == 1 {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"content": []map[string]interface{}{
					{"type": "text", "text": "Let me check the price."},
					{
						"type":  "tool_use",
						"id":    "toolu_01",
						"name":  "check_nids_item_pricing",
						"input": map[string]interface{}{"item_code": "01_002_0107_1_1", "price": 78.81},
					},
				},
				"stop_reason": "tool_use",
			})
			return
		}

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 3)
		assistant := messages[1].(map[string]interface{})
		assert.Equal(t, "assistant", assistant["role"])
		assert.Len(t, assistant["content"], 2)

		user := messages[2].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		results := user["content"].([]interface{})
		require.Len(t, results, 1)
		result := results[0].(map[string]interface{})
		assert.Equal(t, "tool_result", result["type"])
		assert.Equal(t, "toolu_01", result["tool_use_id"])
		assert.Equal(t, false, result["is_error"])
		assert.Contains(t, result["content"], "matches")

		_ = json.NewEncoder(w).Encode(textResponse(`{"is_valid":true,"reason":"prices match"}`))
	}))
	defer server.Close()

	rt := newTestRuntime(server.URL, 5)
	out, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Verify pricing.",
		UserContent:  "01_002_0107_1_1 $78.81",
		Tools:        []port.Tool{pricingTool(&toolCalls)},
		ResponseSchema: map[string]interface{}{
			"type": "object",
		},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"reason":"prices match"}`, string(out.Content))
	assert.Equal(t, 2, out.Rounds)
	assert.Equal(t, int32(1), atomic.LoadInt32(&toolCalls))
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "check_nids_item_pricing", out.ToolCalls[0].Name)
	assert.False(t, out.ToolCalls[0].IsError)
}

func TestClaudeRuntime_Invoke_UnknownToolReportedAsError(t *testing.T) {
	var requests, toolCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		if atomic.AddInt32(&requests, 1) == 1 {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"content": []map[string]interface{}{
					{"type": "tool_use", "id": "toolu_02", "name": "approve_invoice", "input": map[string]interface{}{}},
				},
				"stop_reason": "tool_use",
			})
			return
		}
		messages := reqBody["messages"].([]interface{})
		results := messages[2].(map[string]interface{})["content"].([]interface{})
		assert.Equal(t, true, results[0].(map[string]interface{})["is_error"])

		_ = json.NewEncoder(w).Encode(textResponse(`{"is_valid":false,"reason":"unverified"}`))
	}))
	defer server.Close()

	rt := newTestRuntime(server.URL, 5)
	out, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Verify pricing.",
		UserContent:  "invoice",
		Tools:        []port.Tool{pricingTool(&toolCalls)},
	})

	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 1)
	assert.True(t, out.ToolCalls[0].IsError)
	assert.Equal(t, int32(0), atomic.LoadInt32(&toolCalls))
}

func TestClaudeRuntime_Invoke_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	rt := newTestRuntime(server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
}

func TestClaudeRuntime_Invoke_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": `{"is_valid":`}},
			"stop_reason": "max_tokens",
		})
	}))
	defer server.Close()

	rt := newTestRuntime(server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestClaudeRuntime_Invoke_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	rt := newTestRuntime(server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
