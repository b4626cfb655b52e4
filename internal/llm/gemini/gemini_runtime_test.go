package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndisfraud/internal/config"
	"ndisfraud/internal/llm"
	"ndisfraud/internal/llm/gemini"
	"ndisfraud/internal/port"
)

func newTestRuntime(t *testing.T, serverURL string, maxRounds int) *gemini.Runtime {
	t.Helper()
	rt, err := gemini.NewRuntime(&config.LLMProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.0-flash",
		BaseURL:      serverURL,
		TimeoutSecs:  30,
	}, maxRounds)
	require.NoError(t, err)
	return rt
}

func textResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"role":  "model",
				"parts": []map[string]interface{}{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	}
}

func functionCallResponse(name string, args map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"role":  "model",
				"parts": []map[string]interface{}{{"functionCall": map[string]interface{}{"name": name, "args": args}}},
			},
			"finishReason": "STOP",
		}},
	}
}

func itemLookupTool(calls *int32) port.Tool {
	return port.Tool{
		Name:        "get_nids_item_details",
		Description: "Look up an item",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"item_code": map[string]interface{}{"type": "string"}},
			"required":   []string{"item_code"},
		},
		Call: func(_ context.Context, args map[string]interface{}) (string, error) {
			atomic.AddInt32(calls, 1)
			if args["item_code"] != "01_002_0107_1_1" {
				return "", errors.New("item not found")
			}
			return "Assistance With Self-Care Activities - Standard - Weekday Daytime", nil
		},
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestGeminiRuntime_Invoke_NoTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)

		body := decodeBody(t, r)
		assert.NotContains(t, body, "tools")
		genCfg := body["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genCfg["responseMimeType"])
		assert.Contains(t, body, "systemInstruction")

		_ = json.NewEncoder(w).Encode(textResponse(`{"is_valid":true,"reason":"ok"}`))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	out, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Check the invoice.",
		UserContent:  "invoice text",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"reason":"ok"}`, string(out.Content))
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
	assert.Equal(t, 1, out.Rounds)
	assert.Empty(t, out.ToolCalls)
}

func TestGeminiRuntime_Invoke_ToolLoop(t *testing.T) {
	var requests, toolCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)

		tools := body["tools"].([]interface{})
		require.Len(t, tools, 1)
		decls := tools[0].(map[string]interface{})["functionDeclarations"].([]interface{})
		require.Len(t, decls, 1)
		assert.Equal(t, "get_nids_item_details", decls[0].(map[string]interface{})["name"])

		if atomic.AddInt32(&requests, 1) == 1 {
			_ = json.NewEncoder(w).Encode(functionCallResponse("get_nids_item_details",
				map[string]interface{}{"item_code": "01_002_0107_1_1"}))
			return
		}

		contents := body["contents"].([]interface{})
		require.Len(t, contents, 3)
		assert.Equal(t, "model", contents[1].(map[string]interface{})["role"])

		reply := contents[2].(map[string]interface{})
		assert.Equal(t, "user", reply["role"])
		parts := reply["parts"].([]interface{})
		require.Len(t, parts, 1)
		fr := parts[0].(map[string]interface{})["functionResponse"].(map[string]interface{})
		assert.Equal(t, "get_nids_item_details", fr["name"])
		response := fr["response"].(map[string]interface{})
		assert.Contains(t, response["output"], "Self-Care Activities")
		assert.NotContains(t, response, "error")

		_ = json.NewEncoder(w).Encode(textResponse("```json\n{\"is_valid\":true,\"reason\":\"item exists\"}\n```"))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	out, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Verify line items.",
		UserContent:  "01_002_0107_1_1 x1",
		Tools:        []port.Tool{itemLookupTool(&toolCalls)},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"reason":"item exists"}`, string(out.Content))
	assert.Equal(t, 2, out.Rounds)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	assert.Equal(t, int32(1), atomic.LoadInt32(&toolCalls))
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "get_nids_item_details", out.ToolCalls[0].Name)
	assert.False(t, out.ToolCalls[0].IsError)
}

func TestGeminiRuntime_Invoke_ToolErrorReturnedToModel(t *testing.T) {
	var requests, toolCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if atomic.AddInt32(&requests, 1) == 1 {
			_ = json.NewEncoder(w).Encode(functionCallResponse("get_nids_item_details",
				map[string]interface{}{"item_code": "99_999_9999_9_9"}))
			return
		}

		contents := body["contents"].([]interface{})
		parts := contents[2].(map[string]interface{})["parts"].([]interface{})
		response := parts[0].(map[string]interface{})["functionResponse"].(map[string]interface{})["response"].(map[string]interface{})
		assert.Contains(t, response["error"], "item not found")
		assert.NotContains(t, response, "output")

		_ = json.NewEncoder(w).Encode(textResponse(`{"is_valid":false,"reason":"unknown item"}`))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	out, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Verify line items.",
		UserContent:  "99_999_9999_9_9 x1",
		Tools:        []port.Tool{itemLookupTool(&toolCalls)},
	})

	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 1)
	assert.True(t, out.ToolCalls[0].IsError)
	assert.Equal(t, int32(1), atomic.LoadInt32(&toolCalls))
}

func TestGeminiRuntime_Invoke_RateLimited(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr), "got %v", err)
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestGeminiRuntime_Invoke_ServerErrorNotRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	require.Error(t, err)
	var rlErr *llm.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
	assert.Contains(t, err.Error(), "calling gemini API")
}

func TestGeminiRuntime_Invoke_MaxToolRounds(t *testing.T) {
	var requests, toolCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		_ = json.NewEncoder(w).Encode(functionCallResponse("get_nids_item_details",
			map[string]interface{}{"item_code": "01_002_0107_1_1"}))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 3)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{
		Instructions: "Verify line items.",
		UserContent:  "invoice",
		Tools:        []port.Tool{itemLookupTool(&toolCalls)},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrMaxToolRounds))
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
	assert.Equal(t, int32(3), atomic.LoadInt32(&toolCalls))
}

func TestGeminiRuntime_Invoke_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiRuntime_Invoke_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := textResponse(`{"is_valid":`)
		resp["candidates"].([]map[string]interface{})[0]["finishReason"] = "MAX_TOKENS"
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	rt := newTestRuntime(t, server.URL, 5)
	_, err := rt.Invoke(context.Background(), port.InvokeInput{Instructions: "x", UserContent: "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestNewRuntime_RequiresAPIKey(t *testing.T) {
	_, err := gemini.NewRuntime(&config.LLMProviderConfig{Provider: "gemini"}, 5)
	require.Error(t, err)
}
