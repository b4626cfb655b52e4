package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndisfraud/internal/llm"
	"ndisfraud/internal/port"
)

func echoTool() port.Tool {
	return port.Tool{
		Name: "echo",
		Call: func(_ context.Context, args map[string]interface{}) (string, error) {
			v, ok := args["value"].(string)
			if !ok {
				return "", errors.New("value required")
			}
			return "echo: " + v, nil
		},
	}
}

func TestDecodeArguments(t *testing.T) {
	args, err := llm.DecodeArguments(`{"item_code":"01_002_0107_1_1","price":78.81}`)
	require.NoError(t, err)

	assert.Equal(t, "01_002_0107_1_1", args["item_code"])
	assert.Equal(t, json.Number("78.81"), args["price"])
}

func TestDecodeArguments_Empty(t *testing.T) {
	args, err := llm.DecodeArguments("  ")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestDecodeArguments_Invalid(t *testing.T) {
	_, err := llm.DecodeArguments(`{"item_code":`)
	assert.Error(t, err)
}

func TestRunTool(t *testing.T) {
	tools := []port.Tool{echoTool()}

	inv := llm.RunTool(context.Background(), tools, "echo", map[string]interface{}{"value": "hi"})
	assert.Equal(t, "echo", inv.Name)
	assert.Equal(t, "echo: hi", inv.Result)
	assert.False(t, inv.IsError)

	inv = llm.RunTool(context.Background(), tools, "echo", map[string]interface{}{})
	assert.True(t, inv.IsError)
	assert.Equal(t, "error: value required", inv.Result)

	inv = llm.RunTool(context.Background(), tools, "delete_everything", nil)
	assert.True(t, inv.IsError)
	assert.Contains(t, inv.Result, "unknown tool")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain", `{"is_valid":true,"reason":"ok"}`},
		{"fenced", "```json\n{\"is_valid\":true,\"reason\":\"ok\"}\n```"},
		{"prose", "Here is my verdict:\n{\"is_valid\":true,\"reason\":\"ok\"}\nThanks."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := llm.ExtractJSON(tt.text)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, true, got["is_valid"])
			assert.Equal(t, "ok", got["reason"])
		})
	}
}

func TestExtractJSON_Errors(t *testing.T) {
	_, err := llm.ExtractJSON("no json here")
	assert.Error(t, err)

	_, err = llm.ExtractJSON(`{"is_valid": tru`)
	assert.Error(t, err)
}

func TestSchemaInstructions(t *testing.T) {
	assert.Equal(t, "be careful", llm.SchemaInstructions("be careful", nil))

	out := llm.SchemaInstructions("be careful", map[string]interface{}{"type": "object"})
	assert.Contains(t, out, "be careful")
	assert.Contains(t, out, "JSON object")
	assert.Contains(t, out, `"type": "object"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", llm.Truncate("short", 10))
	assert.Equal(t, "abc...", llm.Truncate("abcdef", 3))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// "é" is two bytes; a cut at byte 2 would split it.
	got := llm.Truncate("aé€xyz", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = llm.Truncate("aé€xyz", 4)
	assert.Equal(t, "aé...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "aé€...", llm.Truncate("aé€xyz", 6))
}
