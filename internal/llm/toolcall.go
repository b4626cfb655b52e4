package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/port"
)

// DecodeArguments decodes a tool-call argument object, keeping numbers as json.Number.
// An empty string decodes to an empty map.
func DecodeArguments(raw string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("decoding tool arguments: %w", err)
	}
	return args, nil
}

// RunTool executes the named tool and records the invocation. Failures,
// including unknown tools, are reported back to the model as an error
// result rather than aborting the conversation.
func RunTool(ctx context.Context, tools []port.Tool, name string, args map[string]interface{}) domain.ToolInvocation {
	inv := domain.ToolInvocation{Name: name, Arguments: args}
	for _, t := range tools {
		if t.Name != name {
			continue
		}
		result, err := t.Call(ctx, args)
		if err != nil {
			inv.Result = "error: " + err.Error()
			inv.IsError = true
			return inv
		}
		inv.Result = result
		return inv
	}
	inv.Result = fmt.Sprintf("error: unknown tool %q", name)
	inv.IsError = true
	return inv
}

// ExtractJSON returns the first JSON object in text, ignoring surrounding
// prose and markdown code fences.
func ExtractJSON(text string) (json.RawMessage, error) {
	s := strings.TrimSpace(text)
	start := strings.Index(s, "{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in model output (raw: %s)", Truncate(text, 500))
	}
	dec := json.NewDecoder(strings.NewReader(s[start:]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, Truncate(text, 500))
	}
	return raw, nil
}

// SchemaInstructions appends a JSON-only answer requirement to instructions
// for providers without native structured output alongside tools.
func SchemaInstructions(instructions string, schema map[string]interface{}) string {
	if schema == nil {
		return instructions
	}
	encoded, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return instructions
	}
	return instructions + "\n\nWhen you have finished, respond with ONLY a JSON object matching this schema, " +
		"with no markdown formatting and no explanation:\n" + string(encoded)
}

// Truncate shortens s to at most maxLen bytes, marking the cut with "...".
// The cut never splits a multi-byte rune.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
