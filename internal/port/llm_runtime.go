package port

import (
	"context"
	"encoding/json"

	"ndisfraud/internal/domain"
)

// Tool is a function the model may call while reasoning about an invoice.
// Parameters is a JSON schema object describing the arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Call        func(ctx context.Context, args map[string]interface{}) (string, error)
}

// InvokeInput carries one agent request to the language model.
type InvokeInput struct {
	Instructions   string
	UserContent    string
	Tools          []Tool
	ResponseSchema map[string]interface{}
}

// InvokeOutput is the structured answer from the language model.
type InvokeOutput struct {
	Content   json.RawMessage
	ModelUsed string
	ToolCalls []domain.ToolInvocation
	Rounds    int
}

// LLMRuntime runs a tool-calling conversation and returns the model's final JSON answer.
type LLMRuntime interface {
	Invoke(ctx context.Context, input InvokeInput) (*InvokeOutput, error)
}
