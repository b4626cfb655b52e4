package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcessResponse is the verdict an agent returns for one invoice.
// IsUsingOldPricing is only set by strategies that check the inactive schedule.
type ProcessResponse struct {
	IsValid           bool   `json:"is_valid"`
	Reason            string `json:"reason"`
	IsUsingOldPricing *bool  `json:"is_using_old_pricing,omitempty"`
}

// ToolInvocation records one tool call made by the model while reaching a verdict.
type ToolInvocation struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
	Result    string                 `json:"result"`
	IsError   bool                   `json:"is_error"`
}

// ParsedDocument is the preview extracted from an uploaded file.
// Data is []map[string]string for tabular files, decoded JSON for json,
// a string for pdf/text, and nil for unknown.
type ParsedDocument struct {
	Type     DocumentType `json:"type"`
	Filename string       `json:"filename"`
	Data     interface{}  `json:"data"`
}

// Analysis is the full result of running an invoice through an agent.
type Analysis struct {
	ID        uuid.UUID        `json:"id"`
	Agent     AgentKind        `json:"agent"`
	Model     string           `json:"model"`
	Document  *ParsedDocument  `json:"document,omitempty"`
	Response  ProcessResponse  `json:"response"`
	ToolCalls []ToolInvocation `json:"tool_calls"`
	Duration  time.Duration    `json:"duration_ns"`
}
