package agent

import (
	"ndisfraud/internal/domain"
	"ndisfraud/internal/tools"
)

// Descriptor describes an agent for pickers and the API.
type Descriptor struct {
	Kind        domain.AgentKind `json:"kind"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Tools       []string         `json:"tools"`
}

// Catalog lists the available agents in display order.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Kind:        domain.AgentLineVerifier,
			Name:        "Standard Agent",
			Description: "Agent that will check line by line",
			Tools:       []string{tools.ToolItemExists},
		},
		{
			Kind:        domain.AgentPricingVerifier,
			Name:        "Pricing Agent",
			Description: "Checks item codes, location pricing and superseded price schedules",
			Tools:       tools.AllTools,
		},
		{
			Kind:        domain.AgentBasic,
			Name:        "Ichi Agent",
			Description: "Basic Fraud for NIDS invoices",
			Tools:       []string{},
		},
	}
}
