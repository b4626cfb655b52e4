package llm

import (
	"fmt"

	"ndisfraud/internal/config"
	"ndisfraud/internal/port"
)

// ProviderFactory creates an LLMRuntime from a provider config.
// maxRounds bounds the tool-calling loop.
type ProviderFactory func(cfg *config.LLMProviderConfig, maxRounds int) (port.LLMRuntime, error)

// registry of provider factories, populated via RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewRuntime creates an LLMRuntime from a provider config using the registered factory.
func NewRuntime(cfg *config.LLMProviderConfig, maxRounds int) (port.LLMRuntime, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg, maxRounds)
}
