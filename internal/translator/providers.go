package translator

import (
	"errors"
	"math/rand/v2"

	"github.com/sujalbistaa/unlinked/internal/config"
)

// ErrNoProviders means no configured provider has a credential.
var ErrNoProviders = errors.New("no valid AI providers configured, check your API keys and TRANSLATOR_PROVIDERS setting")

// Provider describes one LLM backend the translator can call.
type Provider struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Model     string `json:"model"`
	APIKeyEnv string `json:"-"`
	// Weight biases SelectWeighted; higher is picked more often.
	Weight int `json:"weight"`
}

// Registry lists every provider the translator knows how to call.
var Registry = map[string]Provider{
	"anthropic": {Key: "anthropic", Name: "Claude", Model: "claude-3-5-haiku-20241022", APIKeyEnv: "ANTHROPIC_API_KEY", Weight: 2},
	"openai":    {Key: "openai", Name: "GPT-4", Model: "gpt-4o-mini", APIKeyEnv: "OPENAI_API_KEY", Weight: 2},
	"google":    {Key: "google", Name: "Gemini", Model: "gemini-1.5-flash", APIKeyEnv: "GOOGLE_API_KEY", Weight: 1},
	"groq":      {Key: "groq", Name: "Llama", Model: "llama-3.1-70b-versatile", APIKeyEnv: "GROQ_API_KEY", Weight: 1},
}

// Lookup returns the registry entry for key.
func Lookup(key string) (Provider, bool) {
	p, ok := Registry[key]
	return p, ok
}

// EnabledProviders returns the configured providers that exist in the
// registry and have a non-empty credential, in configuration order.
func EnabledProviders(cfg *config.Config) []Provider {
	if cfg == nil {
		return nil
	}

	var enabled []Provider
	seen := make(map[string]bool)
	for _, key := range cfg.TranslatorProviders {
		p, ok := Lookup(key)
		if !ok || seen[key] {
			continue
		}
		if cfg.APIKey(p.APIKeyEnv) == "" {
			continue
		}
		seen[key] = true
		enabled = append(enabled, p)
	}
	return enabled
}

// SelectWeighted picks one provider with probability proportional to its weight.
// A nil rng uses the package-level generator.
func SelectWeighted(providers []Provider, rng *rand.Rand) (Provider, error) {
	if len(providers) == 0 {
		return Provider{}, ErrNoProviders
	}
	if len(providers) == 1 {
		return providers[0], nil
	}

	total := 0
	for _, p := range providers {
		total += max(p.Weight, 1)
	}

	var n int
	if rng != nil {
		n = rng.IntN(total)
	} else {
		n = rand.IntN(total)
	}

	for _, p := range providers {
		n -= max(p.Weight, 1)
		if n < 0 {
			return p, nil
		}
	}
	return providers[len(providers)-1], nil
}
