// Package translator rewrites text between honest speech and LinkedIn-speak
// by calling one of several LLM providers, falling back across them.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/sujalbistaa/unlinked/internal/config"
)

var (
	ErrEmptyText   = errors.New("text is required")
	ErrInvalidMode = errors.New("invalid mode")
)

// Ordering strategies for the provider attempts.
const (
	StrategyShuffle  = "shuffle"
	StrategyWeighted = "weighted"
)

// FallbackError is returned when every enabled provider failed.
type FallbackError struct {
	Attempts int
	Last     error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("all %d translation providers failed: %v", e.Attempts, e.Last)
}

func (e *FallbackError) Unwrap() error { return e.Last }

// Result is a successful translation.
type Result struct {
	Translation  string `json:"translation"`
	Provider     string `json:"provider"`
	ProviderName string `json:"providerName"`
	Model        string `json:"model"`
}

// ClientFactory builds the client used to call one provider.
type ClientFactory func(p Provider, apiKey string) (Completer, error)

// Translator holds the enabled providers and how to reach them.
type Translator struct {
	providers []Provider
	keys      map[string]string
	strategy  string
	newClient ClientFactory
	shuffle   func([]Provider)
}

// New builds a translator from configuration using the real API clients.
func New(cfg *config.Config) *Translator {
	providers := EnabledProviders(cfg)
	keys := make(map[string]string, len(providers))
	for _, p := range providers {
		keys[p.Key] = cfg.APIKey(p.APIKeyEnv)
	}

	t := NewWithClients(providers, keys, NewClient)
	if cfg.TranslatorStrategy == StrategyWeighted {
		t.strategy = StrategyWeighted
	}

	if len(providers) == 0 {
		log.Println("No translator providers enabled, translation is unavailable")
	} else {
		names := make([]string, len(providers))
		for i, p := range providers {
			names[i] = p.Key
		}
		log.Printf("Translator providers enabled: %s", strings.Join(names, ", "))
	}
	return t
}

// NewWithClients builds a translator over an explicit provider list.
func NewWithClients(providers []Provider, keys map[string]string, newClient ClientFactory) *Translator {
	return &Translator{
		providers: providers,
		keys:      keys,
		strategy:  StrategyShuffle,
		newClient: newClient,
		shuffle: func(ps []Provider) {
			rand.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
		},
	}
}

// SetShuffle replaces the ordering function. Tests use it to pin the order.
func (t *Translator) SetShuffle(fn func([]Provider)) {
	t.shuffle = fn
}

// Providers returns the enabled providers in configuration order.
func (t *Translator) Providers() []Provider {
	out := make([]Provider, len(t.providers))
	copy(out, t.providers)
	return out
}

// Available reports whether any provider is enabled.
func (t *Translator) Available() bool {
	return len(t.providers) > 0
}

// Translate tries each enabled provider in a fresh random order and
// returns the first successful reply. Failures are logged and skipped.
func (t *Translator) Translate(ctx context.Context, text, mode string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	prompt, ok := SystemPrompt(mode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if len(t.providers) == 0 {
		return nil, ErrNoProviders
	}

	order := t.attemptOrder()

	var lastErr error
	attempts := 0
	for _, p := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++

		client, err := t.newClient(p, t.keys[p.Key])
		if err != nil {
			log.Printf("Translator provider %s unavailable: %v", p.Key, err)
			lastErr = err
			continue
		}

		out, err := client.Complete(ctx, prompt, text)
		if err == nil && strings.TrimSpace(out) == "" {
			err = fmt.Errorf("%s returned an empty translation", p.Name)
		}
		if err != nil {
			log.Printf("Translator provider %s failed: %v", p.Key, err)
			lastErr = err
			continue
		}

		return &Result{
			Translation:  strings.TrimSpace(out),
			Provider:     p.Key,
			ProviderName: p.Name,
			Model:        p.Model,
		}, nil
	}

	return nil, &FallbackError{Attempts: attempts, Last: lastErr}
}

// attemptOrder shuffles a copy of the providers. The weighted strategy
// moves a weighted pick to the front of the shuffled list.
func (t *Translator) attemptOrder() []Provider {
	order := t.Providers()
	t.shuffle(order)

	if t.strategy != StrategyWeighted || len(order) < 2 {
		return order
	}

	first, err := SelectWeighted(order, nil)
	if err != nil {
		return order
	}
	for i, p := range order {
		if p.Key == first.Key {
			order[0], order[i] = order[i], order[0]
			break
		}
	}
	return order
}
