package config

import (
	"log"
	"os"
	"strings"
)

// Config holds everything the server reads from the environment.
// It is built once in main and passed to the components that need it.
type Config struct {
	Port          string
	DatabaseURL   string
	CORSOrigin    string
	AdminToken    string
	SessionSecret string
	PublicBaseURL string
	RedisURL      string
	NATSURL       string

	// TranslatorProviders is the ordered list of provider keys from TRANSLATOR_PROVIDERS.
	TranslatorProviders []string
	// TranslatorStrategy is "shuffle" (default) or "weighted".
	TranslatorStrategy string
	// APIKeys maps a credential variable name (e.g. ANTHROPIC_API_KEY) to its value.
	APIKeys map[string]string
}

// credentialVars are the provider credential variables we look up.
var credentialVars = []string{
	"ANTHROPIC_API_KEY",
	"OPENAI_API_KEY",
	"GOOGLE_API_KEY",
	"GROQ_API_KEY",
}

// Load reads the process environment. godotenv must already have run.
func Load() *Config {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", "sqlite://unlinked.db"),
		CORSOrigin:    getenv("CORS_ORIGIN", "*"),
		AdminToken:    os.Getenv("X_ADMIN_TOKEN"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		RedisURL:      os.Getenv("REDIS_URL"),
		NATSURL:       os.Getenv("NATS_URL"),
		APIKeys:       make(map[string]string, len(credentialVars)),
	}

	cfg.TranslatorProviders = ParseProviderList(getenv("TRANSLATOR_PROVIDERS", "anthropic"))
	cfg.TranslatorStrategy = strings.ToLower(getenv("TRANSLATOR_STRATEGY", "shuffle"))

	for _, name := range credentialVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			cfg.APIKeys[name] = v
		}
	}

	if cfg.SessionSecret == "" {
		// Sessions still work, they just won't survive a restart.
		log.Println("SESSION_SECRET not set, using an ephemeral session key")
	}

	return cfg
}

// ParseProviderList splits a comma separated provider list, lower-casing
// and trimming each entry and dropping empties.
func ParseProviderList(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// APIKey returns the credential stored under the given variable name.
func (c *Config) APIKey(envKey string) string {
	if c == nil || c.APIKeys == nil {
		return ""
	}
	return c.APIKeys[envKey]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
