package checker

import (
	"os"
	"strings"
)

// Environment variables consulted when no explicit config is supplied.
const (
	envEnforcePii    = "CLARITY_ENFORCE_PII"
	envEffectsConfig = "CLARITY_EFFECTS_CONFIG"
)

// Config carries checker feature flags. Precedence is resolved once at
// the entry point: an explicit config wins over the environment, which
// wins over the defaults. Nothing inside the checker consults the
// environment directly.
type Config struct {
	// EnforcePii rejects io calls that receive Pii values of
	// sensitivity L2 or higher.
	EnforcePii bool

	// EffectsConfigPath points at the JSON effect-pattern file. Empty
	// selects the built-in defaults.
	EffectsConfigPath string
}

// ResolveConfig applies the explicit > environment > default precedence.
func ResolveConfig(explicit *Config) *Config {
	if explicit != nil {
		return explicit
	}

	cfg := &Config{}
	if v := os.Getenv(envEnforcePii); v != "" {
		cfg.EnforcePii = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv(envEffectsConfig); v != "" {
		cfg.EffectsConfigPath = v
	}
	return cfg
}
