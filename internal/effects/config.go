package effects

import (
	"encoding/json"
	"os"
	"strings"
)

// Config maps call-target name prefixes to effects and capabilities.
// Matching is by prefix over the dotted call target, so "Http." covers
// every function of the Http namespace while "UUID.randomUUID" pins one
// call exactly.
type Config struct {
	IO  IOPatterns `json:"-"`
	CPU []string   `json:"-"`
	AI  []string   `json:"-"`
}

// IOPatterns groups the io-effect prefixes by capability.
type IOPatterns struct {
	HTTP    []string `json:"http"`
	SQL     []string `json:"sql"`
	Files   []string `json:"files"`
	Secrets []string `json:"secrets"`
	Time    []string `json:"time"`
}

type configFile struct {
	Patterns struct {
		IO  IOPatterns `json:"io"`
		CPU []string   `json:"cpu"`
		AI  []string   `json:"ai"`
	} `json:"patterns"`
}

// DefaultConfig returns the built-in effect patterns.
func DefaultConfig() *Config {
	return &Config{
		IO: IOPatterns{
			HTTP:    []string{"Http."},
			SQL:     []string{"Db.", "Sql."},
			Files:   []string{"Files."},
			Secrets: []string{"Secrets.", "Vault."},
			Time:    []string{"Time.", "Clock.now", "UUID.randomUUID"},
		},
		CPU: []string{"Math.", "Crypto.", "Compress."},
		AI:  []string{"Ai.", "Model."},
	}
}

// LoadConfig reads effect patterns from a JSON file. A missing or
// malformed file silently yields the built-in defaults; the config
// loader sits on a cold path where failing the whole checker would be
// disproportionate.
func LoadConfig(path string) *Config {
	if path == "" {
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig()
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	if p := file.Patterns.IO; !emptyIO(p) {
		cfg.IO = p
	}
	if len(file.Patterns.CPU) > 0 {
		cfg.CPU = file.Patterns.CPU
	}
	if len(file.Patterns.AI) > 0 {
		cfg.AI = file.Patterns.AI
	}
	return cfg
}

func emptyIO(p IOPatterns) bool {
	return len(p.HTTP) == 0 && len(p.SQL) == 0 && len(p.Files) == 0 &&
		len(p.Secrets) == 0 && len(p.Time) == 0
}

// CapabilityOf classifies a dotted call target, reporting the matched
// capability and whether the match is an io or cpu effect. The second
// result is empty when the target matches nothing.
func (c *Config) CapabilityOf(target string) (Capability, string) {
	switch {
	case matchesAny(target, c.IO.HTTP):
		return CapHTTP, EffectIO
	case matchesAny(target, c.IO.SQL):
		return CapSQL, EffectIO
	case matchesAny(target, c.IO.Files):
		return CapFiles, EffectIO
	case matchesAny(target, c.IO.Secrets):
		return CapSecrets, EffectIO
	case matchesAny(target, c.IO.Time):
		return CapTime, EffectIO
	case matchesAny(target, c.AI):
		return CapAiModel, EffectIO
	case matchesAny(target, c.CPU):
		return CapCPU, EffectCPU
	}
	return "", ""
}

func matchesAny(target string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(target, p) {
			return true
		}
	}
	return false
}
