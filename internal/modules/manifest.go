package modules

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/clarity-lang/clarity/internal/effects"
)

// LanguageVersion is the language level this frontend implements.
const LanguageVersion = "1.4.0"

// ManifestFile is the conventional project manifest name.
const ManifestFile = "clarity.json"

// ProjectManifest is the clarity.json document at a project root. The
// Language field is a semver constraint on the language version; the
// optional Capabilities manifest restricts call sites project-wide.
type ProjectManifest struct {
	Name          string            `json:"name"`
	Version       string            `json:"version,omitempty"`
	Language      string            `json:"language,omitempty"`
	SearchPaths   []string          `json:"searchPaths,omitempty"`
	EffectsConfig string            `json:"effectsConfig,omitempty"`
	Capabilities  *effects.Manifest `json:"capabilities,omitempty"`
}

// LoadProjectManifest reads and validates a clarity.json file.
func LoadProjectManifest(path string) (*ProjectManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project manifest: %w", err)
	}

	var m ProjectManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%s: manifest has no name", path)
	}
	return &m, nil
}

// CheckLanguageVersion verifies the manifest's language constraint
// against the version this frontend implements. An absent constraint
// accepts any version.
func (m *ProjectManifest) CheckLanguageVersion() error {
	if m.Language == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(m.Language)
	if err != nil {
		return fmt.Errorf("manifest language constraint %q: %w", m.Language, err)
	}

	current := semver.MustParse(LanguageVersion)
	if !constraint.Check(current) {
		return fmt.Errorf("language version %s does not satisfy manifest constraint %q",
			LanguageVersion, m.Language)
	}
	return nil
}
