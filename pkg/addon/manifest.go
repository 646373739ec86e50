package addon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultManifestPath is where the add-on manifest ships inside the container
const DefaultManifestPath = "/config.yaml"

// Manifest is the subset of the add-on manifest the launcher cares about:
// identity for logging and the declared option defaults.
type Manifest struct {
	Name    string                 `yaml:"name"`
	Version string                 `yaml:"version"`
	Slug    string                 `yaml:"slug"`
	Options map[string]interface{} `yaml:"options"`
}

// LoadManifest parses the add-on manifest at path
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// OptionDefaults renders the manifest's declared option defaults as strings.
// Non-scalar defaults are skipped; the launcher only passes scalars through
// the environment.
func (m *Manifest) OptionDefaults() map[string]string {
	defaults := make(map[string]string, len(m.Options))
	for key, value := range m.Options {
		switch v := value.(type) {
		case string:
			defaults[key] = v
		case int:
			defaults[key] = fmt.Sprintf("%d", v)
		case float64:
			defaults[key] = fmt.Sprintf("%g", v)
		case bool:
			defaults[key] = fmt.Sprintf("%t", v)
		}
	}
	return defaults
}
