package addon

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultOptionsPath is where the host writes user-set add-on options
const DefaultOptionsPath = "/data/options.json"

// Options are the user-configurable add-on options, keyed as the host
// supervisor writes them.
type Options struct {
	MusicDirectory string       `json:"music_directory"`
	Port           FlexiblePort `json:"port"`
	Title          string       `json:"title"`
}

// FlexiblePort accepts both string and numeric JSON values for the port
// option, since option schemas commonly declare it either way.
type FlexiblePort string

// UnmarshalJSON implements json.Unmarshaler
func (p *FlexiblePort) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*p = FlexiblePort(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*p = FlexiblePort(asNumber.String())
		return nil
	}

	return fmt.Errorf("port must be a string or a number, got %s", string(data))
}

// String returns the port value
func (p FlexiblePort) String() string {
	return string(p)
}

// Accessor reads add-on options the way the host supervisor exposes them:
// by key from the options file, with manifest defaults for keys the user
// never set. Missing keys resolve to empty values, never errors.
type Accessor struct {
	optionsPath  string
	manifestPath string
}

// NewAccessor creates an options accessor. Empty paths fall back to the
// conventional locations.
func NewAccessor(optionsPath, manifestPath string) *Accessor {
	if optionsPath == "" {
		optionsPath = DefaultOptionsPath
	}
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	return &Accessor{
		optionsPath:  optionsPath,
		manifestPath: manifestPath,
	}
}

// Load resolves the add-on options. Keys absent from the options file take
// their manifest defaults; keys absent from both resolve to empty strings.
// Only an unreadable or malformed options file is an error.
func (a *Accessor) Load() (*Options, error) {
	opts := &Options{}

	// Manifest defaults first, user options on top
	if manifest, err := LoadManifest(a.manifestPath); err == nil {
		defaults := manifest.OptionDefaults()
		opts.MusicDirectory = defaults["music_directory"]
		opts.Port = FlexiblePort(defaults["port"])
		opts.Title = defaults["title"]
	}

	data, err := os.ReadFile(a.optionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse options file: %w", err)
	}

	if v, ok := raw["music_directory"]; ok {
		if err := json.Unmarshal(v, &opts.MusicDirectory); err != nil {
			return nil, fmt.Errorf("invalid music_directory option: %w", err)
		}
	}
	if v, ok := raw["port"]; ok {
		if err := json.Unmarshal(v, &opts.Port); err != nil {
			return nil, fmt.Errorf("invalid port option: %w", err)
		}
	}
	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &opts.Title); err != nil {
			return nil, fmt.Errorf("invalid title option: %w", err)
		}
	}

	return opts, nil
}
