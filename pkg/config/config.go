package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PersonaVersion selects the persona endpoint and doubles as its model identifier.
type PersonaVersion string

const (
	PersonaInflection3 PersonaVersion = "inflection_3_pi"
	PersonaPi31        PersonaVersion = "Pi-3.1"

	DefaultPersonaVersion = PersonaPi31
)

// PersonaEndpoints maps each recognized persona version to its completion endpoint.
var PersonaEndpoints = map[PersonaVersion]string{
	PersonaInflection3: "https://api.inflection.ai/external/api/inference/openai/v1/chat/completions",
	PersonaPi31:        "https://api.inflection.ai/v1/chat/completions",
}

// ErrInvalidPersonaVersion is matched by every VersionError.
var ErrInvalidPersonaVersion = errors.New("invalid persona version")

// VersionError reports an unrecognized persona version.
type VersionError struct {
	Version PersonaVersion
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("invalid Pi version: %q, must be one of %s", string(e.Version), strings.Join(KnownPersonaVersions(), ", "))
}

func (e *VersionError) Unwrap() error { return ErrInvalidPersonaVersion }

// KnownPersonaVersions returns the recognized versions in stable order.
func KnownPersonaVersions() []string {
	out := make([]string, 0, len(PersonaEndpoints))
	for v := range PersonaEndpoints {
		out = append(out, string(v))
	}
	sort.Strings(out)
	return out
}

// Endpoint resolves the persona endpoint URL for v.
func (v PersonaVersion) Endpoint() (string, error) {
	url, ok := PersonaEndpoints[v]
	if !ok {
		return "", &VersionError{Version: v}
	}
	return url, nil
}

// Valid reports whether v is a recognized persona version.
func (v PersonaVersion) Valid() bool {
	_, ok := PersonaEndpoints[v]
	return ok
}

// Analyst configures the factual answer endpoint.
type Analyst struct {
	APIKey string
	URL    string
	Model  string
}

// Persona configures the restyling endpoint. URL overrides the version table when set.
type Persona struct {
	APIKey  string
	Version PersonaVersion
	URL     string
}

// Config holds all runtime configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Analyst Analyst
	Persona Persona

	PromptsFile string
	Verbose     bool
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		Persona: Persona{Version: DefaultPersonaVersion},
	}
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.Analyst.APIKey = strings.TrimSpace(cfg.Analyst.APIKey)
	cfg.Analyst.URL = strings.TrimSpace(cfg.Analyst.URL)
	cfg.Analyst.Model = strings.TrimSpace(cfg.Analyst.Model)
	cfg.Persona.APIKey = strings.TrimSpace(cfg.Persona.APIKey)
	cfg.Persona.URL = strings.TrimSpace(cfg.Persona.URL)
	cfg.Persona.Version = PersonaVersion(strings.TrimSpace(string(cfg.Persona.Version)))
	if cfg.Persona.Version == "" {
		cfg.Persona.Version = DefaultPersonaVersion
	}
	cfg.PromptsFile = strings.TrimSpace(cfg.PromptsFile)
	return cfg
}

// Validate checks startup preconditions. Missing keys or URLs are not
// rejected here; those requests fail at the transport or auth layer.
func Validate(cfg Config) error {
	if !cfg.Persona.Version.Valid() {
		return &VersionError{Version: cfg.Persona.Version}
	}
	return nil
}

// PersonaEndpoint returns the URL the persona request is sent to for v.
func (c Config) PersonaEndpoint(v PersonaVersion) (string, error) {
	url, err := v.Endpoint()
	if err != nil {
		return "", err
	}
	if c.Persona.URL != "" {
		return c.Persona.URL, nil
	}
	return url, nil
}
