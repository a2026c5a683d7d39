// Package prompt holds the system prompts and the rewrite template used by
// the analyst and persona requests.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	queryPlaceholder  = "{{query}}"
	answerPlaceholder = "{{answer}}"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Set is the full collection of prompts for one session.
type Set struct {
	Analyst Analyst `yaml:"analyst"`
	Persona Persona `yaml:"persona"`
}

type Analyst struct {
	System string `yaml:"system"`
}

type Persona struct {
	System string `yaml:"system"`
	// Rewrite must contain both {{query}} and {{answer}}.
	Rewrite string `yaml:"rewrite"`
}

// Default returns the built-in prompt set.
func Default() Set {
	set, err := Parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts.yaml: %v", err))
	}
	return set
}

// Load reads a prompt set from path. Fields missing from the file keep
// their built-in values.
func Load(path string) (Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read prompts: %w", err)
	}
	set := Default()
	if err := yaml.Unmarshal(content, &set); err != nil {
		return Set{}, fmt.Errorf("parse prompts %s: %w", path, err)
	}
	if err := set.validate(); err != nil {
		return Set{}, fmt.Errorf("prompts %s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a prompt set from YAML.
func Parse(content []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(content, &set); err != nil {
		return Set{}, err
	}
	if err := set.validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

func (s Set) validate() error {
	if strings.TrimSpace(s.Analyst.System) == "" {
		return fmt.Errorf("missing analyst.system")
	}
	if strings.TrimSpace(s.Persona.System) == "" {
		return fmt.Errorf("missing persona.system")
	}
	if !strings.Contains(s.Persona.Rewrite, queryPlaceholder) || !strings.Contains(s.Persona.Rewrite, answerPlaceholder) {
		return fmt.Errorf("persona.rewrite must contain %s and %s", queryPlaceholder, answerPlaceholder)
	}
	return nil
}

// RewriteRequest renders the persona user message. Placeholders are
// substituted in one pass, so query and answer text is embedded verbatim.
func (s Set) RewriteRequest(query, answer string) string {
	r := strings.NewReplacer(queryPlaceholder, query, answerPlaceholder, answer)
	return r.Replace(s.Persona.Rewrite)
}
