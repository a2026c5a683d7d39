package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAppliesDefaultVersion(t *testing.T) {
	cfg := Normalize(Config{
		Analyst: Analyst{APIKey: "  key ", URL: " http://x/v1/chat/completions ", Model: " qwen "},
		Persona: Persona{Version: "   "},
	})

	assert.Equal(t, "key", cfg.Analyst.APIKey)
	assert.Equal(t, "http://x/v1/chat/completions", cfg.Analyst.URL)
	assert.Equal(t, "qwen", cfg.Analyst.Model)
	assert.Equal(t, DefaultPersonaVersion, cfg.Persona.Version)
}

func TestValidateRejectsUnknownVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Persona.Version = "bogus"

	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPersonaVersion))

	var versionErr *VersionError
	require.True(t, errors.As(err, &versionErr))
	assert.Equal(t, PersonaVersion("bogus"), versionErr.Version)
	assert.Contains(t, err.Error(), "Pi-3.1")
	assert.Contains(t, err.Error(), "inflection_3_pi")
}

func TestValidateAcceptsKnownVersions(t *testing.T) {
	for _, v := range []PersonaVersion{PersonaInflection3, PersonaPi31} {
		cfg := DefaultConfig()
		cfg.Persona.Version = v
		assert.NoError(t, Validate(cfg), v)
	}
}

func TestPersonaEndpointTable(t *testing.T) {
	cfg := DefaultConfig()

	url, err := cfg.PersonaEndpoint(PersonaPi31)
	require.NoError(t, err)
	assert.Equal(t, "https://api.inflection.ai/v1/chat/completions", url)

	url, err = cfg.PersonaEndpoint(PersonaInflection3)
	require.NoError(t, err)
	assert.Equal(t, "https://api.inflection.ai/external/api/inference/openai/v1/chat/completions", url)
}

func TestPersonaEndpointOverrideStillValidatesVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Persona.URL = "http://127.0.0.1:9/v1/chat/completions"

	url, err := cfg.PersonaEndpoint(PersonaPi31)
	require.NoError(t, err)
	assert.Equal(t, cfg.Persona.URL, url)

	_, err = cfg.PersonaEndpoint("bogus")
	assert.ErrorIs(t, err, ErrInvalidPersonaVersion)
}
