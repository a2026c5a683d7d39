package restyle

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhyannv/qwen-pi-go/internal/llmtest"
	"github.com/minhyannv/qwen-pi-go/pkg/completion"
	configpkg "github.com/minhyannv/qwen-pi-go/pkg/config"
	"github.com/minhyannv/qwen-pi-go/pkg/prompt"
)

const (
	testQuery   = "What is the capital of France?"
	testFactual = "Paris is the capital of France."
)

// recordingTransport answers every request locally and remembers its URL.
type recordingTransport struct {
	mu   sync.Mutex
	urls []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.urls = append(rt.urls, req.URL.String())
	rt.mu.Unlock()
	body := `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Oh, Paris!"}}]}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func personaConfig() configpkg.Config {
	cfg := configpkg.DefaultConfig()
	cfg.Analyst.APIKey = "vllm-key"
	cfg.Persona.APIKey = "pi-key"
	return cfg
}

func TestRestyleRoutesByVersion(t *testing.T) {
	for version, wantURL := range configpkg.PersonaEndpoints {
		t.Run(string(version), func(t *testing.T) {
			rt := &recordingTransport{}
			r := New(personaConfig(), prompt.Default(), completion.WithHTTPClient(&http.Client{Transport: rt}))

			res, err := r.Restyle(context.Background(), testFactual, testQuery, version)
			require.NoError(t, err)
			require.True(t, res.OK(), "unexpected failure: %v", res.Err)
			assert.Equal(t, "Oh, Paris!", res.Content)
			require.Len(t, rt.urls, 1)
			assert.Equal(t, wantURL, rt.urls[0])
		})
	}
}

func TestRestyleSendsPersonaRequest(t *testing.T) {
	srv := llmtest.New(t, llmtest.Reply("Oh, Paris!"))
	cfg := personaConfig()
	cfg.Persona.URL = srv.CompletionsURL()
	r := New(cfg, prompt.Default())

	res, err := r.Restyle(context.Background(), testFactual, testQuery, configpkg.PersonaInflection3)
	require.NoError(t, err)
	require.True(t, res.OK())

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	got := reqs[0]
	assert.Equal(t, "Bearer pi-key", got.Authorization)
	assert.Equal(t, "inflection_3_pi", got.Model)
	assert.EqualValues(t, 1024, *got.MaxTokens)
	assert.InDelta(t, 0.7, *got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	user := got.Messages[1].Text()
	assert.Contains(t, user, testQuery)
	assert.Contains(t, user, testFactual)
}

func TestRestyleRejectsUnknownVersionBeforeNetwork(t *testing.T) {
	srv := llmtest.New(t, llmtest.Reply("unused"))
	cfg := personaConfig()
	cfg.Persona.URL = srv.CompletionsURL()
	r := New(cfg, prompt.Default())

	_, err := r.Restyle(context.Background(), testFactual, testQuery, "bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, configpkg.ErrInvalidPersonaVersion))
	assert.Empty(t, srv.Requests())
}

func TestRestyleIsAbsentOnServerError(t *testing.T) {
	srv := llmtest.New(t, llmtest.Status(http.StatusBadGateway))
	cfg := personaConfig()
	cfg.Persona.URL = srv.CompletionsURL()
	r := New(cfg, prompt.Default())

	res, err := r.Restyle(context.Background(), testFactual, testQuery, configpkg.PersonaPi31)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, completion.FailureStatus, res.Failure)
}

func TestRequestKeepsFixedParameters(t *testing.T) {
	r := New(personaConfig(), prompt.Default())

	first := r.Request(testFactual, testQuery, configpkg.PersonaPi31)
	second := r.Request(testFactual, testQuery, configpkg.PersonaPi31)
	assert.Equal(t, first, second)
	assert.Equal(t, "Pi-3.1", first.Model)
	assert.EqualValues(t, MaxTokens, first.MaxTokens)
	assert.Equal(t, Temperature, first.Temperature)
}
