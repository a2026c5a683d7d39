// Package answer obtains factual answers from the analytical model.
package answer

import (
	"context"

	"github.com/minhyannv/qwen-pi-go/pkg/completion"
	configpkg "github.com/minhyannv/qwen-pi-go/pkg/config"
	"github.com/minhyannv/qwen-pi-go/pkg/prompt"
)

const (
	MaxTokens   = 32768
	Temperature = 0.0
)

// Answerer sends user queries to the analytical endpoint.
type Answerer struct {
	model  string
	system string
	caller *completion.Caller
}

// New builds an Answerer from the analyst section of cfg.
func New(cfg configpkg.Config, prompts prompt.Set, opts ...completion.Option) *Answerer {
	return &Answerer{
		model:  cfg.Analyst.Model,
		system: prompts.Analyst.System,
		caller: completion.NewCaller("qwen", completion.Endpoint{
			URL:    cfg.Analyst.URL,
			APIKey: cfg.Analyst.APIKey,
		}, opts...),
	}
}

// Request builds the analytical request for query.
func (a *Answerer) Request(query string) completion.Request {
	return completion.Request{
		Model:       a.model,
		System:      a.system,
		User:        query,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// Answer returns the factual answer to query. A failed result has already
// been reported to the operator log.
func (a *Answerer) Answer(ctx context.Context, query string) completion.Result {
	return a.caller.Call(ctx, a.Request(query))
}
