// Package restyle rewrites factual answers in the persona model's voice.
package restyle

import (
	"context"

	"github.com/minhyannv/qwen-pi-go/pkg/completion"
	configpkg "github.com/minhyannv/qwen-pi-go/pkg/config"
	"github.com/minhyannv/qwen-pi-go/pkg/prompt"
)

const (
	MaxTokens   = 1024
	Temperature = 0.7
)

// Rewriter sends factual answers to the persona endpoint for restyling.
type Rewriter struct {
	cfg     configpkg.Config
	prompts prompt.Set
	opts    []completion.Option
	callers map[configpkg.PersonaVersion]*completion.Caller
}

// New builds a Rewriter. Persona callers are created lazily per version.
func New(cfg configpkg.Config, prompts prompt.Set, opts ...completion.Option) *Rewriter {
	return &Rewriter{
		cfg:     cfg,
		prompts: prompts,
		opts:    opts,
		callers: map[configpkg.PersonaVersion]*completion.Caller{},
	}
}

// Request builds the persona request. The version is used as the model id.
func (r *Rewriter) Request(factual, query string, version configpkg.PersonaVersion) completion.Request {
	return completion.Request{
		Model:       string(version),
		System:      r.prompts.Persona.System,
		User:        r.prompts.RewriteRequest(query, factual),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// Restyle rewrites factual as an answer to query using the persona selected
// by version. The returned error is non-nil only for an unrecognized
// version, in which case no request is sent; request failures are reported
// through the Result.
func (r *Rewriter) Restyle(ctx context.Context, factual, query string, version configpkg.PersonaVersion) (completion.Result, error) {
	caller, err := r.caller(version)
	if err != nil {
		return completion.Result{}, err
	}
	return caller.Call(ctx, r.Request(factual, query, version)), nil
}

func (r *Rewriter) caller(version configpkg.PersonaVersion) (*completion.Caller, error) {
	if c, ok := r.callers[version]; ok {
		return c, nil
	}
	url, err := r.cfg.PersonaEndpoint(version)
	if err != nil {
		return nil, err
	}
	c := completion.NewCaller("pi", completion.Endpoint{URL: url, APIKey: r.cfg.Persona.APIKey}, r.opts...)
	r.callers[version] = c
	return c, nil
}
