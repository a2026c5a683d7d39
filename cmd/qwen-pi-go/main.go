// Package main provides the Qwen-Pi command-line chat.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/minhyannv/qwen-pi-go/pkg/answer"
	"github.com/minhyannv/qwen-pi-go/pkg/completion"
	configpkg "github.com/minhyannv/qwen-pi-go/pkg/config"
	loggerpkg "github.com/minhyannv/qwen-pi-go/pkg/logger"
	"github.com/minhyannv/qwen-pi-go/pkg/prompt"
	"github.com/minhyannv/qwen-pi-go/pkg/restyle"
)

// main is the program entry point.
func main() {
	config, err := parseCLIConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := configpkg.Validate(config); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	prompts, err := loadPrompts(config)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appLogger := loggerpkg.NewWriterLogger(os.Stderr)
	callerOpts := []completion.Option{
		completion.WithLogger(appLogger),
		completion.WithVerbose(config.Verbose),
	}
	answerer := answer.New(config, prompts, callerOpts...)
	rewriter := restyle.New(config, prompts, callerOpts...)

	if err := runREPL(context.Background(), answerer, rewriter, replOptions{
		Version: config.Persona.Version,
		Verbose: config.Verbose,
		Logger:  appLogger,
	}, os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadPrompts(cfg configpkg.Config) (prompt.Set, error) {
	if cfg.PromptsFile == "" {
		return prompt.Default(), nil
	}
	return prompt.Load(cfg.PromptsFile)
}
