package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/minhyannv/qwen-pi-go/pkg/completion"
	configpkg "github.com/minhyannv/qwen-pi-go/pkg/config"
	loggerpkg "github.com/minhyannv/qwen-pi-go/pkg/logger"
)

const maxInputLine = 1 << 20

type factAnswerer interface {
	Answer(ctx context.Context, query string) completion.Result
}

type styleRewriter interface {
	Restyle(ctx context.Context, factual, query string, version configpkg.PersonaVersion) (completion.Result, error)
}

// replOptions configures REPL behavior.
type replOptions struct {
	Version configpkg.PersonaVersion
	Verbose bool
	Logger  loggerpkg.Logger
}

// runREPL reads one query per line until "exit" or end of input. Lines are
// forwarded exactly as typed; trimming only applies to command checks. Request
// failures end the current turn only; a persona configuration error is
// returned to the caller.
func runREPL(ctx context.Context, answerer factAnswerer, rewriter styleRewriter, opts replOptions, in io.Reader, out io.Writer) error {
	if answerer == nil || rewriter == nil {
		return fmt.Errorf("answerer and rewriter are required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	loggerpkg.Info(opts.Logger, "session start", map[string]any{
		"persona_version": opts.Version,
	})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
	printWelcome(out, opts.Version)

	for {
		_, _ = fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		command := strings.TrimSpace(line)
		if strings.EqualFold(command, "exit") {
			return nil
		}
		if command == "" {
			continue
		}

		if err := runTurn(ctx, answerer, rewriter, opts, line, out); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func runTurn(ctx context.Context, answerer factAnswerer, rewriter styleRewriter, opts replOptions, query string, out io.Writer) error {
	turnID := uuid.NewString()
	loggerpkg.Debug(opts.Verbose, opts.Logger, "turn start", map[string]any{
		"turn":  turnID,
		"bytes": len(query),
	})

	_, _ = fmt.Fprintln(out, "\n🧠 Thinking with Qwen's brain...")
	factual := answerer.Answer(ctx, query)
	if !factual.OK() {
		loggerpkg.Debug(opts.Verbose, opts.Logger, "turn ended", map[string]any{
			"turn":  turnID,
			"stage": "answer",
			"kind":  factual.Failure.String(),
		})
		return nil
	}
	_, _ = fmt.Fprintf(out, "\nQwen Response:\n%s\n", factual.Content)

	_, _ = fmt.Fprintln(out, "\n🎨 Adding Pi's friendly voice...")
	styled, err := rewriter.Restyle(ctx, factual.Content, query, opts.Version)
	if err != nil {
		return err
	}
	if !styled.OK() {
		loggerpkg.Debug(opts.Verbose, opts.Logger, "turn ended", map[string]any{
			"turn":  turnID,
			"stage": "restyle",
			"kind":  styled.Failure.String(),
		})
		return nil
	}
	_, _ = fmt.Fprintf(out, "\nPi-Style Response:\n%s\n", styled.Content)

	loggerpkg.Debug(opts.Verbose, opts.Logger, "turn done", map[string]any{"turn": turnID})
	return nil
}

func printWelcome(out io.Writer, version configpkg.PersonaVersion) {
	_, _ = fmt.Fprintf(out, "Qwen-Pi CLI Chat. Using %s as Pi. Type 'exit' to quit.\n", version)
}
