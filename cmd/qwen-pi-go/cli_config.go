package main

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"

	configpkg "github.com/minhyannv/qwen-pi-go/pkg/config"
)

// parseCLIConfig loads env + flags into runtime config.
func parseCLIConfig(args []string) (configpkg.Config, error) {
	_ = godotenv.Load()

	defaults := configpkg.DefaultConfig()
	fs := flag.NewFlagSet("qwen-pi-go", flag.ContinueOnError)
	verbose := fs.Bool("verbose", defaults.Verbose, "Verbose request logging")
	promptsFile := fs.String("prompts", defaults.PromptsFile, "YAML file overriding the built-in prompts")
	if err := fs.Parse(args); err != nil {
		return configpkg.Config{}, err
	}

	cfg := configFromEnv(defaults, os.Getenv)
	cfg.Verbose = *verbose
	cfg.PromptsFile = strings.TrimSpace(*promptsFile)
	return configpkg.Normalize(cfg), nil
}

func configFromEnv(cfg configpkg.Config, getenv func(string) string) configpkg.Config {
	cfg.Analyst.APIKey = getenv("VLLM_API_KEY")
	cfg.Analyst.URL = getenv("VLLM_URL")
	cfg.Analyst.Model = getenv("VLLM_MODEL_NAME")
	cfg.Persona.APIKey = getenv("PI_API_KEY")
	cfg.Persona.URL = getenv("PI_URL")
	if v := strings.TrimSpace(getenv("PI_VERSION")); v != "" {
		cfg.Persona.Version = configpkg.PersonaVersion(v)
	}
	return cfg
}
