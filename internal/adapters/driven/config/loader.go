// Package config assembles application settings from defaults, an optional
// TOML file, an optional .env file and the process environment, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/conahgpt/internal/adapters/driven/config/file"
	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// ConfigPathVar names the variable that points at the TOML settings file.
const ConfigPathVar = "CONAHGPT_CONFIG"

// DefaultDotEnv is the .env file read from the working directory.
const DefaultDotEnv = ".env"

// providerKeyVars are provider specific API key variables used when LLM_API_KEY is unset.
var providerKeyVars = map[domain.AIProvider]string{
	domain.AIProviderGemini:    "GEMINI_API_KEY",
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Options control where settings are read from.
type Options struct {
	// ConfigPath is the TOML file. Empty uses $CONAHGPT_CONFIG, and no file if that is unset.
	ConfigPath string

	// DotEnvPath is the .env file (default ".env"). A missing file is ignored.
	DotEnvPath string

	// Environ is the process environment. Nil uses os.Environ().
	Environ []string
}

// Load builds validated settings.
func Load(opts Options) (domain.Settings, error) {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	osVars := envMap(environ)

	vars := make(map[string]string)

	path := opts.ConfigPath
	if path == "" {
		path = osVars[ConfigPathVar]
	}
	if path != "" {
		fileVars, err := file.NewConfigFile(path).Vars()
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%w: config file: %v", domain.ErrInvalidConfig, err)
		}
		merge(vars, fileVars)
	}

	dotenv := opts.DotEnvPath
	if dotenv == "" {
		dotenv = DefaultDotEnv
	}
	dotVars, err := godotenv.Read(dotenv)
	switch {
	case err == nil:
		merge(vars, dotVars)
	case !errors.Is(err, fs.ErrNotExist):
		return domain.Settings{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, dotenv, err)
	}

	merge(vars, osVars)

	s := domain.DefaultSettings()
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars}); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if s.LLM.APIKey == "" {
		if name, ok := providerKeyVars[s.LLM.Provider]; ok {
			s.LLM.APIKey = vars[name]
		}
	}

	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

func envMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
