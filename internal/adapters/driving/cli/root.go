// Package cli is the cobra command tree for ConahGPT.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conahgpt/internal/adapters/driven/config"
	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	envFile    string
	verbose    bool
)

// App holds the wired services a command runs against.
type App struct {
	Settings   domain.Settings
	Answer     driving.AnswerService
	Chunks     driving.ChunkProvider
	Dispatcher driving.Dispatcher

	// Messenger is nil when no Slack token is configured.
	Messenger driven.Messenger

	// Warmer refreshes the cache in the background while serving.
	Warmer driving.Scheduler

	// Background tasks run for the lifetime of serve (prompt watching).
	Background []func(ctx context.Context) error

	// Close releases resources. Optional.
	Close func(ctx context.Context) error
}

// Bootstrap wires an App from settings.
type Bootstrap func(ctx context.Context, s domain.Settings) (*App, error)

var (
	bootstrap Bootstrap

	// app is the wired application; tests set it directly.
	app *App
)

var rootCmd = &cobra.Command{
	Use:   "conahgpt",
	Short: "Answer questions from a Google Drive folder",
	Long: `ConahGPT answers employee questions using only the Docs, Sheets and PDFs
in a Google Drive folder, and cites where each answer came from.

It runs as a Slack bot and HTTP service (serve), answers one-off questions
from the terminal (ask), and exposes its tools to AI assistants (mcp serve).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"TOML settings file (default $"+config.ConfigPathVar+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultDotEnv, ".env file to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that wires the application.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings reads settings from the configured sources.
func loadSettings() (domain.Settings, error) {
	s, err := config.Load(config.Options{ConfigPath: configPath, DotEnvPath: envFile})
	if err != nil {
		return s, err
	}
	if verbose {
		s.Verbose = true
	}
	logger.SetVerbose(s.Verbose)
	return s, nil
}

// loadApp returns the wired application, building it on first use.
func loadApp(cmd *cobra.Command) (*App, error) {
	if app != nil {
		return app, nil
	}
	if bootstrap == nil {
		return nil, errors.New("application not configured")
	}

	s, err := loadSettings()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	a, err := bootstrap(cmd.Context(), s)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}

// closeApp releases the application once a command is done with it.
func closeApp(ctx context.Context, a *App) {
	if a == nil || a.Close == nil {
		return
	}
	if err := a.Close(ctx); err != nil {
		logger.Warn("shutdown: %v", err)
	}
}
