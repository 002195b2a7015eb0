// Command conahgpt answers questions from a Google Drive folder over Slack,
// HTTP, MCP and the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/conahgpt/internal/adapters/driven/ai"
	"github.com/custodia-labs/conahgpt/internal/adapters/driven/config/file"
	"github.com/custodia-labs/conahgpt/internal/adapters/driven/gdrive"
	"github.com/custodia-labs/conahgpt/internal/adapters/driven/slack"
	"github.com/custodia-labs/conahgpt/internal/adapters/driving/cli"
	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/core/services"
	"github.com/custodia-labs/conahgpt/internal/logger"
	"github.com/custodia-labs/conahgpt/internal/postprocessors"
	"github.com/custodia-labs/conahgpt/internal/ranking"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap wires the answer pipeline and its adapters from settings.
func bootstrap(ctx context.Context, s domain.Settings) (*cli.App, error) {
	logger.Section("bootstrap")

	if s.Drive.FolderID == "" {
		return nil, fmt.Errorf("%w: DRIVE_FOLDER_ID is required", domain.ErrInvalidConfig)
	}

	svcs, err := gdrive.Connect(ctx, s.Drive)
	if err != nil {
		return nil, fmt.Errorf("connecting to Google APIs: %w", err)
	}

	pipeline, err := postprocessors.Default(s.Readers)
	if err != nil {
		return nil, fmt.Errorf("building chunk pipeline: %w", err)
	}

	collector := services.NewCollector(
		gdrive.NewStore(svcs.Drive, svcs.DriveLimiter, s.Drive),
		pipeline,
		s.Cache.ReadConcurrency,
		gdrive.Readers(svcs, s.Readers)...,
	)
	chunks := services.NewCollectorChunkStore(collector, s.Drive.FolderID, s.Cache.TTL,
		services.WithRefreshTimeout(s.Cache.RefreshTimeout))

	a := &cli.App{
		Settings: s,
		Chunks:   chunks,
		Warmer:   services.NewWarmer(chunks, s.Cache.WarmInterval),
	}

	// A nil store keeps the built-in templates.
	var prompts driven.PromptStore
	if s.Reply.PromptDir != "" {
		ps, err := file.NewPromptStore(s.Reply.PromptDir)
		if err != nil {
			return nil, fmt.Errorf("opening prompt directory: %w", err)
		}
		prompts = ps
		a.Background = append(a.Background, ps.Watch)
	}

	llm, err := ai.CreateLLMService(&s.LLM)
	if err != nil {
		logger.Warn("[llm] %v; questions will get the generation failure reply", err)
		llm = &ai.Unavailable{Err: err}
	} else {
		logger.Debug("[llm] using %s (%s)", s.LLM.Provider.Description(), llm.ModelName())
	}

	generator := services.NewGenerator(llm, driven.GenerateOptions{
		MaxTokens:   s.LLM.MaxTokens,
		Temperature: s.LLM.Temperature,
	}, services.WithRetry(s.LLM.Retries, services.DefaultRetryBackoff))

	a.Answer = services.NewAnswerService(
		chunks,
		ranking.New(s.Retrieval),
		services.NewPromptBuilder(prompts, s.Retrieval.ContextBudget),
		generator,
		services.NewCitationFormatter(services.DefaultPreviewWords),
		services.AnswerConfigFor(s),
	)

	dispatcher := services.NewDispatcher(
		s.Server.DispatchWorkers,
		s.Server.DispatchQueue,
		services.WithTaskTimeout(s.Server.RequestTimeout),
	)
	a.Dispatcher = dispatcher

	if s.Slack.BotToken != "" {
		a.Messenger = slack.NewMessenger(s.Slack.BotToken)
	}

	a.Close = func(ctx context.Context) error {
		return errors.Join(dispatcher.Close(ctx), llm.Close())
	}

	return a, nil
}
