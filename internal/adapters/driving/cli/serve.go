package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/conahgpt/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/conahgpt/internal/adapters/driving/mcp"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// shutdownGrace bounds how long queued replies may run after a stop signal.
const shutdownGrace = 30 * time.Second

var servePort int

// pinger is implemented by adapters that can check their credentials.
type pinger interface {
	Ping(ctx context.Context) error
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Slack bot and HTTP API",
	Long: `Starts the HTTP server with the Slack events webhook (POST /slack/events),
the question endpoint (POST /ask) and health endpoints (GET /, GET /healthz).
With SLACK_APP_TOKEN set, Slack events also arrive over Socket Mode.

The chunk cache is warmed in the background when CACHE_WARM_INTERVAL is set,
and an MCP endpoint is served alongside when MCP_PORT is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	port := a.Settings.Server.Port
	if servePort > 0 {
		port = servePort
	}

	srv, err := httpapi.NewServer(&httpapi.Ports{
		Answer:     a.Answer,
		Chunks:     a.Chunks,
		Dispatcher: a.Dispatcher,
		Messenger:  a.Messenger,
	}, httpapi.Config{
		SigningSecret:  a.Settings.Slack.SigningSecret,
		ReplyInThread:  a.Settings.Slack.ReplyInThread,
		RequestTimeout: a.Settings.Server.RequestTimeout,
		DedupSize:      a.Settings.Server.EventDedupSize,
	})
	if err != nil {
		return err
	}
	if a.Messenger == nil {
		logger.Warn("[slack] SLACK_BOT_TOKEN not set, /slack/events is disabled")
	} else if p, ok := a.Messenger.(pinger); ok {
		if err := p.Ping(cmd.Context()); err != nil {
			logger.Warn("[slack] auth check failed: %v", err)
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		return srv.Listen(ctx, fmt.Sprintf(":%d", port))
	})

	if a.Warmer != nil {
		g.Go(func() error {
			return a.Warmer.Start(ctx)
		})
	}

	for _, bg := range a.Background {
		g.Go(func() error {
			if err := bg(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("background task stopped: %v", err)
			}
			return nil
		})
	}

	if appToken := a.Settings.Slack.AppToken; appToken != "" && a.Messenger != nil {
		sm, err := httpapi.NewSocketMode(srv, appToken, a.Settings.Slack.BotToken)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return sm.Run(ctx)
		})
	}

	if mcpPort := a.Settings.Server.MCPPort; mcpPort > 0 {
		mcpServer, err := mcp.NewServer(&mcp.Ports{Answer: a.Answer, Chunks: a.Chunks})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return mcpServer.RunHTTP(ctx, fmt.Sprintf(":%d", mcpPort))
		})
	}

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	closeApp(shutdownCtx, a)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
