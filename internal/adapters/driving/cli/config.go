package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conahgpt/internal/adapters/driven/ai"
	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

var configCheck bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective settings",
	Long: `Prints the settings ConahGPT would run with after merging defaults, the
TOML file, the .env file and the environment. Secrets are masked.

With --check the configured model provider is contacted to confirm the
credentials work.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.Flags().BoolVar(&configCheck, "check", false, "verify the LLM provider is reachable")
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	printSettings(cmd, &s)

	if configCheck {
		cmd.Println()
		if err := ai.ValidateLLMConfig(cmd.Context(), &s.LLM); err != nil {
			return fmt.Errorf("LLM check failed: %w", err)
		}
		cmd.Printf("LLM check passed: %s is reachable.\n", s.LLM.Provider.Description())
	}
	return nil
}

func printSettings(cmd *cobra.Command, s *domain.Settings) {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Drive]")
	cmd.Printf("  Folder ID: %s\n", orUnset(s.Drive.FolderID))
	if s.Drive.DriveID != "" {
		cmd.Printf("  Shared drive: %s\n", s.Drive.DriveID)
	}
	switch {
	case s.Drive.ServiceAccountJSON != "":
		cmd.Println("  Credentials: service account (inline JSON)")
	case s.Drive.ServiceAccountFile != "":
		cmd.Printf("  Credentials: service account (%s)\n", s.Drive.ServiceAccountFile)
	default:
		cmd.Println("  Credentials: application default")
	}
	cmd.Println()

	cmd.Println("[Slack]")
	cmd.Printf("  Bot token: %s\n", maskSecret(s.Slack.BotToken))
	cmd.Printf("  App token: %s\n", maskSecret(s.Slack.AppToken))
	cmd.Printf("  Signing secret: %s\n", maskSecret(s.Slack.SigningSecret))
	cmd.Printf("  Reply in thread: %s\n", yesNo(s.Slack.ReplyInThread))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", s.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", orUnset(s.LLM.Model))
	if s.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", s.LLM.BaseURL)
	}
	if s.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskSecret(s.LLM.APIKey))
	}
	cmd.Printf("  Timeout: %s, retries: %d\n", s.LLM.Timeout, s.LLM.Retries)
	status := "configured"
	if !s.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Ranker: %s, top-K: %d, threshold: %.2f\n", s.Retrieval.Ranker, s.Retrieval.TopK, s.Retrieval.Threshold)
	cmd.Printf("  Context budget: %d chars\n", s.Retrieval.ContextBudget)
	cmd.Printf("  Cache TTL: %s\n", s.Cache.TTL)
	cmd.Printf("  Refresh timeout: %s\n", s.Cache.RefreshTimeout)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Port: %d\n", s.Server.Port)
	if s.Server.MCPPort > 0 {
		cmd.Printf("  MCP port: %d\n", s.Server.MCPPort)
	}
	cmd.Printf("  Dispatch: %d workers, queue %d\n", s.Server.DispatchWorkers, s.Server.DispatchQueue)
	cmd.Println()

	if s.Drive.FolderID == "" {
		cmd.Println("Warning: DRIVE_FOLDER_ID is not set; serve and ask will have no documents.")
	} else {
		cmd.Println("Configuration is valid.")
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func maskSecret(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
