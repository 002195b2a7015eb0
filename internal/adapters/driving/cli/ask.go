package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/services"
)

var (
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the terminal",
	Long: `Runs the full pipeline once: reads the Drive folder, ranks passages
against the question, asks the model and prints the answer with citations.

Examples:
  conahgpt ask "What is the notice period for resignations?"
  conahgpt ask --sources "Who approves travel expenses?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "list the passages placed in the prompt")
	rootCmd.AddCommand(askCmd)
}

// askStyles colours terminal output; plain output leaves text untouched.
type askStyles struct {
	header   lipgloss.Style
	question lipgloss.Style
	answer   lipgloss.Style
	citation lipgloss.Style
	note     lipgloss.Style
}

func newAskStyles(colour bool) askStyles {
	if !colour {
		plain := lipgloss.NewStyle()
		return askStyles{header: plain, question: plain, answer: plain, citation: plain, note: plain}
	}
	return askStyles{
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F780FF")).Bold(true),
		question: lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Italic(true),
		answer:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E9E9F4")),
		citation: lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		note:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Italic(true),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	question := strings.Join(args, " ")
	ans, err := a.Answer.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, ans)
	}
	outputAskText(cmd, ans, newAskStyles(isTerminal(cmd.OutOrStdout())))
	return nil
}

type askJSONOutput struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	Outcome   string   `json:"outcome"`
	Degraded  bool     `json:"degraded"`
}

func outputAskJSON(cmd *cobra.Command, ans *domain.Answer) error {
	out := askJSONOutput{
		Question:  ans.Question,
		Answer:    ans.Text,
		Citations: ans.Citations,
		Outcome:   string(ans.Outcome),
		Degraded:  ans.Degraded,
	}
	if out.Citations == nil {
		out.Citations = []string{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, ans *domain.Answer, st askStyles) {
	cmd.Println(st.header.Render("Question:"))
	cmd.Println(st.question.Render(ans.Question))
	cmd.Println()
	cmd.Println(st.header.Render("Answer:"))
	cmd.Println(st.answer.Render(ans.Text))

	if len(ans.Citations) > 0 {
		cmd.Println()
		for _, c := range ans.Citations {
			cmd.Println(st.citation.Render(c))
		}
	}
	if ans.Degraded {
		cmd.Println()
		cmd.Println(st.note.Render(domain.DegradedReadNote))
	}

	if askSources && len(ans.Sources) > 0 {
		cmd.Println()
		cmd.Println(st.header.Render("Passages:"))
		for i, rc := range ans.Sources {
			cmd.Printf("  [%d] %s, %s (%.3f)\n", i+1, rc.Chunk.SourceName,
				services.LocatorPhrase(rc.Chunk.Locator), rc.Score)
		}
	}
}
