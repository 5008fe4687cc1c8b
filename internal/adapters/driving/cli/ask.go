package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Long: `Answer one question against pasted text or a file.

The question can be given with --question or as the remaining arguments.
Use --text - to read the text from stdin.

Examples:
  askdoc ask --text "Paris is the capital of France." "What is the capital?"
  askdoc ask --file invoice.pdf -q "What is the total?"
  cat notes.txt | askdoc ask --text - -q "Who wrote this?" --json`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("text", "t", "", "Text to answer from (- reads stdin)")
	askCmd.Flags().StringP("file", "f", "", "File to answer from (.txt, .png, .jpeg, .jpg, .pdf)")
	askCmd.Flags().StringP("question", "q", "", "Question to ask")
	askCmd.Flags().Bool("json", false, "Print the result as JSON")
	askCmd.MarkFlagsMutuallyExclusive("text", "file")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return ErrNoAskService
	}

	req, err := askRequest(cmd, args)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	stop := startSpinner(cmd, !asJSON)
	res := askService.Ask(cmd.Context(), req)
	stop()

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.View()); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printResult(cmd, res)
	}

	if !res.OK() {
		return ErrNotAnswered
	}
	return nil
}

func askRequest(cmd *cobra.Command, args []string) (domain.AskRequest, error) {
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return domain.AskRequest{}, fmt.Errorf("getting text flag: %w", err)
	}
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return domain.AskRequest{}, fmt.Errorf("getting file flag: %w", err)
	}
	question, err := cmd.Flags().GetString("question")
	if err != nil {
		return domain.AskRequest{}, fmt.Errorf("getting question flag: %w", err)
	}

	if strings.TrimSpace(question) == "" && len(args) > 0 {
		question = strings.Join(args, " ")
	}

	if text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return domain.AskRequest{}, fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	req := domain.AskRequest{Text: text, Question: question}
	if file = strings.TrimSpace(file); file != "" {
		req.File = &domain.Upload{Name: filepath.Base(file), Path: file}
	}
	return req, nil
}

// startSpinner shows progress on stderr when it is a terminal.
func startSpinner(cmd *cobra.Command, enabled bool) func() {
	if !enabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " Asking..."
	s.Start()
	return s.Stop
}

func printResult(cmd *cobra.Command, res domain.Result) {
	if !res.OK() {
		color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), res.String()) //nolint:errcheck
		return
	}

	cmd.Println(res.String())
	if len(res.Answer.Pages) > 0 {
		if failed := res.Answer.FailedPages(); failed > 0 {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), //nolint:errcheck
				"%d of %d pages could not be answered\n", failed, len(res.Answer.Pages))
		}
		return
	}
	if res.Answer.Score != nil {
		color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "score %.2f\n", *res.Answer.Score) //nolint:errcheck
	}
}
