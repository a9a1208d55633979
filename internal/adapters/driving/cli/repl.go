package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

const replBanner = `+===========================================================+
|                     EDUBRIDGE AI TUTOR                    |
|              Answers grounded in your PDFs                |
+===========================================================+

Type 'help' for available commands`

const replHelp = `AVAILABLE COMMANDS:
-------------------
load                Load every PDF in the library directory
load <pdf_path>     Load a PDF, or every PDF in a directory
status              Show current system status
clear               Clear the screen
help                Show this help message
exit/quit           Exit the application

ASKING QUESTIONS:
-----------------
Type a question once a PDF is loaded. Answers use only the loaded
documents and cite the pages they came from.

If the documents do not answer the question you will see: "Not Found"`

// errExitREPL ends the read loop.
var errExitREPL = errors.New("exit")

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive question session",
	Long: `Starts a line-oriented session. Type questions, or one of the commands
load, status, clear, help and exit.

Each load replaces the documents loaded before it.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, _ []string) error {
	if tutorService == nil {
		return errors.New("tutor service not configured")
	}

	ctx := cmd.Context()
	cmd.Println(replBanner)
	checkGenerator(ctx, cmd)

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		questionColor.Fprint(out, "\nEduBridge> ") //nolint:errcheck // terminal output
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := handleLine(ctx, cmd, line)
		if errors.Is(err, errExitREPL) {
			cmd.Println("Exiting EduBridge...")
			return nil
		}
		if err != nil {
			errorColor.Fprintf(out, "Error: %v\n", err) //nolint:errcheck // terminal output
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func handleLine(ctx context.Context, cmd *cobra.Command, line string) error {
	reply, err := tutorService.Ask(ctx, line)
	if err != nil {
		return err
	}

	if reply.Intent != domain.IntentSystemCommand {
		cmd.Println()
		outputReply(cmd, reply)
		return nil
	}

	switch reply.Command {
	case domain.CommandExit, domain.CommandQuit:
		return errExitREPL
	case domain.CommandHelp:
		cmd.Println(replHelp)
	case domain.CommandClear:
		if isTerminal(cmd.OutOrStdout()) {
			cmd.Print("\033[H\033[2J")
		}
		cmd.Println("Screen cleared.")
	case domain.CommandStatus:
		return replStatus(ctx, cmd)
	case domain.CommandLoad:
		return replLoad(ctx, cmd, reply.Args)
	}
	return nil
}

func replStatus(ctx context.Context, cmd *cobra.Command) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}
	status, err := statusService.Status(ctx)
	if err != nil {
		return err
	}
	cmd.Println()
	outputStatus(cmd, status)
	return nil
}

func replLoad(ctx context.Context, cmd *cobra.Command, path string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if strings.TrimSpace(path) == "" {
		path = libraryDir
	}
	if strings.TrimSpace(path) == "" {
		cmd.Println("Usage: load <pdf_path>")
		return nil
	}

	cmd.Printf("\nLoading %s\n", path)
	result, err := ingestService.Load(ctx, path, domain.IngestOptions{})
	if result != nil {
		outputLoadSummary(cmd, result)
	}
	if needsOCR(result, err) && ocrHelp != "" {
		cmd.Println(ocrHelp)
	}
	if err != nil {
		return err
	}
	cmd.Println("You can now ask questions about these documents.")
	return nil
}

// checkGenerator prints whether the generator answers, as the session starts.
func checkGenerator(ctx context.Context, cmd *cobra.Command) {
	if statusService == nil {
		return
	}
	status, err := statusService.Status(ctx)
	if err != nil {
		return
	}
	if status.GeneratorReachable {
		cmd.Printf("[OK] Connected to %s (%s)\n", status.BaseURL, status.Model)
		return
	}
	cmd.Printf("[WARNING] Cannot reach the generator: %s\n", status.GeneratorError)
	cmd.Printf("  Make sure it is running at %s and the model %s is pulled.\n", status.BaseURL, status.Model)
}
