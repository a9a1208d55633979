package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about the loaded documents",
	Long: `Answers a question using only the loaded documents.

The most relevant segments (retrieval.top_k of them) are passed to the model
together with the question. When none of them support an answer the reply is
"Not Found". Use 'edubridge retrieve -k N' to inspect other depths.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the reply as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if tutorService == nil {
		return errors.New("tutor service not configured")
	}

	reply, err := tutorService.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, reply)
	}

	if reply.Intent == domain.IntentSystemCommand {
		cmd.Printf("%q is an interactive command. %s\n", reply.Command, commandHint(reply.Command))
		return nil
	}

	outputReply(cmd, reply)
	return nil
}

func outputReply(cmd *cobra.Command, reply *domain.Reply) {
	out := cmd.OutOrStdout()
	if reply.IsNotFound() {
		notFoundColor.Fprintln(out, domain.NotFound) //nolint:errcheck // terminal output
		return
	}

	answerColor.Fprintln(out, reply.Answer) //nolint:errcheck // terminal output
	if len(reply.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range reply.Sources {
		citationColor.Fprintf(out, "  [%d] %s\n", i+1, src.Citation()) //nolint:errcheck // terminal output
	}
}

// commandHint points a system command typed as a question at its subcommand.
func commandHint(command string) string {
	switch command {
	case domain.CommandLoad:
		return "Run 'edubridge load <path>'."
	case domain.CommandStatus:
		return "Run 'edubridge status'."
	case domain.CommandHelp:
		return "Run 'edubridge --help'."
	default:
		return "Run 'edubridge repl' for an interactive session."
	}
}
