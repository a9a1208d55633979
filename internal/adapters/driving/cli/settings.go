package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

var settingsAnnotations = map[string]string{annotationServices: servicesSettings}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the model providers, chunking, retrieval, index and OCR options.

Use subcommands to change a single key or to configure a provider interactively.
Environment variables such as OLLAMA_MODEL and CHUNK_SIZE override stored values.`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: settingsAnnotations,
	RunE:        runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key, for example:

  edubridge settings set chunking.size 800
  edubridge settings set retrieval.top_k 5
  edubridge settings set index.backend qdrant

Run 'edubridge settings show' to list every key.`,
	Args:        cobra.ExactArgs(2),
	Annotations: settingsAnnotations,
	RunE:        runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:         "embedding",
	Short:       "Configure embedding provider",
	Long:        `Configure the provider that embeds document segments and questions.`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:         "llm",
	Short:       "Configure LLM provider",
	Long:        `Configure the provider that writes answers from the retrieved segments.`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		if group, _, ok := strings.Cut(key, "."); ok && group != section {
			section = group
			cmd.Println()
			cmd.Printf("[%s]\n", group)
		}
		value := settingsService.Display(settings, key)
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("  %s = %s\n", key, value)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'edubridge settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("%s = %s\n", key, settingsService.Display(settings, key))
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureProvider(cmd, reader, embeddingWizard)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureProvider(cmd, reader, llmWizard)
}

// providerWizard describes one interactive provider configuration flow.
type providerWizard struct {
	name      string
	prefix    string
	providers []domain.AIProvider
	defaults  map[domain.AIProvider]string
	validate  func() error
}

var (
	embeddingWizard = providerWizard{
		name:      "Embedding",
		prefix:    "embedding",
		providers: domain.AllEmbeddingProviders(),
		defaults:  domain.DefaultEmbeddingModels(),
		validate:  func() error { return settingsService.ValidateEmbeddingConfig() },
	}
	llmWizard = providerWizard{
		name:      "LLM",
		prefix:    "llm",
		providers: domain.AllLLMProviders(),
		defaults:  domain.DefaultLLMModels(),
		validate:  func() error { return settingsService.ValidateLLMConfig() },
	}
)

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, w providerWizard) error {
	cmd.Printf("Select %s Provider\n", w.name)
	for i, p := range w.providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(w.providers), 1)
	selected := w.providers[idx-1]

	defaultModel := w.defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	values := [][2]string{
		{w.prefix + ".provider", selected.String()},
		{w.prefix + ".model", model},
	}
	if apiKey != "" {
		values = append(values, [2]string{w.prefix + ".api_key", apiKey})
	}
	for _, kv := range values {
		if err := settingsService.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to configure %s provider: %w", strings.ToLower(w.name), err)
		}
	}

	cmd.Print("Validating configuration... ")
	if err := w.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", strings.ToLower(w.name), err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n", w.name, selected.Description(), model)
	if apiKey != "" {
		cmd.Printf("API key: %s\n", maskAPIKey(apiKey))
	}
	cmd.Println("Restart edubridge to apply.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, and falls back to
// a plain line read otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
