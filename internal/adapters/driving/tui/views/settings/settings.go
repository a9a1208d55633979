// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/messages"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/styles"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
)

// ErrNoSettingsService is reported when the view was built without a settings service.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEdit
	SectionProvider
)

const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyEmbeddingProvider = "embedding.provider"
)

// View lists every setting and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	err      error
	notice   string

	section  Section
	selected int // row in the overview
	choice   int // row in the provider list

	editInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	editInput := textinput.New()
	editInput.CharLimit = 512

	v := &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		editInput:       editInput,
		width:           80,
		height:          24,
	}
	if settingsService != nil {
		v.keys = settingsService.Keys()
	}
	return v
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s. Restart edubridge to apply.", msg.Key)
		v.section = SectionOverview
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.section == SectionEdit {
		var cmd tea.Cmd
		v.editInput, cmd = v.editInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.section = SectionOverview
		v.editInput.Blur()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEdit:
		return v.handleEditKeys(msg)
	case SectionProvider:
		return v.handleProviderKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if v.settings == nil || len(v.keys) == 0 {
			return v, nil
		}
		v.notice = ""
		key := v.SelectedKey()
		if key == keyLLMProvider || key == keyEmbeddingProvider {
			v.section = SectionProvider
			v.choice = v.providerIndex(key)
			return v, nil
		}
		v.section = SectionEdit
		v.editInput.EchoMode = textinput.EchoNormal
		value := v.settingsService.Display(v.settings, key)
		if isSecret(key) {
			v.editInput.EchoMode = textinput.EchoPassword
			value = ""
		}
		v.editInput.SetValue(value)
		v.editInput.CursorEnd()
		return v, v.editInput.Focus()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "enter" {
		v.editInput.Blur()
		return v, v.set(v.SelectedKey(), strings.TrimSpace(v.editInput.Value()))
	}
	var cmd tea.Cmd
	v.editInput, cmd = v.editInput.Update(msg)
	return v, cmd
}

func (v *View) handleProviderKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := v.providers()

	switch msg.String() {
	case "up", "k":
		if v.choice > 0 {
			v.choice--
		}
	case "down", "j":
		if v.choice < len(providers)-1 {
			v.choice++
		}
	case "enter":
		if v.choice < 0 || v.choice >= len(providers) {
			return v, nil
		}
		return v, v.setProvider(v.SelectedKey(), providers[v.choice])
	}
	return v, nil
}

func (v *View) set(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// setProvider switches provider and, for the generator, resets the model to
// that provider's default.
func (v *View) setProvider(key string, provider domain.AIProvider) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: ErrNoSettingsService}
		}
		if err := v.settingsService.Set(key, provider.String()); err != nil {
			return messages.SettingsSaved{Key: key, Err: err}
		}
		if key == keyLLMProvider {
			if model, ok := domain.DefaultLLMModels()[provider]; ok {
				if err := v.settingsService.Set(keyLLMModel, model); err != nil {
					return messages.SettingsSaved{Key: keyLLMModel, Err: err}
				}
			}
		}
		return messages.SettingsSaved{Key: key}
	}
}

func (v *View) providers() []domain.AIProvider {
	if v.SelectedKey() == keyEmbeddingProvider {
		return domain.AllEmbeddingProviders()
	}
	return domain.AllLLMProviders()
}

func (v *View) providerIndex(key string) int {
	current := v.settings.LLM.Provider
	if key == keyEmbeddingProvider {
		current = v.settings.Embedding.Provider
	}
	for i, p := range v.providers() {
		if p == current {
			return i
		}
	}
	return 0
}

func isSecret(key string) bool {
	return strings.HasSuffix(key, ".api_key") || key == "index.postgres_dsn"
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEdit:
		b.WriteString(v.renderEdit())
	case SectionProvider:
		b.WriteString(v.renderProviderSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	// Keep the selected row visible on short terminals.
	rows := v.height - 10
	if rows < 5 {
		rows = 5
	}
	start := 0
	if v.selected >= rows {
		start = v.selected - rows + 1
	}
	end := start + rows
	if end > len(v.keys) {
		end = len(v.keys)
	}

	for i := start; i < end; i++ {
		key := v.keys[i]
		value := v.settingsService.Display(v.settings, key)
		if value == "" {
			value = "(not set)"
		}

		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%-32s %s", indicator, key, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if err := v.settingsService.Validate(); err != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderEdit() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Edit " + v.SelectedKey()))
	b.WriteString("\n\n")
	b.WriteString(v.editInput.View())
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderProviderSelect() string {
	var b strings.Builder

	title := "Select LLM Provider"
	current := v.settings.LLM.Provider
	if v.SelectedKey() == keyEmbeddingProvider {
		title = "Select Embedding Provider"
		current = v.settings.Embedding.Provider
	}
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	defaults := domain.DefaultLLMModels()
	for i, provider := range v.providers() {
		indicator := "  "
		if i == v.choice {
			indicator = "> "
		}

		marker := ""
		if provider == current {
			marker = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, provider.Description(), marker)
		if i == v.choice {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")

		if v.SelectedKey() == keyLLMProvider {
			if model, ok := defaults[provider]; ok {
				b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
				b.WriteString("\n")
			}
		}
		if provider.RequiresAPIKey() {
			b.WriteString(v.styles.Muted.Render("    Requires an API key"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionEdit:
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	case SectionProvider:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] cancel")
	default:
		return ""
	}
}

// SelectedKey returns the key under the cursor.
func (v *View) SelectedKey() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editInput.Width = width - 4
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.choice = 0
	v.err = nil
	v.notice = ""
	v.editInput.SetValue("")
	v.editInput.Blur()
}
