// Package transcript provides the scrolling chat history component for the TUI.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/styles"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// Entry is one exchange in the transcript.
// Either Answer or Note is rendered under the question; Err overrides both.
type Entry struct {
	Question string
	Answer   string
	Sources  []domain.Segment
	Note     string
	Err      error
}

// Transcript renders chat entries inside a scrollable viewport.
type Transcript struct {
	entries  []Entry
	styles   *styles.Styles
	viewport viewport.Model
	width    int
	height   int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := &Transcript{
		styles:   s,
		viewport: viewport.New(80, 10),
		width:    80,
		height:   10,
	}
	t.refresh()
	return t
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update forwards scrolling keys and mouse wheel events to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// Append adds an entry and scrolls to it.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
	t.viewport.GotoBottom()
}

// Clear removes every entry.
func (t *Transcript) Clear() {
	t.entries = nil
	t.refresh()
}

// Entries returns the transcript entries.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Content returns the full rendered transcript, including off-screen lines.
func (t *Transcript) Content() string {
	return t.render()
}

// ScrollUp moves the view up by half a page.
func (t *Transcript) ScrollUp() {
	t.viewport.HalfViewUp()
}

// ScrollDown moves the view down by half a page.
func (t *Transcript) ScrollDown() {
	t.viewport.HalfViewDown()
}

// AtBottom reports whether the newest entry is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 3 {
		height = 3
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// Width returns the current width.
func (t *Transcript) Width() int {
	return t.width
}

// Height returns the current height.
func (t *Transcript) Height() int {
	return t.height
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
}

func (t *Transcript) render() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("No questions yet. Load a PDF, then ask about it.")
	}

	wrap := t.width - 4
	if wrap < 20 {
		wrap = 20
	}

	blocks := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		var b strings.Builder
		b.WriteString(t.styles.Question.Render("You: " + e.Question))
		b.WriteString("\n")

		switch {
		case e.Err != nil:
			b.WriteString(t.styles.Error.Width(wrap).Render("Error: " + e.Err.Error()))
		case e.Note != "":
			b.WriteString(t.styles.Muted.Width(wrap).Render(e.Note))
		case e.Answer == domain.NotFound:
			b.WriteString(t.styles.NotFound.Render(domain.NotFound))
		default:
			b.WriteString(t.styles.Answer.Width(wrap).Render(e.Answer))
			for _, src := range e.Sources {
				b.WriteString("\n")
				b.WriteString(t.styles.Citation.Render(src.Citation()))
			}
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
