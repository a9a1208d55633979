// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/components/input"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/components/status"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/components/transcript"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/keymap"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/messages"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/styles"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
)

// Errors returned when the view was built without a service.
var (
	ErrNoTutorService  = errors.New("tutor service is required")
	ErrNoIngestService = errors.New("ingest service is required")
)

const helpText = `Commands:
  load <path>   load a PDF, or every PDF in a directory
  load          load the configured library directory
  status        show loaded documents and model
  clear         clear the conversation
  help          show this message
  exit, quit    leave edubridge
Anything else is answered from the loaded documents.`

// View is the chat view: a transcript above a question prompt and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	tutor  driving.TutorService
	ingest driving.IngestService
	status driving.StatusService
	ctx    context.Context

	libraryDir string
	width      int
	height     int
	ready      bool
	err        error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	tutor driving.TutorService,
	ingest driving.IngestService,
	statusService driving.StatusService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: transcript.New(s),
		statusbar:  status.NewBar(s, km),
		tutor:      tutor,
		ingest:     ingest,
		status:     statusService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context passed to service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithLibraryDir sets the directory loaded by a bare load command.
func (v *View) WithLibraryDir(dir string) *View {
	v.libraryDir = dir
	return v
}

// Init focuses the prompt and refreshes the status bar.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.fetchStatus(false))
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		return v.handleAnswer(msg)

	case messages.LoadCompleted:
		v.handleLoad(msg)
		return v, v.fetchStatus(false)

	case messages.StatusLoaded:
		v.handleStatus(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	v.transcript, cmd = v.transcript.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Clear):
		v.clear()
		return v, nil
	case key.Matches(msg, v.keymap.ScrollUp):
		v.transcript.ScrollUp()
		return v, nil
	case key.Matches(msg, v.keymap.ScrollDown):
		v.transcript.ScrollDown()
		return v, nil
	case key.Matches(msg, v.keymap.Ask):
		return v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the prompt to the tutor unless a request is already in flight.
func (v *View) submit() (*View, tea.Cmd) {
	line := strings.TrimSpace(v.input.Value())
	if line == "" || v.statusbar.Busy() {
		return v, nil
	}
	v.input.SetValue("")
	v.err = nil
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateThinking)
	return v, tea.Batch(v.ask(line), v.statusbar.Tick())
}

func (v *View) ask(line string) tea.Cmd {
	return func() tea.Msg {
		if v.tutor == nil {
			return messages.AnswerReceived{Input: line, Err: ErrNoTutorService}
		}
		reply, err := v.tutor.Ask(v.ctx, line)
		return messages.AnswerReceived{Input: line, Reply: reply, Err: err}
	}
}

// handleAnswer records an answer or dispatches a system command.
func (v *View) handleAnswer(msg messages.AnswerReceived) (*View, tea.Cmd) {
	v.statusbar.SetState(status.StateReady)

	if msg.Err != nil {
		v.err = msg.Err
		v.append(transcript.Entry{Question: msg.Input, Err: msg.Err})
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	reply := msg.Reply
	if reply.Intent != domain.IntentSystemCommand {
		v.append(transcript.Entry{Question: reply.Input, Answer: reply.Answer, Sources: reply.Sources})
		return v, nil
	}

	switch reply.Command {
	case domain.CommandExit, domain.CommandQuit:
		return v, func() tea.Msg { return messages.Quit{} }
	case domain.CommandClear:
		v.clear()
		return v, nil
	case domain.CommandHelp:
		v.append(transcript.Entry{Question: reply.Input, Note: helpText})
		return v, nil
	case domain.CommandStatus:
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetMessage("Checking status")
		return v, tea.Batch(v.fetchStatus(true), v.statusbar.Tick())
	case domain.CommandLoad:
		return v.load(reply.Args)
	}
	return v, nil
}

// load starts ingesting path, or the library directory when path is empty.
// Each load replaces whatever was loaded before.
func (v *View) load(path string) (*View, tea.Cmd) {
	if path == "" {
		path = v.libraryDir
	}
	if path == "" {
		v.append(transcript.Entry{Question: "load", Note: "Usage: load <path>"})
		return v, nil
	}
	if v.ingest == nil {
		v.append(transcript.Entry{Question: "load " + path, Err: ErrNoIngestService})
		return v, nil
	}

	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("Loading " + path)
	ctx := v.ctx
	ingest := v.ingest
	return v, tea.Batch(func() tea.Msg {
		result, err := ingest.Load(ctx, path, domain.IngestOptions{})
		return messages.LoadCompleted{Path: path, Result: result, Err: err}
	}, v.statusbar.Tick())
}

func (v *View) handleLoad(msg messages.LoadCompleted) {
	v.statusbar.Clear()
	entry := transcript.Entry{Question: "load " + msg.Path}
	if msg.Result != nil {
		entry.Note = SummariseLoad(msg.Result)
	}
	if msg.Err != nil {
		v.err = msg.Err
		entry.Err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	}
	v.append(entry)
}

func (v *View) fetchStatus(requested bool) tea.Cmd {
	if v.status == nil {
		return nil
	}
	ctx := v.ctx
	svc := v.status
	return func() tea.Msg {
		st, err := svc.Status(ctx)
		return messages.StatusLoaded{Status: st, Requested: requested, Err: err}
	}
}

func (v *View) handleStatus(msg messages.StatusLoaded) {
	if msg.Requested {
		v.statusbar.Clear()
	}
	if msg.Err != nil {
		if msg.Requested {
			v.append(transcript.Entry{Question: "status", Err: msg.Err})
		}
		return
	}
	v.statusbar.SetLoaded(len(msg.Status.Documents), msg.Status.Model)
	if msg.Requested {
		v.append(transcript.Entry{Question: "status", Note: FormatStatus(msg.Status)})
	}
}

func (v *View) append(e transcript.Entry) {
	v.transcript.Append(e)
	v.statusbar.SetExchanges(v.transcript.Len())
}

func (v *View) clear() {
	v.transcript.Clear()
	v.statusbar.SetExchanges(0)
	v.err = nil
}

// SummariseLoad renders an ingest result as a transcript note.
func SummariseLoad(r *domain.IngestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Loaded %d of %d document(s), %d segments.", r.Loaded(), r.Files, r.Segments)
	for _, d := range r.Documents {
		fmt.Fprintf(&b, "\n  %s: %d pages", d.ID, d.Pages)
		if d.OCRPages > 0 {
			fmt.Fprintf(&b, " (%d via OCR)", d.OCRPages)
		}
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "\n  skipped %s: %s", f.Path, f.Reason)
	}
	return b.String()
}

// FormatStatus renders a readiness report as a transcript note.
func FormatStatus(st *domain.Status) string {
	loaded := "No"
	if st.Loaded {
		loaded = "Yes (" + strings.Join(st.Documents, ", ") + ")"
	}
	lines := []string{
		"PDF Loaded: " + loaded,
		"Model: " + st.Model,
		"Ollama URL: " + st.BaseURL,
		"Status: " + st.State(),
	}
	if st.GeneratorError != "" {
		lines = append(lines, "Generator: "+st.GeneratorError)
	}
	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("EduBridge"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-8) // header, prompt box, status bar
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Transcript returns the conversation so far.
func (v *View) Transcript() []transcript.Entry {
	return v.transcript.Entries()
}

// Input returns the current prompt text.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the prompt text.
func (v *View) SetInput(s string) {
	v.input.SetValue(s)
}

// Busy reports whether a request is in flight.
func (v *View) Busy() bool {
	return v.statusbar.Busy()
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset focuses the prompt and clears any error, keeping the transcript.
func (v *View) Reset() {
	v.input.Focus()
	v.input.SetValue("")
	v.err = nil
	v.statusbar.Clear()
}
