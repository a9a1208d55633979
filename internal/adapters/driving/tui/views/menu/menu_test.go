package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/messages"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/tui/styles"
)

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestNewView_Items(t *testing.T) {
	view := NewView(nil)

	require.Len(t, view.items, 4)
	assert.Equal(t, Item{Label: "Ask", View: messages.ViewChat}, view.items[0])
	assert.Equal(t, Item{Label: "Settings", View: messages.ViewSettings}, view.items[1])
	assert.Equal(t, Item{Label: "Help", View: messages.ViewHelp}, view.items[2])
	assert.True(t, view.items[3].Quit)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil)

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.Selected(), "cannot move above first item")

	for i := 0; i < 10; i++ {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	}
	assert.Equal(t, 3, view.Selected(), "cannot move below last item")

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 2, view.Selected())
}

func TestView_EnterOpensChat(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewChat, changed.View)
}

func TestView_EnterOnQuit(t *testing.T) {
	view := NewView(nil)
	view.selected = 3

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestView_QKeyQuits(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)

	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestView_Render(t *testing.T) {
	view := NewView(nil)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	output := view.View()
	assert.Contains(t, output, "EduBridge")
	assert.Contains(t, output, "Answers grounded in your PDFs")
	assert.Contains(t, output, "> Ask")
	assert.Contains(t, output, "Settings")
}

func TestView_WindowSize(t *testing.T) {
	view := NewView(nil)

	view.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, view.width)
	assert.Equal(t, 40, view.height)
	assert.True(t, view.ready)
}
