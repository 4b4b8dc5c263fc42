package table

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tabula/pkg/ui/theme"
)

// jumpField is the jump-to-page input. Bubble Tea text inputs have no
// selection, so "select all" is emulated: while selected, the next edit
// replaces the whole value.
type jumpField struct {
	input    textinput.Model
	selected bool
}

func newJumpField(t *theme.Theme) *jumpField {
	ti := textinput.New()
	ti.Prompt = "Go to page: "
	ti.Placeholder = "#"
	ti.CharLimit = 9
	ti.Width = 6
	ti.PromptStyle = t.JumpPromptStyle
	ti.TextStyle = t.CellStyle.UnsetPadding()

	return &jumpField{input: ti}
}

func (f *jumpField) Focus() tea.Cmd {
	return f.input.Focus()
}

func (f *jumpField) Blur() {
	f.selected = false
	f.input.Blur()
}

func (f *jumpField) Focused() bool {
	return f.input.Focused()
}

func (f *jumpField) Value() string {
	return f.input.Value()
}

func (f *jumpField) Reset() {
	f.selected = false
	f.input.Reset()
}

func (f *jumpField) SelectAll() {
	f.selected = f.input.Value() != ""
	f.input.CursorEnd()
}

func (f *jumpField) Update(msg tea.KeyMsg) tea.Cmd {
	if f.selected {
		f.selected = false

		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			f.input.Reset()

			return nil

		case tea.KeyRunes, tea.KeySpace:
			f.input.Reset()
		}
	}

	var cmd tea.Cmd

	f.input, cmd = f.input.Update(msg)

	return cmd
}

func (f *jumpField) View() string {
	if f.selected {
		return f.input.PromptStyle.Render(f.input.Prompt) +
			f.input.TextStyle.Reverse(true).Render(f.input.Value())
	}

	return f.input.View()
}
