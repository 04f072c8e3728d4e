package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput with MindCare styling.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	disabled    bool
}

// NewTextInput creates a new focused text input. charLimit 0 means no limit.
func NewTextInput(placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{
		Model:       ti,
		NumericOnly: numericOnly,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Key presses are ignored while disabled. In
// numeric mode only digits and a single leading minus sign get through.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if t.disabled {
			return t, nil
		}
		if t.NumericOnly {
			key := kmsg.String()
			if key == "space" || (len(key) == 1 && !t.acceptsNumeric(key[0])) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) acceptsNumeric(c byte) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return c == '-' && t.Model.Position() == 0 && !strings.HasPrefix(t.Model.Value(), "-")
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.Model.CursorEnd()
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// NumericValue returns the input value as an integer. Empty input and a
// lone minus sign are 0.
func (t TextInput) NumericValue() (int, error) {
	if v := t.Model.Value(); v == "" || v == "-" {
		return 0, nil
	}
	return strconv.Atoi(t.Model.Value())
}

// SetDisabled blocks or re-enables typing.
func (t *TextInput) SetDisabled(disabled bool) {
	t.disabled = disabled
	if disabled {
		t.Model.Blur()
	} else {
		t.Model.Focus()
	}
}

// Disabled reports whether typing is blocked.
func (t TextInput) Disabled() bool {
	return t.disabled
}
