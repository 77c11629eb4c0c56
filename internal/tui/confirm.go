package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a yes/no prompt rendered as a bordered dialog.
//
// Navigation: left/right/tab/shift+tab move focus between Yes and No.
// Enter activates the focused button. y/n/esc/q are shortcuts; ctrl+c
// cancels. Focus starts on No because proceeding changes files.
type ConfirmModel struct {
	message   string
	detail    string
	focusYes  bool
	done      bool
	confirmed bool
	width     int
}

// NewConfirm creates a prompt asking message, with detail shown below it.
func NewConfirm(message, detail string) ConfirmModel {
	return ConfirmModel{message: message, detail: detail}
}

// Confirmed reports whether the operator chose Yes.
func (m ConfirmModel) Confirmed() bool { return m.confirmed }

// Done reports whether the operator has answered.
func (m ConfirmModel) Done() bool { return m.done }

func (m ConfirmModel) Init() tea.Cmd { return nil }

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		switch {
		case key.Matches(msg, confirmYesKey):
			return m.finish(true)
		case key.Matches(msg, confirmNoKey), key.Matches(msg, confirmQuitKey):
			return m.finish(false)
		case key.Matches(msg, confirmEnterKey):
			return m.finish(m.focusYes)
		case key.Matches(msg, confirmToggleKey):
			m.focusYes = !m.focusYes
			return m, nil
		}
	}
	return m, nil
}

func (m ConfirmModel) finish(yes bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.confirmed = yes
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	width := 56
	if m.width > 0 && m.width-8 < width {
		width = max(m.width-8, 20)
	}

	question := lipgloss.NewStyle().Width(width).Bold(true).Render(m.message)
	parts := []string{question}
	if m.detail != "" {
		parts = append(parts, mutedStyle.Width(width).Render(m.detail))
	}

	var yesBtn, noBtn string
	if m.focusYes {
		yesBtn = dialogActiveButtonStyle.Render("Yes")
		noBtn = dialogButtonStyle.Render("No")
	} else {
		yesBtn = dialogButtonStyle.Render("Yes")
		noBtn = dialogActiveButtonStyle.Render("No")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn)
	help := mutedStyle.Render(fmt.Sprintf("%s %s · %s %s · %s %s",
		confirmYesKey.Help().Key, confirmYesKey.Help().Desc,
		confirmNoKey.Help().Key, confirmNoKey.Help().Desc,
		confirmToggleKey.Help().Key, confirmToggleKey.Help().Desc))

	parts = append(parts, "", buttons, "", help)
	return dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)) + "\n"
}

// Confirm runs the prompt on in/out and returns the answer.
func Confirm(in io.Reader, out io.Writer, message, detail string) (bool, error) {
	p := tea.NewProgram(NewConfirm(message, detail), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation prompt: %w", err)
	}
	m, ok := final.(ConfirmModel)
	return ok && m.Confirmed(), nil
}
