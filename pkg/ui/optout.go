package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oarsman/skiff/pkg/dispatch"
	"github.com/oarsman/skiff/pkg/wizard"
)

// optOutButton identifies the focused form control.
type optOutButton int

const (
	optOutCheckbox optOutButton = iota
	optOutCancel
	optOutFinish
)

// OptOutModel is the usage opt-out form shown at the end of the welcome
// wizard. The checkbox's checked state is the negation of the externally
// supplied opt-out flag (checked means "submit usage data"). Toggling only
// dispatches a command; the flag itself is external state delivered back via
// SetOptOut. Submit and cancel are fire-and-forget delegations to the
// supplied callbacks.
type OptOutModel struct {
	optOut     bool // external flag, never mutated locally
	focused    optOutButton
	dispatcher dispatch.Dispatcher
	// advance navigates the wizard; cancel always targets the
	// git-configuration step. done signals onboarding completion.
	advance func(wizard.Step) tea.Cmd
	done    func() tea.Cmd

	width int
	theme Theme
}

// NewOptOutModel creates the form. advance and done must be non-nil.
func NewOptOutModel(theme Theme, dispatcher dispatch.Dispatcher, optOut bool, advance func(wizard.Step) tea.Cmd, done func() tea.Cmd) OptOutModel {
	return OptOutModel{
		optOut:     optOut,
		focused:    optOutCheckbox,
		dispatcher: dispatcher,
		advance:    advance,
		done:       done,
		width:      70,
		theme:      theme,
	}
}

// Init implements tea.Model.
func (m OptOutModel) Init() tea.Cmd {
	return nil
}

// SetOptOut delivers the externally owned flag after a dispatch round-trip.
func (m *OptOutModel) SetOptOut(optOut bool) {
	m.optOut = optOut
}

// SetWidth sets the form width.
func (m *OptOutModel) SetWidth(w int) {
	m.width = w
}

// Checked reports the checkbox state: the negation of the opt-out flag.
func (m OptOutModel) Checked() bool {
	return !m.optOut
}

// Update handles keyboard input.
func (m OptOutModel) Update(msg tea.Msg) (OptOutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "j":
			if m.focused < optOutFinish {
				m.focused++
			}
		case "shift+tab", "up", "k":
			if m.focused > optOutCheckbox {
				m.focused--
			}

		case " ":
			if m.focused == optOutCheckbox {
				return m, m.toggleCmd()
			}

		case "enter":
			switch m.focused {
			case optOutCheckbox:
				return m, m.toggleCmd()
			case optOutCancel:
				return m, m.advance(wizard.StepConfigureGit)
			case optOutFinish:
				return m, m.done()
			}

		case "esc":
			return m, m.advance(wizard.StepConfigureGit)
		}
	}
	return m, nil
}

// optOutToggledMsg reports the dispatch outcome so the host can refresh the
// external flag.
type optOutToggledMsg struct {
	optOut bool
	err    error
}

// toggleCmd dispatches the set-opt-out command with the negated new checked
// value. No local state changes here; the host delivers the new flag via
// SetOptOut once the command lands.
func (m OptOutModel) toggleCmd() tea.Cmd {
	newChecked := !m.Checked()
	return func() tea.Msg {
		err := m.dispatcher.SetStatsOptOut(context.Background(), !newChecked)
		return optOutToggledMsg{optOut: !newChecked, err: err}
	}
}

// View renders the form.
func (m OptOutModel) View() string {
	r := m.theme.Renderer

	titleStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	bodyStyle := r.NewStyle().Foreground(m.theme.Subtext)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Make skiff better"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(wrap(
		"skiff can periodically submit anonymous usage measures: which views "+
			"get used and how often. No repository contents, paths, or "+
			"identities are ever included.", m.width-6)))
	b.WriteString("\n\n")

	box := "☐"
	if m.Checked() {
		box = "☑"
	}
	checkboxLine := box + " Help improve skiff by submitting usage data"
	b.WriteString(m.renderControl(checkboxLine, m.focused == optOutCheckbox))
	b.WriteString("\n\n")

	b.WriteString(m.renderControl("[ Back: configure Git ]", m.focused == optOutCancel))
	b.WriteString("  ")
	b.WriteString(m.renderControl("[ Finish ]", m.focused == optOutFinish))

	formStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2).
		Width(m.width)

	return formStyle.Render(b.String())
}

func (m OptOutModel) renderControl(label string, focused bool) string {
	r := m.theme.Renderer
	if focused {
		return r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(label)
	}
	return r.NewStyle().Foreground(m.theme.Subtext).Render(label)
}

// wrap is a minimal greedy word wrapper for the explanatory text.
func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if line+len(w)+1 > width && line > 0 {
			b.WriteString("\n")
			line = 0
		} else if i > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
