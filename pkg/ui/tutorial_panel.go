package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/oarsman/skiff/pkg/debug"
	"github.com/oarsman/skiff/pkg/dispatch"
	"github.com/oarsman/skiff/pkg/tutorial"
)

// TutorialPanelModel renders the six tutorial steps as an accordion: every
// step shows a summary row, at most one shows its detail body. Completion
// and next-step queries delegate to pkg/tutorial against the externally
// resolved current step; this model owns only the expansion state and the
// keyboard cursor.
type TutorialPanelModel struct {
	panel    tutorial.Panel
	cursor   int // index into tutorial.Sequence of the focused summary row
	repoPath string
	// editorLabel is the resolved external editor's display name; empty
	// hides the open-in-editor affordance.
	editorLabel string
	dispatcher  dispatch.Dispatcher

	width    int
	height   int
	theme    Theme
	markdown *MarkdownRenderer
}

// NewTutorialPanelModel creates a panel positioned at current.
func NewTutorialPanelModel(theme Theme, dispatcher dispatch.Dispatcher, repoPath, editorLabel string, current tutorial.Step) TutorialPanelModel {
	return TutorialPanelModel{
		panel:       tutorial.NewPanel(current),
		cursor:      clampIndex(tutorial.Index(current)),
		repoPath:    repoPath,
		editorLabel: editorLabel,
		dispatcher:  dispatcher,
		width:       80,
		height:      24,
		theme:       theme,
		markdown:    NewMarkdownRenderer(70),
	}
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(tutorial.Sequence) {
		return len(tutorial.Sequence) - 1
	}
	return i
}

// Init implements tea.Model.
func (m TutorialPanelModel) Init() tea.Cmd {
	return nil
}

// SetCurrentStep delivers a new externally resolved current step. The
// accordion resets to the new step only when the value actually changed.
func (m *TutorialPanelModel) SetCurrentStep(step tutorial.Step) {
	prev := m.panel.CurrentStep()
	m.panel = m.panel.Apply(tutorial.ExternalStepChanged{Step: step})
	if step != prev {
		m.cursor = clampIndex(tutorial.Index(step))
		debug.Log("tutorial panel: current step %s -> %s", prev, step)
	}
}

// SetEditorLabel updates the external editor label (empty = none).
func (m *TutorialPanelModel) SetEditorLabel(label string) {
	m.editorLabel = label
}

// SetSize sets the panel dimensions.
func (m *TutorialPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	bodyWidth := width - 10
	if bodyWidth > 74 {
		bodyWidth = 74
	}
	m.markdown.SetWidth(bodyWidth)
}

// ExpandedStep exposes the accordion position for the host model.
func (m TutorialPanelModel) ExpandedStep() tutorial.Step {
	return m.panel.ExpandedStep()
}

// CurrentStep exposes the last delivered current step.
func (m TutorialPanelModel) CurrentStep() tutorial.Step {
	return m.panel.CurrentStep()
}

// Update handles keyboard input.
func (m TutorialPanelModel) Update(msg tea.Msg) (TutorialPanelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(tutorial.Sequence)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = len(tutorial.Sequence) - 1

		case "enter", " ":
			// Expanding is unconditional: completed and future steps can be
			// opened for reading.
			m.panel = m.panel.Apply(tutorial.UserExpanded{Step: tutorial.Sequence[m.cursor]})

		case "s":
			step := tutorial.Sequence[m.cursor]
			if m.panel.ShowSkip(step) {
				return m, m.skipCmd(step)
			}

		case "o":
			step := tutorial.Sequence[m.cursor]
			if step == tutorial.StepEditFile && m.editorLabel != "" && m.panel.IsExpanded(step) {
				return m, m.openEditorCmd()
			}

		case "p":
			step := tutorial.Sequence[m.cursor]
			if step == tutorial.StepOpenPullRequest && m.panel.IsExpanded(step) &&
				tutorial.IsNextTodo(step, m.panel.CurrentStep()) {
				return m, m.createPRCmd()
			}
		}
	}
	return m, nil
}

// stepActionMsg reports the outcome of a dispatched step command so the host
// can trigger a re-resolve.
type stepActionMsg struct {
	step tutorial.Step
	err  error
}

func (m TutorialPanelModel) skipCmd(step tutorial.Step) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch step {
		case tutorial.StepPickEditor:
			err = m.dispatcher.SkipPickEditorStep(ctx, m.repoPath)
		case tutorial.StepOpenPullRequest:
			err = m.dispatcher.SkipCreatePullRequestStep(ctx, m.repoPath)
		}
		return stepActionMsg{step: step, err: err}
	}
}

func (m TutorialPanelModel) openEditorCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.dispatcher.OpenPathInEditor(context.Background(), m.repoPath)
		return stepActionMsg{step: tutorial.StepEditFile, err: err}
	}
}

func (m TutorialPanelModel) createPRCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.dispatcher.CreatePullRequest(context.Background(), m.repoPath)
		return stepActionMsg{step: tutorial.StepOpenPullRequest, err: err}
	}
}

// View renders the panel.
func (m TutorialPanelModel) View() string {
	r := m.theme.Renderer

	var b strings.Builder

	titleStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	subStyle := r.NewStyle().Foreground(m.theme.Subtext)
	b.WriteString(titleStyle.Render("Get started with Git"))
	b.WriteString("\n")
	b.WriteString(subStyle.Render("Work through the steps below; skiff tracks your progress from the repository."))
	b.WriteString("\n\n")

	for i, step := range tutorial.Sequence {
		b.WriteString(m.renderSummaryRow(i, step))
		b.WriteString("\n")
		if m.panel.IsExpanded(step) {
			b.WriteString(m.renderBody(step))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	panelStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2).
		Width(m.width - 2)

	return panelStyle.Render(b.String())
}

// renderSummaryRow renders one step's summary line: status icon, title,
// cursor marker.
func (m TutorialPanelModel) renderSummaryRow(i int, step tutorial.Step) string {
	r := m.theme.Renderer
	current := m.panel.CurrentStep()

	var icon string
	switch {
	case tutorial.IsComplete(step, current):
		icon = r.NewStyle().Foreground(m.theme.Done).Render("✓")
	case tutorial.IsNextTodo(step, current):
		icon = r.NewStyle().Bold(true).Foreground(m.theme.Current).
			Render(fmt.Sprintf("%d", tutorial.Number(step)))
	default:
		icon = r.NewStyle().Foreground(m.theme.Muted).
			Render(fmt.Sprintf("%d", tutorial.Number(step)))
	}

	title := runewidth.Truncate(step.Title(), m.width-12, "…")
	titleStyle := r.NewStyle().Foreground(m.theme.Subtext)
	if tutorial.IsNextTodo(step, current) {
		titleStyle = r.NewStyle().Bold(true)
	}

	marker := "  "
	if i == m.cursor {
		marker = r.NewStyle().Foreground(m.theme.Primary).Render("▸ ")
	}

	chevron := "▸"
	if m.panel.IsExpanded(step) {
		chevron = "▾"
	}

	return fmt.Sprintf("%s%s %s %s", marker, icon, titleStyle.Render(title),
		r.NewStyle().Foreground(m.theme.Muted).Render(chevron))
}

// renderBody renders the expanded step's detail: markdown body plus any
// affordance hints that apply.
func (m TutorialPanelModel) renderBody(step tutorial.Step) string {
	r := m.theme.Renderer

	body := m.markdown.Render(stepBody(step, m.editorLabel))
	indented := indentLines(body, "    ")

	var hints []string
	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	descStyle := r.NewStyle().Foreground(m.theme.Subtext)

	if step == tutorial.StepEditFile && m.editorLabel != "" {
		hints = append(hints, keyStyle.Render("o")+descStyle.Render(" open in "+m.editorLabel))
	}
	if step == tutorial.StepOpenPullRequest && m.panel.IsExpanded(step) &&
		tutorial.IsNextTodo(step, m.panel.CurrentStep()) {
		hints = append(hints, keyStyle.Render("p")+descStyle.Render(" open pull request"))
	}
	if m.panel.ShowSkip(step) {
		hints = append(hints, keyStyle.Render("s")+descStyle.Render(" skip this step"))
	}

	out := indented
	if len(hints) > 0 {
		sep := r.NewStyle().Foreground(m.theme.Muted).Render(" │ ")
		out += "\n    " + strings.Join(hints, sep)
	}
	return out
}

func (m TutorialPanelModel) renderFooter() string {
	r := m.theme.Renderer
	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	descStyle := r.NewStyle().Foreground(m.theme.Subtext)
	sep := r.NewStyle().Foreground(m.theme.Muted).Render(" │ ")

	hints := []string{
		keyStyle.Render("j/k") + descStyle.Render(" move"),
		keyStyle.Render("Enter") + descStyle.Render(" expand"),
		keyStyle.Render("q") + descStyle.Render(" quit"),
	}
	return strings.Join(hints, sep)
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
