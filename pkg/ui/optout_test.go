package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oarsman/skiff/pkg/wizard"
)

// recordingDispatcher records every command issued through the dispatcher so
// tests can assert on call counts and arguments.
type recordingDispatcher struct {
	optOutCalls   []bool
	completed     int
	openedPaths   []string
	prRepos       []string
	skippedEditor []string
	skippedPR     []string
}

func (d *recordingDispatcher) SetStatsOptOut(_ context.Context, optOut bool) error {
	d.optOutCalls = append(d.optOutCalls, optOut)
	return nil
}

func (d *recordingDispatcher) AdvanceWizard(wizard.Step) error { return nil }

func (d *recordingDispatcher) MarkTutorialCompleted(context.Context) error {
	d.completed++
	return nil
}

func (d *recordingDispatcher) OpenPathInEditor(_ context.Context, path string) error {
	d.openedPaths = append(d.openedPaths, path)
	return nil
}

func (d *recordingDispatcher) CreatePullRequest(_ context.Context, repoPath string) error {
	d.prRepos = append(d.prRepos, repoPath)
	return nil
}

func (d *recordingDispatcher) SkipPickEditorStep(_ context.Context, repoPath string) error {
	d.skippedEditor = append(d.skippedEditor, repoPath)
	return nil
}

func (d *recordingDispatcher) SkipCreatePullRequestStep(_ context.Context, repoPath string) error {
	d.skippedPR = append(d.skippedPR, repoPath)
	return nil
}

func testTheme() Theme {
	return DefaultTheme(lipgloss.DefaultRenderer())
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes a command synchronously and returns the produced message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

type optOutHarness struct {
	model        OptOutModel
	dispatcher   *recordingDispatcher
	advanceCalls []wizard.Step
	doneCalls    int
}

func newOptOutHarness(optOut bool) *optOutHarness {
	h := &optOutHarness{dispatcher: &recordingDispatcher{}}
	advance := func(step wizard.Step) tea.Cmd {
		h.advanceCalls = append(h.advanceCalls, step)
		return nil
	}
	done := func() tea.Cmd {
		h.doneCalls++
		return nil
	}
	h.model = NewOptOutModel(testTheme(), h.dispatcher, optOut, advance, done)
	return h
}

func TestOptOutCheckboxReflectsFlag(t *testing.T) {
	if m := newOptOutHarness(false).model; !m.Checked() {
		t.Error("opt-out false should render a checked box")
	}
	if m := newOptOutHarness(true).model; m.Checked() {
		t.Error("opt-out true should render an unchecked box")
	}
}

func TestOptOutToggleDispatchesNegatedValue(t *testing.T) {
	tests := []struct {
		name       string
		optOut     bool
		wantOptOut bool
	}{
		// Checked (opt-out false): unchecking means opting out.
		{name: "uncheck opts out", optOut: false, wantOptOut: true},
		// Unchecked (opt-out true): checking means opting back in.
		{name: "check opts in", optOut: true, wantOptOut: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newOptOutHarness(tt.optOut)

			m, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeySpace})
			msg := runCmd(t, cmd)

			if len(h.dispatcher.optOutCalls) != 1 {
				t.Fatalf("SetStatsOptOut called %d times, want 1", len(h.dispatcher.optOutCalls))
			}
			if got := h.dispatcher.optOutCalls[0]; got != tt.wantOptOut {
				t.Errorf("SetStatsOptOut(%v), want %v", got, tt.wantOptOut)
			}

			// The flag is external state: the toggle itself must not flip it.
			if m.Checked() != h.model.Checked() {
				t.Error("toggle mutated local checkbox state before the dispatch landed")
			}

			toggled, ok := msg.(optOutToggledMsg)
			if !ok {
				t.Fatalf("command produced %T, want optOutToggledMsg", msg)
			}
			if toggled.optOut != tt.wantOptOut {
				t.Errorf("optOutToggledMsg.optOut = %v, want %v", toggled.optOut, tt.wantOptOut)
			}

			// Host delivers the flag back; only then does the box flip.
			m.SetOptOut(toggled.optOut)
			if m.Checked() == h.model.Checked() {
				t.Error("SetOptOut did not flip the checkbox")
			}
		})
	}
}

func TestOptOutToggleOnEnter(t *testing.T) {
	h := newOptOutHarness(false)
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(t, cmd)
	if len(h.dispatcher.optOutCalls) != 1 {
		t.Fatalf("SetStatsOptOut called %d times, want 1", len(h.dispatcher.optOutCalls))
	}
}

func TestOptOutSubmitSignalsDoneOnce(t *testing.T) {
	h := newOptOutHarness(false)
	m := h.model

	// Tab past cancel to the finish button.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if h.doneCalls != 1 {
		t.Errorf("done called %d times, want 1", h.doneCalls)
	}
	if len(h.advanceCalls) != 0 {
		t.Errorf("submit also advanced the wizard: %v", h.advanceCalls)
	}
	if len(h.dispatcher.optOutCalls) != 0 {
		t.Errorf("submit dispatched an opt-out change: %v", h.dispatcher.optOutCalls)
	}
	_ = m
}

func TestOptOutCancelAdvancesToGitConfiguration(t *testing.T) {
	// The cancel target is fixed regardless of the checkbox state.
	for _, optOut := range []bool{false, true} {
		h := newOptOutHarness(optOut)
		m := h.model

		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if len(h.advanceCalls) != 1 || h.advanceCalls[0] != wizard.StepConfigureGit {
			t.Errorf("optOut=%v: advance calls = %v, want exactly [%s]",
				optOut, h.advanceCalls, wizard.StepConfigureGit)
		}
		if h.doneCalls != 0 {
			t.Errorf("optOut=%v: cancel also signalled done", optOut)
		}
		_ = m
	}
}

func TestOptOutEscCancelsFromAnyControl(t *testing.T) {
	h := newOptOutHarness(false)
	m := h.model

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if len(h.advanceCalls) != 1 || h.advanceCalls[0] != wizard.StepConfigureGit {
		t.Errorf("advance calls = %v, want [%s]", h.advanceCalls, wizard.StepConfigureGit)
	}
	_ = m
}

func TestOptOutViewShowsCheckboxState(t *testing.T) {
	checked := newOptOutHarness(false).model.View()
	if !strings.Contains(checked, "☑") {
		t.Error("checked view missing ☑")
	}
	unchecked := newOptOutHarness(true).model.View()
	if !strings.Contains(unchecked, "☐") {
		t.Error("unchecked view missing ☐")
	}
}
