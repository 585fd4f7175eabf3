package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oarsman/skiff/pkg/config"
	"github.com/oarsman/skiff/pkg/tutorial"
	"github.com/oarsman/skiff/pkg/wizard"
)

func newTestApp(t *testing.T) (App, *recordingDispatcher, *config.Config) {
	t.Helper()
	d := &recordingDispatcher{}
	cfg := config.DefaultConfig()
	app := NewApp(testTheme(), &cfg, d, nil, nil, "/repo", "", tutorial.StepPickEditor)
	return app, d, &cfg
}

// update runs one message through the root model and returns the typed model.
func update(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	typed, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return typed, cmd
}

func TestSubmitDispatchesTutorialCompleted(t *testing.T) {
	app, d, _ := newTestApp(t)

	// Navigate the welcome flow to the opt-out form.
	app, _ = update(t, app, wizardAdvanceMsg{step: wizard.StepUsageOptOut})
	if app.mode != modeOptOut {
		t.Fatalf("mode = %d, want opt-out", app.mode)
	}

	// Focus Finish and submit.
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	app, cmd := update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	if d.completed != 1 {
		t.Fatalf("dispatcher saw %d MarkTutorialCompleted calls after submit, want 1", d.completed)
	}
	done, ok := msg.(onboardingDoneMsg)
	if !ok {
		t.Fatalf("submit produced %T, want onboardingDoneMsg", msg)
	}
	if done.err != nil {
		t.Fatalf("onboardingDoneMsg.err = %v", done.err)
	}

	app, _ = update(t, app, done)
	if app.mode != modeTutorial {
		t.Errorf("mode = %d after completion, want tutorial", app.mode)
	}
}

func TestWelcomeQuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t)
	if app.mode != modeWelcome {
		t.Fatalf("mode = %d, want welcome", app.mode)
	}

	// The welcome hint advertises q; it must actually quit there.
	_, cmd := update(t, app, keyRune('q'))
	if cmd == nil {
		t.Fatal("q on the welcome screen produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q produced %T, want tea.QuitMsg", cmd())
	}

	_, cmd = update(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("ctrl+c produced %T, want tea.QuitMsg", cmd())
	}
}

func TestWelcomeEnterAdvances(t *testing.T) {
	app, _, _ := newTestApp(t)

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.mode != modeConfigureGit {
		t.Errorf("mode = %d after enter on welcome, want configure-git", app.mode)
	}
	if app.gitForm == nil {
		t.Error("configure-git form not constructed")
	}
}
