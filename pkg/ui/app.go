package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/oarsman/skiff/pkg/config"
	"github.com/oarsman/skiff/pkg/debug"
	"github.com/oarsman/skiff/pkg/dispatch"
	"github.com/oarsman/skiff/pkg/tutorial"
	"github.com/oarsman/skiff/pkg/watcher"
	"github.com/oarsman/skiff/pkg/wizard"
)

// resolveTimeout bounds one round of repository probes.
const resolveTimeout = 10 * time.Second

// mode selects the active screen.
type mode int

const (
	modeWelcome mode = iota
	modeConfigureGit
	modeOptOut
	modeTutorial
)

// Messages exchanged between the host and its children.
type (
	// stepResolvedMsg delivers a freshly resolved tutorial step.
	stepResolvedMsg struct {
		step tutorial.Step
		err  error
	}
	// repoChangedMsg fires when the watcher sees repository activity.
	repoChangedMsg struct{}
	// wizardAdvanceMsg navigates the welcome flow.
	wizardAdvanceMsg struct{ step wizard.Step }
	// onboardingDoneMsg reports the tutorial-complete dispatch that ends the
	// welcome flow.
	onboardingDoneMsg struct{ err error }
	// identityAppliedMsg reports the configure-git write.
	identityAppliedMsg struct{ err error }
)

// App is the root model: it hosts the welcome wizard screens and the
// tutorial panel, owns the externally resolved state (opt-out flag, current
// tutorial step), and feeds it to the children as props.
type App struct {
	mode  mode
	theme Theme

	cfg        *config.Config
	dispatcher dispatch.Dispatcher
	resolver   *tutorial.Resolver
	repoWatch  *watcher.RepoWatcher

	repoPath    string
	editorLabel string

	gitForm *huh.Form
	// identity is heap-allocated: the huh form holds pointers to its fields
	// across copies of this value model.
	identity *wizard.GitIdentity

	optOut OptOutModel
	panel  TutorialPanelModel

	spin      spinner.Model
	resolving bool

	width   int
	height  int
	status  string
	allDone bool
}

// NewApp assembles the root model. repoWatch may be nil (no live updates).
func NewApp(theme Theme, cfg *config.Config, dispatcher dispatch.Dispatcher,
	resolver *tutorial.Resolver, repoWatch *watcher.RepoWatcher,
	repoPath, editorLabel string, initial tutorial.Step) App {

	a := App{
		theme:       theme,
		cfg:         cfg,
		dispatcher:  dispatcher,
		resolver:    resolver,
		repoWatch:   repoWatch,
		repoPath:    repoPath,
		editorLabel: editorLabel,
		identity:    &wizard.GitIdentity{},
		resolving:   true,
		width:       80,
		height:      24,
	}

	if cfg.OnboardingDone {
		a.mode = modeTutorial
	} else {
		a.mode = modeWelcome
	}

	a.optOut = NewOptOutModel(theme, dispatcher, cfg.StatsOptOut, a.advanceCmd, a.doneCmd)
	a.panel = NewTutorialPanelModel(theme, dispatcher, repoPath, editorLabel, initial)
	a.spin = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Renderer.NewStyle().Foreground(theme.Primary)),
	)
	return a
}

// advanceCmd is the opt-out form's navigation callback.
func (a App) advanceCmd(step wizard.Step) tea.Cmd {
	dispatcher := a.dispatcher
	return func() tea.Msg {
		if err := dispatcher.AdvanceWizard(step); err != nil {
			debug.Log("ui: advance wizard: %v", err)
		}
		return wizardAdvanceMsg{step: step}
	}
}

// doneCmd is the opt-out form's completion callback. Completion is a command
// like everything else: the dispatcher owns the persistence.
func (a App) doneCmd() tea.Cmd {
	dispatcher := a.dispatcher
	return func() tea.Msg {
		return onboardingDoneMsg{err: dispatcher.MarkTutorialCompleted(context.Background())}
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.resolveStepCmd(), a.spin.Tick}
	if a.repoWatch != nil {
		cmds = append(cmds, a.waitForRepoChange())
	}
	return tea.Batch(cmds...)
}

func (a App) resolveStepCmd() tea.Cmd {
	resolver := a.resolver
	repoPath := a.repoPath
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		step, err := resolver.Resolve(ctx, repoPath)
		return stepResolvedMsg{step: step, err: err}
	}
}

func (a App) waitForRepoChange() tea.Cmd {
	ch := a.repoWatch.Changed()
	return func() tea.Msg {
		<-ch
		return repoChangedMsg{}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.panel.SetSize(msg.Width, msg.Height)
		a.optOut.SetWidth(min(msg.Width-4, 70))
		return a, nil

	case repoChangedMsg:
		a.resolving = true
		return a, tea.Batch(a.resolveStepCmd(), a.waitForRepoChange(), a.spin.Tick)

	case spinner.TickMsg:
		if !a.resolving {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case stepResolvedMsg:
		a.resolving = false
		if msg.err != nil {
			debug.Log("ui: resolve step: %v", msg.err)
			a.status = "could not read repository state"
			return a, nil
		}
		a.status = ""
		a.allDone = msg.step == tutorial.StepAllDone
		a.panel.SetCurrentStep(msg.step)
		return a, nil

	case stepActionMsg:
		if msg.err != nil {
			debug.Log("ui: step action %s: %v", msg.step, msg.err)
			a.status = "action failed; see SKIFF_DEBUG output"
			return a, nil
		}
		// Skips and PR creation change tutorial state outside the watcher's
		// view, so resolve explicitly.
		a.resolving = true
		return a, tea.Batch(a.resolveStepCmd(), a.spin.Tick)

	case optOutToggledMsg:
		if msg.err != nil {
			debug.Log("ui: set opt-out: %v", msg.err)
			a.status = "could not save preference"
			return a, nil
		}
		a.cfg.StatsOptOut = msg.optOut
		a.optOut.SetOptOut(msg.optOut)
		return a, nil

	case wizardAdvanceMsg:
		return a.navigate(msg.step), nil

	case identityAppliedMsg:
		if msg.err != nil {
			debug.Log("ui: apply git identity: %v", msg.err)
		}
		return a.navigate(wizard.StepConfigureGit.Next()), nil

	case onboardingDoneMsg:
		if msg.err != nil {
			debug.Log("ui: mark tutorial completed: %v", msg.err)
			a.status = "could not save progress"
		}
		a.mode = modeTutorial
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Non-key messages may still matter to an embedded huh form (blink etc.).
	if a.mode == modeConfigureGit && a.gitForm != nil {
		return a.updateGitForm(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	// "q" quits on the screens without text entry; the git form and the
	// opt-out form keep the key for themselves.
	if msg.String() == "q" && (a.mode == modeWelcome || a.mode == modeTutorial) {
		return a, tea.Quit
	}

	switch a.mode {
	case modeWelcome:
		if msg.String() == "enter" {
			return a.navigate(wizard.StepWelcome.Next()), nil
		}
		return a, nil

	case modeConfigureGit:
		return a.updateGitForm(msg)

	case modeOptOut:
		var cmd tea.Cmd
		a.optOut, cmd = a.optOut.Update(msg)
		return a, cmd

	case modeTutorial:
		var cmd tea.Cmd
		a.panel, cmd = a.panel.Update(msg)
		return a, cmd
	}
	return a, nil
}

// navigate switches to the screen for the given wizard step.
func (a App) navigate(step wizard.Step) App {
	switch step {
	case wizard.StepWelcome:
		a.mode = modeWelcome
	case wizard.StepConfigureGit:
		a.mode = modeConfigureGit
		a.gitForm = wizard.ConfigureGitForm(a.identity)
	case wizard.StepUsageOptOut:
		a.mode = modeOptOut
		a.optOut.SetOptOut(a.cfg.StatsOptOut)
	case wizard.StepDone:
		a.mode = modeTutorial
	}
	return a
}

func (a App) updateGitForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.gitForm == nil {
		return a, nil
	}
	model, cmd := a.gitForm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		a.gitForm = f
	}

	switch a.gitForm.State {
	case huh.StateCompleted:
		id := *a.identity
		return a, func() tea.Msg {
			return identityAppliedMsg{err: id.Apply(context.Background())}
		}
	case huh.StateAborted:
		return a.navigate(wizard.StepWelcome), nil
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	var body string
	switch a.mode {
	case modeWelcome:
		body = a.viewWelcome()
	case modeConfigureGit:
		if a.gitForm != nil {
			body = a.gitForm.View()
		}
	case modeOptOut:
		body = a.optOut.View()
	case modeTutorial:
		body = a.panel.View()
		if a.allDone {
			doneStyle := a.theme.Renderer.NewStyle().Bold(true).Foreground(a.theme.Done)
			body += "\n" + doneStyle.Render("All steps complete — you know your way around. 🎉")
		}
	}

	if a.mode == modeTutorial && a.resolving {
		subStyle := a.theme.Renderer.NewStyle().Foreground(a.theme.Subtext)
		body += "\n" + a.spin.View() + subStyle.Render("checking repository…")
	}
	if a.status != "" {
		statusStyle := a.theme.Renderer.NewStyle().Foreground(a.theme.Current)
		body += "\n" + statusStyle.Render(a.status)
	}
	return body
}

func (a App) viewWelcome() string {
	r := a.theme.Renderer
	titleStyle := r.NewStyle().Bold(true).Foreground(a.theme.Primary)
	subStyle := r.NewStyle().Foreground(a.theme.Subtext)
	keyStyle := r.NewStyle().Bold(true).Foreground(a.theme.Primary)

	lines := []string{
		titleStyle.Render("Welcome to skiff"),
		"",
		subStyle.Render("A small boat for your Git workflow. Two quick setup"),
		subStyle.Render("screens, then a guided tour of your first branch and"),
		subStyle.Render("pull request."),
		"",
		keyStyle.Render("Enter") + subStyle.Render(" to begin · ") +
			keyStyle.Render("q") + subStyle.Render(" to quit"),
	}
	return strings.Join(lines, "\n")
}
