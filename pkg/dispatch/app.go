package dispatch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/oarsman/skiff/pkg/config"
	"github.com/oarsman/skiff/pkg/debug"
	"github.com/oarsman/skiff/pkg/editor"
	"github.com/oarsman/skiff/pkg/gitexec"
	"github.com/oarsman/skiff/pkg/stats"
	"github.com/oarsman/skiff/pkg/tutorial"
	"github.com/oarsman/skiff/pkg/wizard"
)

// App is the production Dispatcher. It owns the side effects the views
// delegate: config persistence, tutorial state flags, stats gating, editor
// and browser launches.
type App struct {
	Config    *config.Config
	Reporter  *stats.Reporter
	Store     *tutorial.Store
	Repo      *gitexec.Repo
	Editor    editor.Editor
	HasEditor bool

	// OnAdvanceWizard and OnTutorialCompleted deliver navigation back to
	// whatever hosts the views. Either may be nil.
	OnAdvanceWizard     func(wizard.Step)
	OnTutorialCompleted func()

	// OpenURL is swappable for tests; nil selects the platform browser.
	OpenURL func(url string) error
}

var _ Dispatcher = (*App)(nil)

// SetStatsOptOut persists the flag and gates the reporter.
func (a *App) SetStatsOptOut(ctx context.Context, optOut bool) error {
	a.Config.StatsOptOut = optOut
	if err := config.Save(*a.Config); err != nil {
		return fmt.Errorf("saving opt-out flag: %w", err)
	}
	if a.Reporter != nil {
		if err := a.Reporter.SetOptOut(ctx, optOut); err != nil {
			return err
		}
	}
	debug.Log("dispatch: stats opt-out set to %v", optOut)
	return nil
}

// AdvanceWizard forwards the navigation to the host.
func (a *App) AdvanceWizard(step wizard.Step) error {
	if a.OnAdvanceWizard != nil {
		a.OnAdvanceWizard(step)
	}
	return nil
}

// MarkTutorialCompleted persists that the welcome flow finished and records
// completion in the tutorial state file.
func (a *App) MarkTutorialCompleted(ctx context.Context) error {
	a.Config.OnboardingDone = true
	if err := config.Save(*a.Config); err != nil {
		return fmt.Errorf("saving onboarding flag: %w", err)
	}
	if a.Repo != nil {
		if err := a.Store.Update(a.Repo.Path(), func(st *tutorial.State) {
			st.Completed = true
		}); err != nil {
			return err
		}
	}
	if a.OnTutorialCompleted != nil {
		a.OnTutorialCompleted()
	}
	return nil
}

// OpenPathInEditor opens path in the resolved editor. Without a resolved
// editor this is a silent no-op; the views hide the affordance in that case
// anyway.
func (a *App) OpenPathInEditor(ctx context.Context, path string) error {
	if !a.HasEditor {
		return nil
	}
	return a.Editor.OpenPath(ctx, path)
}

// CreatePullRequest opens the compare page for the current branch, copies
// the URL to the clipboard as a fallback, and records that a PR was started
// so the resolver can mark the step met.
func (a *App) CreatePullRequest(ctx context.Context, repoPath string) error {
	repo := a.Repo
	if repo == nil || repo.Path() != repoPath {
		repo = gitexec.Open(repoPath)
	}

	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	remote, err := repo.RemoteURL(ctx)
	if err != nil {
		return err
	}
	url, ok := gitexec.CompareURL(remote, branch)
	if !ok {
		return fmt.Errorf("cannot derive compare URL from remote %q", remote)
	}

	if err := a.openURL(url); err != nil {
		// Browser launch can fail over SSH; the clipboard copy below still
		// gives the user the URL.
		debug.Log("dispatch: open browser failed: %v", err)
	}
	if err := clipboard.WriteAll(url); err != nil {
		debug.Log("dispatch: clipboard write failed: %v", err)
	}

	return a.Store.Update(repoPath, func(st *tutorial.State) {
		st.PullRequestOpened = true
	})
}

// SkipPickEditorStep records the editor skip flag.
func (a *App) SkipPickEditorStep(ctx context.Context, repoPath string) error {
	return a.Store.Update(repoPath, func(st *tutorial.State) {
		st.EditorSkipped = true
	})
}

// SkipCreatePullRequestStep records the pull-request skip flag.
func (a *App) SkipCreatePullRequestStep(ctx context.Context, repoPath string) error {
	return a.Store.Update(repoPath, func(st *tutorial.State) {
		st.PullRequestSkipped = true
	})
}

func (a *App) openURL(url string) error {
	if a.OpenURL != nil {
		return a.OpenURL(url)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
