// Package dispatch defines the command boundary between the view layer and
// the rest of the application. Views never touch config, git, or the stats
// store directly; they issue commands through the Dispatcher interface,
// which makes every view testable against a recording double.
package dispatch

import (
	"context"

	"github.com/oarsman/skiff/pkg/wizard"
)

// Dispatcher is the capability interface the onboarding and tutorial views
// depend on. All commands are fire-and-forget from the view's perspective;
// implementations report failures through their own channels (logging, the
// next state resolution), never back into the view.
type Dispatcher interface {
	// SetStatsOptOut enables or disables usage-data submission.
	SetStatsOptOut(ctx context.Context, optOut bool) error
	// AdvanceWizard navigates the welcome flow to the given step.
	AdvanceWizard(step wizard.Step) error
	// MarkTutorialCompleted records that the user finished (or dismissed)
	// the tutorial flow.
	MarkTutorialCompleted(ctx context.Context) error
	// OpenPathInEditor opens path in the resolved external editor.
	OpenPathInEditor(ctx context.Context, path string) error
	// CreatePullRequest opens the browser on the compare page for the
	// repository's current branch and records that a PR was started.
	CreatePullRequest(ctx context.Context, repoPath string) error
	// SkipPickEditorStep marks the editor-install step as skipped.
	SkipPickEditorStep(ctx context.Context, repoPath string) error
	// SkipCreatePullRequestStep marks the open-pull-request step as skipped.
	SkipCreatePullRequestStep(ctx context.Context, repoPath string) error
}
