package tutorial

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/oarsman/skiff/pkg/debug"
)

// RepoInspector answers the repository-state questions the resolver needs.
// pkg/gitexec provides the real implementation; tests supply fakes.
type RepoInspector interface {
	CurrentBranch(ctx context.Context) (string, error)
	DefaultBranch(ctx context.Context) (string, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	CommitsAheadOfDefault(ctx context.Context, branch string) (int, error)
	BranchPushed(ctx context.Context, branch string) (bool, error)
}

// EditorProbe reports whether an external editor is available. The probe
// runs on every resolve so installing an editor mid-tutorial is picked up
// without a restart.
type EditorProbe func(ctx context.Context) bool

// Resolver derives the current tutorial step from repository state plus the
// persisted skip flags. The panel itself never computes this; it only
// observes the resolved value.
type Resolver struct {
	inspector RepoInspector
	store     *Store
	editor    EditorProbe
}

// NewResolver creates a resolver. editor may be nil, in which case the
// editor stage is only met once skipped.
func NewResolver(inspector RepoInspector, store *Store, editor EditorProbe) *Resolver {
	if editor == nil {
		editor = func(context.Context) bool { return false }
	}
	return &Resolver{inspector: inspector, store: store, editor: editor}
}

// Resolve returns the first unmet step in Sequence, or StepAllDone when
// every stage has been met or skipped. Repository probes run concurrently.
func (r *Resolver) Resolve(ctx context.Context, repoPath string) (Step, error) {
	st, err := r.store.Load(repoPath)
	if err != nil {
		return StepUnknown, err
	}

	var (
		editorFound bool
		branch      string
		defBranch   string
		dirty       bool
		ahead       int
		pushed      bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		editorFound = r.editor(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		branch, err = r.inspector.CurrentBranch(gctx)
		if err != nil {
			return fmt.Errorf("current branch: %w", err)
		}
		defBranch, err = r.inspector.DefaultBranch(gctx)
		if err != nil {
			return fmt.Errorf("default branch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		dirty, err = r.inspector.HasUncommittedChanges(gctx)
		if err != nil {
			return fmt.Errorf("working tree status: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return StepUnknown, err
	}

	onBranch := branch != "" && branch != defBranch
	if onBranch {
		// These two depend on the branch name, so they run after the first
		// round of probes.
		g, gctx = errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			ahead, err = r.inspector.CommitsAheadOfDefault(gctx, branch)
			if err != nil {
				return fmt.Errorf("commits ahead: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			pushed, err = r.inspector.BranchPushed(gctx, branch)
			if err != nil {
				return fmt.Errorf("branch pushed: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return StepUnknown, err
		}
	}

	step := firstUnmet(stages{
		editor:   editorFound || st.EditorSkipped,
		branch:   onBranch,
		edited:   dirty || ahead > 0,
		commit:   ahead > 0,
		pushed:   pushed,
		prOpened: st.PullRequestOpened || st.PullRequestSkipped,
	})
	debug.Log("tutorial: resolved step %s (branch=%q default=%q dirty=%v ahead=%d pushed=%v)",
		step, branch, defBranch, dirty, ahead, pushed)
	return step, nil
}

// stages collects the met/unmet verdict per stage, in sequence order.
type stages struct {
	editor   bool
	branch   bool
	edited   bool
	commit   bool
	pushed   bool
	prOpened bool
}

func firstUnmet(s stages) Step {
	met := map[Step]bool{
		StepPickEditor:      s.editor,
		StepCreateBranch:    s.branch,
		StepEditFile:        s.edited,
		StepMakeCommit:      s.commit,
		StepPushBranch:      s.pushed,
		StepOpenPullRequest: s.prOpened,
	}
	for _, step := range Sequence {
		if !met[step] {
			return step
		}
	}
	return StepAllDone
}
