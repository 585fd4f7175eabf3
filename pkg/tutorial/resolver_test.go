package tutorial

import (
	"context"
	"testing"
)

// fakeInspector scripts the repository-state answers.
type fakeInspector struct {
	branch    string
	defBranch string
	dirty     bool
	ahead     int
	pushed    bool
}

func (f fakeInspector) CurrentBranch(context.Context) (string, error) { return f.branch, nil }
func (f fakeInspector) DefaultBranch(context.Context) (string, error) {
	return f.defBranch, nil
}
func (f fakeInspector) HasUncommittedChanges(context.Context) (bool, error) { return f.dirty, nil }
func (f fakeInspector) CommitsAheadOfDefault(context.Context, string) (int, error) {
	return f.ahead, nil
}
func (f fakeInspector) BranchPushed(context.Context, string) (bool, error) { return f.pushed, nil }

func newTestResolver(t *testing.T, insp RepoInspector, editorFound bool, st State) *Resolver {
	t.Helper()
	store := NewStore(t.TempDir())
	if st != (State{}) {
		if err := store.Save("/repo", st); err != nil {
			t.Fatalf("seed state: %v", err)
		}
	}
	return NewResolver(insp, store, func(context.Context) bool { return editorFound })
}

func TestResolveProgression(t *testing.T) {
	tests := []struct {
		name   string
		insp   fakeInspector
		editor bool
		state  State
		want   Step
	}{
		{
			name: "fresh repo, no editor",
			insp: fakeInspector{branch: "main", defBranch: "main"},
			want: StepPickEditor,
		},
		{
			name:   "editor found, still on default branch",
			insp:   fakeInspector{branch: "main", defBranch: "main"},
			editor: true,
			want:   StepCreateBranch,
		},
		{
			name:  "editor skipped counts as met",
			insp:  fakeInspector{branch: "main", defBranch: "main"},
			state: State{EditorSkipped: true},
			want:  StepCreateBranch,
		},
		{
			name:   "on a branch, clean tree",
			insp:   fakeInspector{branch: "feature", defBranch: "main"},
			editor: true,
			want:   StepEditFile,
		},
		{
			name:   "dirty tree, nothing committed",
			insp:   fakeInspector{branch: "feature", defBranch: "main", dirty: true},
			editor: true,
			want:   StepMakeCommit,
		},
		{
			name:   "committed but not pushed",
			insp:   fakeInspector{branch: "feature", defBranch: "main", ahead: 1},
			editor: true,
			want:   StepPushBranch,
		},
		{
			name:   "pushed, no pull request yet",
			insp:   fakeInspector{branch: "feature", defBranch: "main", ahead: 1, pushed: true},
			editor: true,
			want:   StepOpenPullRequest,
		},
		{
			name:   "pull request opened",
			insp:   fakeInspector{branch: "feature", defBranch: "main", ahead: 2, pushed: true},
			editor: true,
			state:  State{PullRequestOpened: true},
			want:   StepAllDone,
		},
		{
			name:   "pull request step skipped",
			insp:   fakeInspector{branch: "feature", defBranch: "main", ahead: 1, pushed: true},
			editor: true,
			state:  State{PullRequestSkipped: true},
			want:   StepAllDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.insp, tt.editor, tt.state)
			got, err := r.Resolve(context.Background(), "/repo")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveCommitImpliesEdit(t *testing.T) {
	// A clean tree with commits ahead means the edit stage was passed, not
	// regressed to.
	r := newTestResolver(t, fakeInspector{branch: "feature", defBranch: "main", ahead: 3}, true, State{})
	got, err := r.Resolve(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != StepPushBranch {
		t.Errorf("Resolve = %s, want %s", got, StepPushBranch)
	}
}
