// Package tutorial implements the onboarding tutorial flow: the canonical
// step sequence, completion queries against a current step, and the
// single-open accordion state machine used by the tutorial panel.
//
// Ordering is centralized in Sequence. Everything that cares about "is this
// step done?" or "which step is next?" goes through Index so the completion
// and next-step logic can never diverge.
package tutorial

// Step identifies one stage of the tutorial.
type Step int

const (
	// StepUnknown is the zero value; it never appears in Sequence.
	StepUnknown Step = iota
	StepPickEditor
	StepCreateBranch
	StepEditFile
	StepMakeCommit
	StepPushBranch
	StepOpenPullRequest
	// StepAllDone means every stage in Sequence has been met or skipped.
	StepAllDone
)

// Sequence is the canonical progression order. Position in this slice is the
// single source of truth for completion and next-step queries.
var Sequence = []Step{
	StepPickEditor,
	StepCreateBranch,
	StepEditFile,
	StepMakeCommit,
	StepPushBranch,
	StepOpenPullRequest,
}

// Index returns the position of step in Sequence, or -1 if the step is not
// part of the progression (StepUnknown, StepAllDone).
func Index(step Step) int {
	for i, s := range Sequence {
		if s == step {
			return i
		}
	}
	return -1
}

// Number returns the 1-based sequence number shown in the step's status
// indicator, or 0 for steps outside the progression.
func Number(step Step) int {
	return Index(step) + 1
}

// IsComplete reports whether step has been passed given the current step.
// StepAllDone counts as past the end of the sequence.
func IsComplete(step, current Step) bool {
	i := Index(step)
	if i < 0 {
		return false
	}
	if current == StepAllDone {
		return true
	}
	j := Index(current)
	if j < 0 {
		return false
	}
	return i < j
}

// IsNextTodo reports whether step is the one the user should do next.
func IsNextTodo(step, current Step) bool {
	return Index(step) >= 0 && step == current
}

// Skippable reports whether the step defines a skip affordance. Only the
// editor-install step and the open-pull-request step can be skipped; the
// stages in between are observed directly from repository state.
func Skippable(step Step) bool {
	return step == StepPickEditor || step == StepOpenPullRequest
}

// String returns the step's stable identifier, used in the state file and in
// debug output.
func (s Step) String() string {
	switch s {
	case StepPickEditor:
		return "pick-editor"
	case StepCreateBranch:
		return "create-branch"
	case StepEditFile:
		return "edit-file"
	case StepMakeCommit:
		return "make-commit"
	case StepPushBranch:
		return "push-branch"
	case StepOpenPullRequest:
		return "open-pull-request"
	case StepAllDone:
		return "all-done"
	default:
		return "unknown"
	}
}

// ParseStep maps a stable identifier back to its Step. Unrecognized input
// yields StepUnknown.
func ParseStep(s string) Step {
	switch s {
	case "pick-editor":
		return StepPickEditor
	case "create-branch":
		return StepCreateBranch
	case "edit-file":
		return StepEditFile
	case "make-commit":
		return StepMakeCommit
	case "push-branch":
		return StepPushBranch
	case "open-pull-request":
		return StepOpenPullRequest
	case "all-done":
		return StepAllDone
	default:
		return StepUnknown
	}
}

// Title returns the step's display title.
func (s Step) Title() string {
	switch s {
	case StepPickEditor:
		return "Install a text editor"
	case StepCreateBranch:
		return "Create a branch"
	case StepEditFile:
		return "Edit a file"
	case StepMakeCommit:
		return "Make a commit"
	case StepPushBranch:
		return "Publish your branch"
	case StepOpenPullRequest:
		return "Open a pull request"
	default:
		return ""
	}
}
