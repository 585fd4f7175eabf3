package tutorial

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSequenceOrder(t *testing.T) {
	want := []Step{
		StepPickEditor,
		StepCreateBranch,
		StepEditFile,
		StepMakeCommit,
		StepPushBranch,
		StepOpenPullRequest,
	}
	if len(Sequence) != len(want) {
		t.Fatalf("Expected %d steps, got %d", len(want), len(Sequence))
	}
	for i, step := range want {
		if Sequence[i] != step {
			t.Errorf("Sequence[%d] = %s, want %s", i, Sequence[i], step)
		}
	}
}

func TestIndexAndNumber(t *testing.T) {
	for i, step := range Sequence {
		if Index(step) != i {
			t.Errorf("Index(%s) = %d, want %d", step, Index(step), i)
		}
		if Number(step) != i+1 {
			t.Errorf("Number(%s) = %d, want %d", step, Number(step), i+1)
		}
	}
	if Index(StepUnknown) != -1 {
		t.Errorf("Index(StepUnknown) = %d, want -1", Index(StepUnknown))
	}
	if Index(StepAllDone) != -1 {
		t.Errorf("Index(StepAllDone) = %d, want -1", Index(StepAllDone))
	}
}

func TestIsComplete(t *testing.T) {
	// Property 1: for every current step, a step is complete iff its index
	// is strictly below the current step's index.
	for _, current := range Sequence {
		for _, step := range Sequence {
			want := Index(step) < Index(current)
			if got := IsComplete(step, current); got != want {
				t.Errorf("IsComplete(%s, %s) = %v, want %v", step, current, got, want)
			}
		}
	}

	// Every step counts as complete once the whole tutorial is done.
	for _, step := range Sequence {
		if !IsComplete(step, StepAllDone) {
			t.Errorf("IsComplete(%s, StepAllDone) = false, want true", step)
		}
	}
}

func TestIsNextTodoExactlyOne(t *testing.T) {
	for _, current := range Sequence {
		count := 0
		for _, step := range Sequence {
			if IsNextTodo(step, current) {
				count++
				if step != current {
					t.Errorf("IsNextTodo(%s, %s) = true for a non-current step", step, current)
				}
			}
		}
		if count != 1 {
			t.Errorf("current=%s: %d next-todo steps, want exactly 1", current, count)
		}
	}
}

func TestSkippable(t *testing.T) {
	for _, step := range Sequence {
		want := step == StepPickEditor || step == StepOpenPullRequest
		if got := Skippable(step); got != want {
			t.Errorf("Skippable(%s) = %v, want %v", step, got, want)
		}
	}
}

func TestParseStepRoundTrip(t *testing.T) {
	for _, step := range append(append([]Step{}, Sequence...), StepAllDone) {
		if got := ParseStep(step.String()); got != step {
			t.Errorf("ParseStep(%q) = %s, want %s", step.String(), got, step)
		}
	}
	if got := ParseStep("no-such-step"); got != StepUnknown {
		t.Errorf("ParseStep(garbage) = %s, want StepUnknown", got)
	}
}

// drawStep generates an arbitrary step from the canonical sequence.
func drawStep(t *rapid.T, label string) Step {
	return Sequence[rapid.IntRange(0, len(Sequence)-1).Draw(t, label)]
}

func TestStepPropertiesRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		step := drawStep(t, "step")
		current := drawStep(t, "current")

		// Complete and next-todo are mutually exclusive.
		if IsComplete(step, current) && IsNextTodo(step, current) {
			t.Fatalf("step %s both complete and next-todo for current %s", step, current)
		}

		// Completion is monotone in the current step: advancing the current
		// step never un-completes anything.
		if IsComplete(step, current) {
			next := current
			if i := Index(current); i+1 < len(Sequence) {
				next = Sequence[i+1]
			} else {
				next = StepAllDone
			}
			if !IsComplete(step, next) {
				t.Fatalf("step %s complete at %s but not at %s", step, current, next)
			}
		}
	})
}
