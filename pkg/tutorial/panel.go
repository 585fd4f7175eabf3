package tutorial

// Panel is the accordion state over the tutorial steps: which step the user
// is on (externally owned, observed here) and which single step's detail
// view is expanded (owned by the panel).
//
// State transitions are expressed as an explicit (state, event) -> state
// function so the behavior can be unit tested without any rendering code.
// Panel is a value type; Apply returns the next state and never mutates the
// receiver, matching the Bubble Tea update convention.
type Panel struct {
	current  Step
	expanded Step
}

// Event is a panel state transition input.
type Event interface{ isPanelEvent() }

// ExternalStepChanged carries a new externally resolved current step.
type ExternalStepChanged struct{ Step Step }

// UserExpanded records a click on a step's summary row.
type UserExpanded struct{ Step Step }

func (ExternalStepChanged) isPanelEvent() {}
func (UserExpanded) isPanelEvent()        {}

// NewPanel creates a panel positioned at the given current step. The
// initially expanded step is the current step.
func NewPanel(current Step) Panel {
	return Panel{current: current, expanded: current}
}

// Apply returns the panel state after the event.
//
// An ExternalStepChanged whose value differs from the previous current step
// forcibly resets the expanded step to the new value, discarding any manual
// expansion. The reset is equality-triggered: re-delivering an equal value
// is a no-op. UserExpanded sets the expanded step unconditionally, completed
// and future steps included.
func (p Panel) Apply(ev Event) Panel {
	switch ev := ev.(type) {
	case ExternalStepChanged:
		if ev.Step != p.current {
			p.current = ev.Step
			p.expanded = ev.Step
		}
	case UserExpanded:
		p.expanded = ev.Step
	}
	return p
}

// CurrentStep returns the last externally supplied current step.
func (p Panel) CurrentStep() Step {
	return p.current
}

// ExpandedStep returns the single step whose detail view is open.
func (p Panel) ExpandedStep() Step {
	return p.expanded
}

// IsExpanded reports whether step's detail view is open.
func (p Panel) IsExpanded(step Step) bool {
	return p.expanded == step
}

// ShowSkip reports whether step's skip affordance should be visible: the
// step must define one, be the expanded step, and be the next to do. The
// next-to-do guard is the actual safety condition; skipping a completed or
// not-yet-reached step is meaningless.
func (p Panel) ShowSkip(step Step) bool {
	return Skippable(step) && p.IsExpanded(step) && IsNextTodo(step, p.current)
}
