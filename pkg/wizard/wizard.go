// Package wizard defines the first-run welcome flow: a short ordered
// sequence of steps finishing with the usage opt-out form. Step values are
// what the opt-out form's cancel action navigates with.
package wizard

// Step identifies one screen of the welcome wizard.
type Step int

const (
	StepWelcome Step = iota
	// StepConfigureGit collects user.name/user.email. It is the fixed
	// target of the opt-out form's cancel action.
	StepConfigureGit
	StepUsageOptOut
	StepDone
)

// String returns a stable identifier for the step.
func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepConfigureGit:
		return "configure-git"
	case StepUsageOptOut:
		return "usage-opt-out"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Next returns the step after s, saturating at StepDone.
func (s Step) Next() Step {
	if s >= StepDone {
		return StepDone
	}
	return s + 1
}
