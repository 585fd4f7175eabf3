package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/oarsman/skiff/pkg/gitexec"
)

// GitIdentity is the result of the configure-git step.
type GitIdentity struct {
	Name  string
	Email string
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfigureGitForm builds the huh form for the configure-git step, bound to
// id. The TUI embeds it as a Bubble Tea model; RunConfigureGit runs it
// standalone for non-interactive terminals.
func ConfigureGitForm(id *GitIdentity) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Used for the author field of your commits").
				Value(&id.Name),
			huh.NewInput().
				Title("Email").
				Description("Should match the email on your hosting account").
				Value(&id.Email).
				Validate(func(s string) error {
					if s != "" && !strings.Contains(s, "@") {
						return errors.New("not an email address")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// PrefillIdentity loads the currently configured git identity into id,
// leaving it untouched on error.
func PrefillIdentity(ctx context.Context, repo *gitexec.Repo, id *GitIdentity) {
	if repo == nil {
		return
	}
	name, email, err := repo.ConfiguredUser(ctx)
	if err == nil {
		if id.Name == "" {
			id.Name = name
		}
		if id.Email == "" {
			id.Email = email
		}
	}
}

// Apply writes the collected identity to the global git config. Empty
// fields are skipped.
func (id GitIdentity) Apply(ctx context.Context) error {
	if err := gitexec.SetGlobalUser(ctx, id.Name, id.Email); err != nil {
		return fmt.Errorf("applying git identity: %w", err)
	}
	return nil
}

// RunConfigureGit prompts for a git identity and applies it, for use when
// the full TUI isn't running. Falls back to huh's accessible mode when
// stdin isn't a terminal.
func RunConfigureGit(ctx context.Context, repo *gitexec.Repo) (GitIdentity, error) {
	var id GitIdentity
	PrefillIdentity(ctx, repo, &id)

	form := ConfigureGitForm(&id)
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.RunWithContext(ctx); err != nil {
		return GitIdentity{}, err
	}
	if err := id.Apply(ctx); err != nil {
		return GitIdentity{}, err
	}
	return id, nil
}
