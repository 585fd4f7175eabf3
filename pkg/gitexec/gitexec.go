// Package gitexec wraps the git CLI for the repository-state questions skiff
// asks: which branch is checked out, whether the working tree is dirty,
// whether a branch has been pushed. Every call shells out to git with the
// caller's context so slow or wedged invocations can be cancelled.
package gitexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoRemote is returned when the repository has no origin remote.
var ErrNoRemote = errors.New("repository has no origin remote")

// Repo runs git commands against a single repository working directory.
type Repo struct {
	path string
}

// Open returns a Repo for the given working directory. The directory is not
// validated here; the first git invocation surfaces any problem.
func Open(path string) *Repo {
	return &Repo{path: path}
}

// Path returns the repository working directory.
func (r *Repo) Path() string {
	return r.path
}

// run executes git with the given arguments and returns trimmed stdout.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the checked-out branch name, or "" for a detached
// HEAD.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", nil
	}
	return out, nil
}

// DefaultBranch returns the branch the origin remote points at, falling back
// to init.defaultBranch and then "main" for repositories without a remote.
func (r *Repo) DefaultBranch(ctx context.Context) (string, error) {
	if out, err := r.run(ctx, "symbolic-ref", "--short", "refs/remotes/origin/HEAD"); err == nil {
		return strings.TrimPrefix(out, "origin/"), nil
	}
	if out, err := r.run(ctx, "config", "init.defaultBranch"); err == nil && out != "" {
		return out, nil
	}
	return "main", nil
}

// HasUncommittedChanges reports whether the working tree or index differ
// from HEAD. Untracked files count as changes.
func (r *Repo) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CommitsAheadOfDefault counts commits on branch that are not on the default
// branch. A missing default branch ref (fresh repo with no commits) counts
// as zero rather than an error.
func (r *Repo) CommitsAheadOfDefault(ctx context.Context, branch string) (int, error) {
	def, err := r.DefaultBranch(ctx)
	if err != nil {
		return 0, err
	}
	out, err := r.run(ctx, "rev-list", "--count", def+".."+branch)
	if err != nil {
		return 0, nil
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parsing rev-list count %q: %w", out, err)
	}
	return n, nil
}

// BranchPushed reports whether branch has an upstream and no commits the
// upstream lacks.
func (r *Repo) BranchPushed(ctx context.Context, branch string) (bool, error) {
	upstream, err := r.run(ctx, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil || upstream == "" {
		// No upstream configured means not pushed; git exits non-zero here.
		return false, nil
	}
	out, err := r.run(ctx, "rev-list", "--count", upstream+".."+branch)
	if err != nil {
		return false, err
	}
	return out == "0", nil
}

// RemoteURL returns the fetch URL of the origin remote.
func (r *Repo) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", ErrNoRemote
	}
	return out, nil
}

// ConfiguredUser returns the effective user.name and user.email.
func (r *Repo) ConfiguredUser(ctx context.Context) (name, email string, err error) {
	name, _ = r.run(ctx, "config", "user.name")
	email, _ = r.run(ctx, "config", "user.email")
	return name, email, nil
}

// SetGlobalUser writes user.name and user.email to the global git config.
// Empty values are left untouched.
func SetGlobalUser(ctx context.Context, name, email string) error {
	if name != "" {
		cmd := exec.CommandContext(ctx, "git", "config", "--global", "user.name", name)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("setting user.name: %w", err)
		}
	}
	if email != "" {
		cmd := exec.CommandContext(ctx, "git", "config", "--global", "user.email", email)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("setting user.email: %w", err)
		}
	}
	return nil
}

// CompareURL derives the web URL for opening a pull request for branch,
// based on the origin remote. Only github.com-style https and ssh remotes
// are recognized.
func CompareURL(remoteURL, branch string) (string, bool) {
	var base string
	switch {
	case strings.HasPrefix(remoteURL, "https://"):
		base = strings.TrimSuffix(remoteURL, ".git")
	case strings.HasPrefix(remoteURL, "git@"):
		// git@host:owner/repo.git -> https://host/owner/repo
		rest := strings.TrimPrefix(remoteURL, "git@")
		host, path, ok := strings.Cut(rest, ":")
		if !ok {
			return "", false
		}
		base = "https://" + host + "/" + strings.TrimSuffix(path, ".git")
	default:
		return "", false
	}
	return base + "/compare/" + branch + "?expand=1", true
}
