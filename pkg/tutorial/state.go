package tutorial

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// State holds the tutorial flags that cannot be observed from the repository
// itself: skips and the record that a pull request was opened from here.
// One State file exists per repository, keyed by its absolute path.
type State struct {
	EditorSkipped      bool `json:"editor_skipped,omitempty"`
	PullRequestSkipped bool `json:"pull_request_skipped,omitempty"`
	PullRequestOpened  bool `json:"pull_request_opened,omitempty"`
	Completed          bool `json:"completed,omitempty"`
}

// Store reads and writes per-repository tutorial state under the XDG state
// directory (~/.local/state/skiff/tutorial by default).
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. An empty dir selects the default
// XDG state location.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &Store{dir: dir}
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skiff", "tutorial")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "skiff", "tutorial")
}

// statePath derives a stable filename from the repository path. Slashes are
// not usable in a filename, so the path is flattened; collisions between
// repositories that differ only in separator placement are acceptable here.
func (s *Store) statePath(repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}
	name := ""
	for _, r := range abs {
		switch r {
		case os.PathSeparator, ':':
			name += "_"
		default:
			name += string(r)
		}
	}
	return filepath.Join(s.dir, name+".json")
}

// Load returns the state for the repository. A missing file is not an
// error; it yields the zero State.
func (s *Store) Load(repoPath string) (State, error) {
	if s.dir == "" {
		return State{}, errors.New("tutorial state dir unavailable")
	}
	data, err := os.ReadFile(s.statePath(repoPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read tutorial state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file only costs the user their skip flags.
		return State{}, nil
	}
	return st, nil
}

// Save writes the state for the repository, creating the state directory on
// first use.
func (s *Store) Save(repoPath string, st State) error {
	if s.dir == "" {
		return errors.New("tutorial state dir unavailable")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create tutorial state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tutorial state: %w", err)
	}
	if err := os.WriteFile(s.statePath(repoPath), data, 0o644); err != nil {
		return fmt.Errorf("write tutorial state: %w", err)
	}
	return nil
}

// Update loads, mutates, and saves the state for the repository.
func (s *Store) Update(repoPath string, fn func(*State)) error {
	st, err := s.Load(repoPath)
	if err != nil {
		return err
	}
	fn(&st)
	return s.Save(repoPath, st)
}
