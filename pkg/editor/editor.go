// Package editor locates an external text editor and opens paths in it.
// Resolution order: explicit config override, $VISUAL, $EDITOR, then a short
// allowlist of editors commonly found on PATH.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// known maps editor commands to human-readable labels, in preference order.
var known = []struct {
	command string
	label   string
}{
	{"code", "Visual Studio Code"},
	{"code-insiders", "Visual Studio Code Insiders"},
	{"cursor", "Cursor"},
	{"subl", "Sublime Text"},
	{"nvim", "Neovim"},
	{"vim", "Vim"},
	{"nano", "Nano"},
}

// Editor describes a resolved external editor.
type Editor struct {
	Command string
	Label   string
}

// Resolve returns the external editor to use, or ok=false when none is
// available. override comes from config and wins when set.
func Resolve(override string) (Editor, bool) {
	candidates := []string{override, os.Getenv("VISUAL"), os.Getenv("EDITOR")}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		// $EDITOR may carry arguments ("code --wait"); the command is the
		// first field.
		command := strings.Fields(c)[0]
		if _, err := exec.LookPath(command); err == nil {
			return Editor{Command: command, Label: labelFor(command)}, true
		}
	}
	for _, k := range known {
		if _, err := exec.LookPath(k.command); err == nil {
			return Editor{Command: k.command, Label: k.label}, true
		}
	}
	return Editor{}, false
}

func labelFor(command string) string {
	for _, k := range known {
		if k.command == command {
			return k.label
		}
	}
	return command
}

// OpenPath launches the editor on path without waiting for it to exit.
func (e Editor) OpenPath(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, e.Command, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", e.Command, err)
	}
	return nil
}
