package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oarsman/skiff/pkg/config"
	"github.com/oarsman/skiff/pkg/debug"
	"github.com/oarsman/skiff/pkg/dispatch"
	"github.com/oarsman/skiff/pkg/editor"
	"github.com/oarsman/skiff/pkg/gitexec"
	"github.com/oarsman/skiff/pkg/stats"
	"github.com/oarsman/skiff/pkg/tutorial"
	"github.com/oarsman/skiff/pkg/ui"
	"github.com/oarsman/skiff/pkg/version"
	"github.com/oarsman/skiff/pkg/watcher"
	"github.com/oarsman/skiff/pkg/wizard"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configureFlag := flag.Bool("configure", false, "Run the git identity setup without the TUI")
	forcePoll := flag.Bool("force-poll", false, "Use polling instead of filesystem notifications")
	flag.Parse()

	if *help {
		fmt.Println("Usage: skiff [options] [repository]")
		fmt.Println("\nA guided terminal Git client for your first branch and pull request.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("skiff %s\n", version.Version)
		os.Exit(0)
	}

	repoPath := "."
	if flag.NArg() > 0 {
		repoPath = flag.Arg(0)
	}
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad repository path: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
		fmt.Fprintf(os.Stderr, "%s is not a git repository\n", repoPath)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.RememberRepo(repoPath)
	if err := config.Save(cfg); err != nil {
		debug.Log("main: save config: %v", err)
	}

	repo := gitexec.Open(repoPath)

	if *configureFlag {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := wizard.RunConfigureGit(ctx, repo); err != nil {
			fmt.Fprintf(os.Stderr, "Setup cancelled: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Git identity configured.")
		os.Exit(0)
	}

	reporter, err := stats.Open(config.StateDir(), version.Version, cfg.StatsOptOut)
	if err != nil {
		// Stats are never worth blocking the app for.
		debug.Log("main: stats unavailable: %v", err)
	} else {
		defer reporter.Close()
		if err := reporter.Record(context.Background(), "app.launch"); err != nil {
			debug.Log("main: record launch: %v", err)
		}
	}

	ed, hasEditor := editor.Resolve(cfg.ExternalEditor)
	editorLabel := ""
	if hasEditor {
		editorLabel = ed.Label
	}

	store := tutorial.NewStore("")
	resolver := tutorial.NewResolver(repo, store, func(context.Context) bool {
		_, ok := editor.Resolve(cfg.ExternalEditor)
		return ok
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	initial, err := resolver.Resolve(ctx, repoPath)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading repository state: %v\n", err)
		os.Exit(1)
	}

	dispatcher := &dispatch.App{
		Config:    &cfg,
		Reporter:  reporter,
		Store:     store,
		Repo:      repo,
		Editor:    ed,
		HasEditor: hasEditor,
	}

	w, err := watcher.New(repoPath, watcher.WithForcePoll(*forcePoll))
	if err != nil {
		debug.Log("main: watcher unavailable: %v", err)
		w = nil
	} else if err := w.Start(); err != nil {
		debug.Log("main: watcher start: %v", err)
		w = nil
	}
	if w != nil {
		defer w.Stop()
	}

	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	app := ui.NewApp(theme, &cfg, dispatcher, resolver, w, repoPath, editorLabel, initial)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
