package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want auto", cfg.UI.Theme)
	}
	if cfg.StatsOptOut || cfg.OnboardingDone {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := DefaultConfig()
	want.StatsOptOut = true
	want.ExternalEditor = "nvim"
	want.OnboardingDone = true
	want.GitUser = GitUser{Name: "Sam", Email: "sam@example.com"}
	want.RecentRepos = []string{"/home/sam/src/project"}

	if err := SaveTo(want, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if got.StatsOptOut != want.StatsOptOut {
		t.Errorf("StatsOptOut = %v", got.StatsOptOut)
	}
	if got.ExternalEditor != want.ExternalEditor {
		t.Errorf("ExternalEditor = %q", got.ExternalEditor)
	}
	if got.OnboardingDone != want.OnboardingDone {
		t.Errorf("OnboardingDone = %v", got.OnboardingDone)
	}
	if got.GitUser != want.GitUser {
		t.Errorf("GitUser = %+v", got.GitUser)
	}
	if len(got.RecentRepos) != 1 || got.RecentRepos[0] != want.RecentRepos[0] {
		t.Errorf("RecentRepos = %v", got.RecentRepos)
	}
}

func TestSaveToCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.yaml")
	if err := SaveTo(DefaultConfig(), path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
}

func TestRememberRepo(t *testing.T) {
	var cfg Config

	cfg.RememberRepo("/a")
	cfg.RememberRepo("/b")
	cfg.RememberRepo("/a") // re-opening moves to front, no duplicate

	if len(cfg.RecentRepos) != 2 {
		t.Fatalf("RecentRepos = %v", cfg.RecentRepos)
	}
	if cfg.RecentRepos[0] != "/a" || cfg.RecentRepos[1] != "/b" {
		t.Errorf("RecentRepos = %v, want [/a /b]", cfg.RecentRepos)
	}
}

func TestRememberRepoCapsAtTen(t *testing.T) {
	var cfg Config
	for _, p := range []string{"/0", "/1", "/2", "/3", "/4", "/5", "/6", "/7", "/8", "/9", "/10", "/11"} {
		cfg.RememberRepo(p)
	}
	if len(cfg.RecentRepos) != 10 {
		t.Fatalf("RecentRepos holds %d entries, want 10", len(cfg.RecentRepos))
	}
	if cfg.RecentRepos[0] != "/11" {
		t.Errorf("newest entry = %q, want /11", cfg.RecentRepos[0])
	}
}

func TestExpandHome(t *testing.T) {
	if got := expandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("expandHome left absolute path as %q", got)
	}
	if got := expandHome("~/src"); got == "~/src" {
		t.Error("expandHome did not expand ~/")
	}
}
