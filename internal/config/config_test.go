package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/errors"
)

func TestManager_DefaultConfig(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())

	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.DefaultAgent != "" || len(cfg.ProtectedPaths) != 0 || cfg.Timeout() != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestManager_SaveAndLoad(t *testing.T) {
	m := NewManagerWithDir(filepath.Join(t.TempDir(), "nested"))

	cfg := &Config{
		DefaultAgent:      "claude",
		DefaultRef:        "acme/templates@v2",
		ProtectedPaths:    []string{"docs/adr/"},
		CloneURLOverrides: map[string]string{"acme/templates": "git@mirror:acme/templates.git"},
		FetchTimeout:      "90s",
		Agents:            []agent.Profile{{ID: "acme", CommandDir: ".acme/commands", SkillDir: ".acme/skills"}},
	}
	if err := m.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(m.ConfigPath()); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.DefaultAgent != "claude" || loaded.DefaultRef != "acme/templates@v2" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Timeout() != 90*time.Second {
		t.Errorf("Timeout() = %v", loaded.Timeout())
	}
	if len(loaded.Agents) != 1 || loaded.Agents[0].CommandDir != ".acme/commands" {
		t.Errorf("Agents = %+v", loaded.Agents)
	}
	if loaded.CloneURLOverrides["acme/templates"] != "git@mirror:acme/templates.git" {
		t.Errorf("CloneURLOverrides = %v", loaded.CloneURLOverrides)
	}
}

func TestManager_LoadJSONC(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithDir(dir)
	content := `{
  // pick the agent used when --ai is omitted
  "defaultAgent": "gemini",
  "protectedPaths": [
    "docs/",
    "notes/", // personal notes
  ],
}
`
	if err := os.WriteFile(m.ConfigPath(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultAgent != "gemini" {
		t.Errorf("DefaultAgent = %q", cfg.DefaultAgent)
	}
	if len(cfg.ProtectedPaths) != 2 || cfg.ProtectedPaths[1] != "notes/" {
		t.Errorf("ProtectedPaths = %v", cfg.ProtectedPaths)
	}
}

func TestManager_LoadInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":      `{"defaultAgent": }`,
		"bad timeout": `{"fetchTimeout": "soon"}`,
		"negative":    `{"fetchTimeout": "-5s"}`,
		"wrong type":  `{"protectedPaths": "specs/"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManagerWithDir(t.TempDir())
			os.WriteFile(m.ConfigPath(), []byte(content), 0o644)

			_, err := m.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetExitCode(err) != errors.ExitConfigError {
				t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitConfigError)
			}
		})
	}
}

func TestManager_SetKeepsComments(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())
	content := `{
  // team mirror
  "defaultRef": "acme/templates",
}
`
	os.WriteFile(m.ConfigPath(), []byte(content), 0o644)

	if err := m.Set("defaultAgent", "claude"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := m.Set("defaultRef", "acme/templates@v3"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, _ := os.ReadFile(m.ConfigPath())
	if !strings.Contains(string(data), "// team mirror") {
		t.Errorf("comment lost:\n%s", data)
	}

	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultAgent != "claude" || cfg.DefaultRef != "acme/templates@v3" {
		t.Errorf("cfg = %+v", cfg)
	}

	if err := m.Unset("defaultRef"); err != nil {
		t.Fatalf("Unset() error: %v", err)
	}
	if err := m.Unset("defaultRef"); err != nil {
		t.Fatalf("second Unset() error: %v", err)
	}
	cfg, _ = m.Load()
	if cfg.DefaultRef != "" {
		t.Errorf("DefaultRef = %q after Unset", cfg.DefaultRef)
	}
}

func TestManager_SetValidates(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())

	if err := m.Set("colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := m.Set("fetchTimeout", "eventually"); err == nil {
		t.Error("expected error for bad duration")
	}
	if err := m.Set("fetchTimeout", "2m"); err != nil {
		t.Fatalf("Set(fetchTimeout) error: %v", err)
	}
	cfg, _ := m.Load()
	if cfg.Timeout() != 2*time.Minute {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestManager_Protect(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())

	if err := m.Protect("docs/adr/", "notes/"); err != nil {
		t.Fatalf("Protect() error: %v", err)
	}
	if err := m.Protect("notes/"); err != nil {
		t.Fatalf("Protect() error: %v", err)
	}
	cfg, _ := m.Load()
	if len(cfg.ProtectedPaths) != 2 {
		t.Errorf("ProtectedPaths = %v", cfg.ProtectedPaths)
	}
}

func TestManager_SetCloneURLOverride(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())
	os.WriteFile(m.ConfigPath(), []byte("{\n  // keep\n}\n"), 0o644)

	if err := m.SetCloneURLOverride("acme/templates", "/srv/mirror/templates"); err != nil {
		t.Fatalf("SetCloneURLOverride() error: %v", err)
	}
	if err := m.SetCloneURLOverride("github.com/acme/templates", "git@mirror:acme/templates.git"); err != nil {
		t.Fatalf("SetCloneURLOverride() error: %v", err)
	}
	if err := m.SetCloneURLOverride("acme/templates", "/srv/mirror/v2"); err != nil {
		t.Fatalf("SetCloneURLOverride() replace error: %v", err)
	}
	if err := m.SetCloneURLOverride("acme/templates", ""); err == nil {
		t.Error("expected error for empty URL")
	}

	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := map[string]string{
		"acme/templates":            "/srv/mirror/v2",
		"github.com/acme/templates": "git@mirror:acme/templates.git",
	}
	if len(cfg.CloneURLOverrides) != len(want) {
		t.Fatalf("CloneURLOverrides = %v", cfg.CloneURLOverrides)
	}
	for k, v := range want {
		if cfg.CloneURLOverrides[k] != v {
			t.Errorf("CloneURLOverrides[%q] = %q, want %q", k, cfg.CloneURLOverrides[k], v)
		}
	}
	data, _ := os.ReadFile(m.ConfigPath())
	if !strings.Contains(string(data), "// keep") {
		t.Errorf("comment lost:\n%s", data)
	}
}

func TestNewManager_HomeEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	if m.ConfigPath() != filepath.Join(dir, "config.jsonc") {
		t.Errorf("ConfigPath() = %q", m.ConfigPath())
	}
}
