package harness

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"claude-code", ClaudeCode},
		{"claude", ClaudeCode},
		{"droid", Droid},
		{"factory", Droid},
	}
	for _, tt := range tests {
		kind, err := ParseKind(tt.input)
		if err != nil {
			t.Errorf("ParseKind(%q) error: %v", tt.input, err)
			continue
		}
		if kind != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.input, kind, tt.want)
		}
	}

	if _, err := ParseKind("cursor"); err == nil {
		t.Error("ParseKind(cursor) = nil error, want failure")
	}
}

func TestConfigDir_Global(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CLAUDE_CONFIG_DIR", "")

	dir, err := New(ClaudeCode).ConfigDir(Global())
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != filepath.Join(home, ".claude") {
		t.Errorf("ConfigDir() = %q, want ~/.claude", dir)
	}

	dir, err = New(Droid).ConfigDir(Global())
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != filepath.Join(home, ".factory") {
		t.Errorf("ConfigDir() = %q, want ~/.factory", dir)
	}
}

func TestConfigDir_ClaudeConfigDirOverride(t *testing.T) {
	override := t.TempDir()
	t.Setenv("CLAUDE_CONFIG_DIR", override)

	dir, err := New(ClaudeCode).ConfigDir(Global())
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != override {
		t.Errorf("ConfigDir() = %q, want the override %q", dir, override)
	}
}

func TestConfigDir_RelativeOverrideIgnored(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CLAUDE_CONFIG_DIR", "relative/path")

	dir, err := New(ClaudeCode).ConfigDir(Global())
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != filepath.Join(home, ".claude") {
		t.Errorf("ConfigDir() = %q, want relative override to be ignored", dir)
	}
}

func TestConfigDir_ProjectAndCustom(t *testing.T) {
	h := New(Droid)

	dir, err := h.ConfigDir(Project("/some/project"))
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != filepath.Join("/some/project", ".factory") {
		t.Errorf("project ConfigDir() = %q", dir)
	}

	dir, err = h.ConfigDir(Custom("/explicit/dir"))
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != "/explicit/dir" {
		t.Errorf("custom ConfigDir() = %q", dir)
	}
}

func TestComponentDirs(t *testing.T) {
	h := New(Droid)

	commands, err := h.CommandsDir(Project("/p"))
	if err != nil {
		t.Fatalf("CommandsDir() error: %v", err)
	}
	if commands != filepath.Join("/p", ".factory", "commands") {
		t.Errorf("CommandsDir() = %q", commands)
	}

	skills, ok, err := h.SkillsDir(Project("/p"))
	if err != nil || !ok {
		t.Fatalf("SkillsDir() = %v, %v", ok, err)
	}
	if skills != filepath.Join("/p", ".factory", "skills") {
		t.Errorf("SkillsDir() = %q", skills)
	}

	agents, ok, err := h.AgentsDir(Project("/p"))
	if err != nil || !ok {
		t.Fatalf("AgentsDir() = %v, %v", ok, err)
	}
	if agents != filepath.Join("/p", ".factory", "droids") {
		t.Errorf("AgentsDir() = %q", agents)
	}

	// Claude Code has neither a skills nor an agents directory.
	cc := New(ClaudeCode)
	if _, ok, _ := cc.SkillsDir(Project("/p")); ok {
		t.Error("Claude Code SkillsDir ok = true, want false")
	}
	if _, ok, _ := cc.AgentsDir(Project("/p")); ok {
		t.Error("Claude Code AgentsDir ok = true, want false")
	}
}

func TestMcpConfigPath(t *testing.T) {
	cc, err := New(ClaudeCode).McpConfigPath(Project("/p"))
	if err != nil {
		t.Fatalf("McpConfigPath() error: %v", err)
	}
	if cc != filepath.Join("/p", ".claude", ".mcp.json") {
		t.Errorf("Claude Code McpConfigPath() = %q", cc)
	}

	droid, err := New(Droid).McpConfigPath(Project("/p"))
	if err != nil {
		t.Fatalf("McpConfigPath() error: %v", err)
	}
	if droid != filepath.Join("/p", ".factory", "mcp.json") {
		t.Errorf("Droid McpConfigPath() = %q", droid)
	}
}

func TestIsInstalled(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CLAUDE_CONFIG_DIR", "")

	h := New(ClaudeCode)
	if h.IsInstalled() {
		t.Error("IsInstalled() = true before the config dir exists")
	}

	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatal(err)
	}
	if !h.IsInstalled() {
		t.Error("IsInstalled() = false after creating the config dir")
	}

	if _, err := Locate(ClaudeCode); err != nil {
		t.Errorf("Locate() error: %v", err)
	}
	if _, err := Locate(Droid); err == nil {
		t.Error("Locate(Droid) = nil error, want not-installed failure")
	}
}
