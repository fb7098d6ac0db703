// Package harness resolves the on-disk layout of locally installed coding
// harnesses and reads/writes their MCP configuration files with the same
// parsers used for remote discovery.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind names a supported harness.
type Kind string

const (
	ClaudeCode Kind = "claude-code"
	Droid      Kind = "droid"
)

// claudeConfigDirEnv overrides the Claude Code global config directory.
const claudeConfigDirEnv = "CLAUDE_CONFIG_DIR"

// ParseKind parses a harness name as given on the command line.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "claude-code", "claude":
		return ClaudeCode, nil
	case "droid", "factory":
		return Droid, nil
	}
	return "", fmt.Errorf("unknown harness %q (supported: claude-code, droid)", s)
}

// DisplayName returns the human-readable harness name.
func (k Kind) DisplayName() string {
	switch k {
	case ClaudeCode:
		return "Claude Code"
	case Droid:
		return "Droid"
	}
	return string(k)
}

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeProject
	scopeCustom
)

// Scope selects which config tree to resolve against: the user-global
// directory, a project root, or an explicit custom directory.
type Scope struct {
	kind scopeKind
	path string
}

// Global is the user-global scope.
func Global() Scope { return Scope{kind: scopeGlobal} }

// Project scopes resolution to a project root directory.
func Project(root string) Scope { return Scope{kind: scopeProject, path: root} }

// Custom scopes resolution to an explicit config directory.
func Custom(path string) Scope { return Scope{kind: scopeCustom, path: path} }

// Harness is a harness kind with path resolution over its config layout.
type Harness struct {
	kind Kind
}

// New returns a Harness for the kind without checking installation.
func New(kind Kind) *Harness { return &Harness{kind: kind} }

// Locate returns a Harness for the kind, failing when it is not installed
// (its global config directory does not exist).
func Locate(kind Kind) (*Harness, error) {
	h := New(kind)
	if !h.IsInstalled() {
		return nil, fmt.Errorf("%s is not installed", kind.DisplayName())
	}
	return h, nil
}

// Kind returns the harness kind.
func (h *Harness) Kind() Kind { return h.kind }

// IsInstalled reports whether the harness's global config directory exists.
func (h *Harness) IsInstalled() bool {
	dir, err := h.globalConfigDir()
	if err != nil {
		return false
	}
	_, err = os.Stat(dir)
	return err == nil
}

// globalConfigDir resolves the user-global config directory. Claude Code
// honors $CLAUDE_CONFIG_DIR when it holds an absolute path.
func (h *Harness) globalConfigDir() (string, error) {
	if h.kind == ClaudeCode {
		if dir := os.Getenv(claudeConfigDirEnv); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	switch h.kind {
	case ClaudeCode:
		return filepath.Join(home, ".claude"), nil
	case Droid:
		return filepath.Join(home, ".factory"), nil
	}
	return "", fmt.Errorf("unknown harness %q", h.kind)
}

// projectConfigDir is the harness's directory inside a project root.
func (h *Harness) projectConfigDir(root string) string {
	switch h.kind {
	case Droid:
		return filepath.Join(root, ".factory")
	default:
		return filepath.Join(root, ".claude")
	}
}

// ConfigDir resolves the base configuration directory for a scope.
func (h *Harness) ConfigDir(scope Scope) (string, error) {
	switch scope.kind {
	case scopeProject:
		return h.projectConfigDir(scope.path), nil
	case scopeCustom:
		return scope.path, nil
	default:
		return h.globalConfigDir()
	}
}

// CommandsDir resolves the commands directory for a scope.
func (h *Harness) CommandsDir(scope Scope) (string, error) {
	dir, err := h.ConfigDir(scope)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "commands"), nil
}

// SkillsDir resolves the skills directory for a scope. Claude Code has no
// dedicated skills directory; ok is false for it.
func (h *Harness) SkillsDir(scope Scope) (string, bool, error) {
	if h.kind != Droid {
		return "", false, nil
	}
	dir, err := h.ConfigDir(scope)
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, "skills"), true, nil
}

// AgentsDir resolves the agent-definitions directory for a scope. Droid keeps
// agents under droids/; Claude Code has no agents directory.
func (h *Harness) AgentsDir(scope Scope) (string, bool, error) {
	if h.kind != Droid {
		return "", false, nil
	}
	dir, err := h.ConfigDir(scope)
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, "droids"), true, nil
}

// McpConfigPath resolves the MCP config file for a scope. Claude Code uses
// .mcp.json, Droid uses mcp.json, both in the base config directory.
func (h *Harness) McpConfigPath(scope Scope) (string, error) {
	dir, err := h.ConfigDir(scope)
	if err != nil {
		return "", err
	}
	switch h.kind {
	case Droid:
		return filepath.Join(dir, "mcp.json"), nil
	default:
		return filepath.Join(dir, ".mcp.json"), nil
	}
}
