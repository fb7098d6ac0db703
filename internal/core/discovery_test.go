package core

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func testDiscoverer() *Discoverer {
	return NewDiscoverer(nil, zerolog.Nop())
}

const reviewSkill = "---\nname: review\ndescription: Reviews code\n---\nBody text.\n"

func TestDiscoverFromArchive_RootManifest(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/plugin.json", `{"name": "my-plugin", "description": "A plugin"}`},
		{"repo-main/skills/review/SKILL.md", reviewSkill},
		{"repo-main/commands/fix.md", "---\nname: fix\n---\n"},
		{"repo-main/agents/helper.md", "---\nname: helper\nmodel: opus\n---\n"},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 {
		t.Fatalf("len(Plugins) = %d, want 1", len(result.Plugins))
	}

	p := result.Plugins[0]
	if p.Name != "my-plugin" {
		t.Errorf("Name = %q, want manifest name", p.Name)
	}
	if p.Path != "" {
		t.Errorf("Path = %q, want empty for root plugin", p.Path)
	}
	if p.Description != "A plugin" {
		t.Errorf("Description = %q", p.Description)
	}
	if len(p.Skills) != 1 || p.Skills[0].Name != "review" {
		t.Errorf("Skills = %v", p.Skills)
	}
	if len(p.Commands) != 1 || p.Commands[0].Kind != "command" {
		t.Errorf("Commands = %v", p.Commands)
	}
	if len(p.Agents) != 1 || p.Agents[0].Model != "opus" {
		t.Errorf("Agents = %v", p.Agents)
	}
}

func TestDiscoverFromArchive_ManifestFallbackPath(t *testing.T) {
	// No .claude-plugin/plugin.json under the plugin dir, but a root-level
	// plugin.json inside it still counts.
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/marketplace.json", `{"plugins": [{"source": "./plugins/foo"}]}`},
		{"repo-main/plugins/foo/plugin.json", `{"name": "foo-plugin"}`},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 || result.Plugins[0].Name != "foo-plugin" {
		t.Fatalf("Plugins = %v, want foo-plugin via fallback manifest", result.Plugins)
	}
	if result.Plugins[0].Path != "plugins/foo" {
		t.Errorf("Path = %q, want plugins/foo", result.Plugins[0].Path)
	}
}

func TestDiscoverFromArchive_FailedManifestSkipsCandidate(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/marketplace.json", `{"plugins": [
			{"source": "./plugins/broken"},
			{"source": "./plugins/good"}
		]}`},
		{"repo-main/plugins/broken/.claude-plugin/plugin.json", `{broken json`},
		{"repo-main/plugins/good/.claude-plugin/plugin.json", `{"name": "good"}`},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 || result.Plugins[0].Name != "good" {
		t.Fatalf("Plugins = %v, want only the good plugin", result.Plugins)
	}
}

func TestDiscoverFromArchive_NameBackfill(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/marketplace.json", `{"plugins": [{"source": "./plugins/unnamed"}]}`},
		{"repo-main/plugins/unnamed/.claude-plugin/plugin.json", `{"description": "no name field"}`},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 {
		t.Fatalf("len(Plugins) = %d, want 1", len(result.Plugins))
	}
	if result.Plugins[0].Name != "unnamed" {
		t.Errorf("Name = %q, want last path segment backfill", result.Plugins[0].Name)
	}
}

func TestDiscoverFromArchive_SyntheticNamedAfterRepo(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/skills/review/SKILL.md", reviewSkill},
		{"repo-main/agents/helper.md", "---\nname: helper\n---\n"},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "my-repo")
	if len(result.Plugins) != 1 {
		t.Fatalf("len(Plugins) = %d, want 1", len(result.Plugins))
	}
	p := result.Plugins[0]
	if p.Name != "my-repo" {
		t.Errorf("Name = %q, want repo name for synthetic root plugin", p.Name)
	}
	if p.Hooks != nil {
		t.Errorf("Hooks = %v, want none for a synthetic plugin", p.Hooks)
	}
	if len(p.Skills) != 1 || len(p.Agents) != 1 {
		t.Errorf("Skills = %v, Agents = %v", p.Skills, p.Agents)
	}
}

func TestDiscoverFromArchive_MalformedHooksKeepPlugin(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/plugin.json", `{"name": "p"}`},
		{"repo-main/.claude-plugin/hooks.json", `{"PreToolUse": [{"matcher": "*", "hooks"`},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 {
		t.Fatalf("len(Plugins) = %d, want the plugin to survive a bad hooks file", len(result.Plugins))
	}
	if result.Plugins[0].Hooks != nil {
		t.Errorf("Hooks = %v, want absent", result.Plugins[0].Hooks)
	}
}

func TestDiscoverFromArchive_HooksAndMcp(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/plugin.json", `{"name": "p"}`},
		{"repo-main/.claude-plugin/hooks.json", `{"PreToolUse": [{"matcher": "Bash", "hooks": ["echo hi"]}]}`},
		{"repo-main/.claude-plugin/.mcp.json", `{"mcpServers": {"db": {"command": "db-srv"}}}`},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 {
		t.Fatalf("len(Plugins) = %d, want 1", len(result.Plugins))
	}
	p := result.Plugins[0]
	if len(p.Hooks) != 1 {
		t.Fatalf("Hooks = %v", p.Hooks)
	}
	if p.McpServers["db"].Stdio == nil {
		t.Errorf("McpServers = %v, want db as stdio", p.McpServers)
	}
	if result.AllMcpServers["db"].Stdio == nil {
		t.Errorf("AllMcpServers missing db")
	}
}

func TestDiscoverFromArchive_ScansOnlyUnderCandidate(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/marketplace.json", `{"plugins": [{"source": "./plugins/foo"}]}`},
		{"repo-main/plugins/foo/.claude-plugin/plugin.json", `{"name": "foo"}`},
		{"repo-main/plugins/foo/skills/inner/SKILL.md", "---\nname: inner\n---\n"},
		{"repo-main/skills/outer/SKILL.md", "---\nname: outer\n---\n"},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 1 {
		t.Fatalf("len(Plugins) = %d, want 1", len(result.Plugins))
	}
	skills := result.Plugins[0].Skills
	if len(skills) != 1 || skills[0].Name != "inner" {
		t.Errorf("Skills = %v, want only the plugin's own skills", skills)
	}
}

func TestDiscoverFromSource_RelativeRejected(t *testing.T) {
	_, err := testDiscoverer().DiscoverFromSource(t.Context(), PluginSource{Relative: "./plugins/foo"})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError for a relative source", err)
	}
}

func TestNewDiscoveryResult_Flattening(t *testing.T) {
	a := openTestArchive(t, []tarEntry{
		{"repo-main/.claude-plugin/marketplace.json", `{"plugins": [
			{"source": "./plugins/one"},
			{"source": "./plugins/two"}
		]}`},
		{"repo-main/plugins/one/.claude-plugin/plugin.json", `{"name": "one"}`},
		{"repo-main/plugins/one/skills/s1/SKILL.md", "---\nname: s1\n---\n"},
		{"repo-main/plugins/one/.claude-plugin/.mcp.json", `{"mcpServers": {"shared": {"command": "first"}}}`},
		{"repo-main/plugins/two/.claude-plugin/plugin.json", `{"name": "two"}`},
		{"repo-main/plugins/two/skills/s2/SKILL.md", "---\nname: s2\n---\n"},
		{"repo-main/plugins/two/.claude-plugin/.mcp.json", `{"mcpServers": {"shared": {"command": "second"}}}`},
	})

	result := testDiscoverer().DiscoverFromArchive(a, "repo")
	if len(result.Plugins) != 2 {
		t.Fatalf("len(Plugins) = %d, want 2", len(result.Plugins))
	}
	if len(result.AllSkills) != 2 {
		t.Errorf("len(AllSkills) = %d, want skills from both plugins", len(result.AllSkills))
	}
	if result.AllSkills[0].Name != "s1" || result.AllSkills[1].Name != "s2" {
		t.Errorf("AllSkills order = %v, want plugin order", result.AllSkills)
	}

	// Name collision across plugins resolves last-write-wins.
	if got := result.AllMcpServers["shared"].Stdio.Command; got != "second" {
		t.Errorf("AllMcpServers[shared].Command = %q, want %q", got, "second")
	}

	// Rebuilding from the same plugin list reproduces the flat views.
	rebuilt := NewDiscoveryResult(result.Plugins)
	if len(rebuilt.AllSkills) != len(result.AllSkills) ||
		len(rebuilt.AllMcpServers) != len(result.AllMcpServers) {
		t.Errorf("rebuilt flat views differ from original")
	}
}
