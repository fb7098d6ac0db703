package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"pluginscout/internal/core/component"
)

const (
	skillFileName = "SKILL.md"
	hooksFileName = "hooks.json"
	mcpFileName   = ".mcp.json"
)

// pluginManifest is the shape of a .claude-plugin/plugin.json file.
type pluginManifest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Discoverer runs plugin discovery against remote GitHub repositories. A nil
// client uses a default with a fetch timeout.
type Discoverer struct {
	client *http.Client
	log    zerolog.Logger
}

// NewDiscoverer creates a Discoverer.
func NewDiscoverer(client *http.Client, log zerolog.Logger) *Discoverer {
	return &Discoverer{client: client, log: log}
}

// DiscoverAll resolves a repository reference, fetches its archive once and
// assembles every detected plugin into a DiscoveryResult. Candidates whose
// manifest fails to parse are skipped, not fatal.
func (d *Discoverer) DiscoverAll(ctx context.Context, repoURL string) (*DiscoveryResult, error) {
	ref, archive, err := d.fetchArchive(ctx, repoURL)
	if err != nil {
		return nil, err
	}
	return d.DiscoverFromArchive(archive, ref.Repo), nil
}

// DiscoverFromArchive runs detection and assembly over an already-fetched
// archive. repoName backfills display names for plugins at the archive root.
func (d *Discoverer) DiscoverFromArchive(a *Archive, repoName string) *DiscoveryResult {
	prefix := a.RootPrefix()
	detected := DetectPlugins(a)
	d.log.Debug().Int("candidates", len(detected)).Str("prefix", prefix).Msg("detection complete")

	var plugins []PluginDescriptor
	for _, det := range detected {
		derivedName := derivePluginName(det.Path, repoName)

		var plugin *PluginDescriptor
		if det.Method == DetectComponentDirs {
			plugin = assembleSynthetic(a, prefix, det.Path, derivedName)
		} else {
			p, err := assemblePlugin(a, prefix, det.Path)
			if err != nil {
				d.log.Debug().Str("path", det.Path).Err(err).Msg("skipping candidate")
				continue
			}
			if p.Name == "" {
				p.Name = derivedName
			}
			plugin = p
		}

		d.log.Debug().Str("name", plugin.Name).Str("method", string(det.Method)).Msg("plugin assembled")
		plugins = append(plugins, *plugin)
	}

	return NewDiscoveryResult(plugins)
}

// DiscoverPlugins is the marketplace-only entry point: it requires a
// .claude-plugin/marketplace.json in the repository and returns one plugin
// per marketplace entry. A repository without a marketplace fails with
// *NotFoundError.
func (d *Discoverer) DiscoverPlugins(ctx context.Context, repoURL string) ([]PluginDescriptor, error) {
	_, archive, err := d.fetchArchive(ctx, repoURL)
	if err != nil {
		return nil, err
	}

	mpPath := findMarketplaceJSON(archive)
	if mpPath == "" {
		return nil, &NotFoundError{Path: marketplaceFragment}
	}
	content, err := archive.ExtractFile(mpPath)
	if err != nil {
		return nil, err
	}
	marketplace, err := ParseMarketplace(content)
	if err != nil {
		return nil, err
	}

	prefix := archive.RootPrefix()
	var plugins []PluginDescriptor
	for _, entry := range marketplace.Plugins {
		path := resolvePluginPath(entry.Source.Path())
		plugin, err := assemblePlugin(archive, prefix, path)
		if err != nil {
			d.log.Debug().Str("path", path).Err(err).Msg("skipping marketplace entry")
			continue
		}
		plugins = append(plugins, *plugin)
	}
	return plugins, nil
}

// DiscoverFromSource dispatches on a plugin source's tag. Relative sources
// carry no repository of their own and cannot be discovered without a base.
func (d *Discoverer) DiscoverFromSource(ctx context.Context, source PluginSource) ([]PluginDescriptor, error) {
	switch {
	case source.GitHub != "":
		return d.DiscoverPlugins(ctx, source.GitHub)
	case source.URL != "":
		return d.DiscoverPlugins(ctx, source.URL)
	}
	return nil, &NotFoundError{Path: "cannot discover from relative path without base URL"}
}

func (d *Discoverer) fetchArchive(ctx context.Context, repoURL string) (*RepoRef, *Archive, error) {
	ref, err := ParseRepoRef(repoURL)
	if err != nil {
		return nil, nil, err
	}

	url := ref.ArchiveURL()
	d.log.Debug().Str("url", url).Msg("fetching archive")
	data, err := FetchBytes(ctx, d.client, url)
	if err != nil {
		return nil, nil, err
	}

	archive, err := OpenArchive(data)
	if err != nil {
		return nil, nil, err
	}
	return ref, archive, nil
}

// assemblePlugin reads a candidate's manifest and scans its components. The
// manifest is looked up at <base>/.claude-plugin/plugin.json with a fallback
// to <base>/plugin.json; with neither present the candidate fails.
func assemblePlugin(a *Archive, prefix, pluginPath string) (*PluginDescriptor, error) {
	base := pluginBase(prefix, pluginPath)

	content, err := a.ExtractFile(base + manifestDir + manifestFile)
	if err != nil {
		content, err = a.ExtractFile(base + manifestFile)
		if err != nil {
			return nil, err
		}
	}

	var manifest pluginManifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, &ParseError{What: manifestFile, Err: err}
	}

	plugin := &PluginDescriptor{
		Name:        manifest.Name,
		Path:        pluginPath,
		Description: manifest.Description,
	}
	scanComponents(a, base, plugin)

	if hooksContent, err := a.ExtractFile(base + manifestDir + hooksFileName); err == nil {
		if hooks, err := component.ParseHooks(hooksContent); err == nil {
			plugin.Hooks = hooks
		}
	}

	plugin.McpServers = scanMcpServers(a, base)
	return plugin, nil
}

// assembleSynthetic builds a descriptor for a candidate found only by the
// component-directory heuristic: no manifest, no hooks, just scanned
// components and any MCP config.
func assembleSynthetic(a *Archive, prefix, pluginPath, name string) *PluginDescriptor {
	base := pluginBase(prefix, pluginPath)

	plugin := &PluginDescriptor{Name: name, Path: pluginPath}
	scanComponents(a, base, plugin)
	plugin.McpServers = scanMcpServers(a, base)
	return plugin
}

func scanComponents(a *Archive, base string, plugin *PluginDescriptor) {
	for _, path := range a.ListFiles(skillFileName) {
		if !strings.HasPrefix(path, base+"skills/") {
			continue
		}
		if content, err := a.ExtractFile(path); err == nil {
			if skill, err := component.ParseSkill(content); err == nil {
				plugin.Skills = append(plugin.Skills, *skill)
			}
		}
	}

	for _, path := range a.ListFiles(".md") {
		if !strings.HasPrefix(path, base+"commands/") {
			continue
		}
		if content, err := a.ExtractFile(path); err == nil {
			if cmd, err := component.ParseCommand(content, "command"); err == nil {
				plugin.Commands = append(plugin.Commands, *cmd)
			}
		}
	}

	for _, path := range a.ListFiles(".md") {
		if !strings.HasPrefix(path, base+"agents/") {
			continue
		}
		if content, err := a.ExtractFile(path); err == nil {
			if agent, err := component.ParseAgent(content); err == nil {
				plugin.Agents = append(plugin.Agents, *agent)
			}
		}
	}
}

func scanMcpServers(a *Archive, base string) map[string]McpServer {
	content, err := a.ExtractFile(base + manifestDir + mcpFileName)
	if err != nil {
		return nil
	}
	servers, err := ParseMcpConfigFlexible(content, "plugin")
	if err != nil || len(servers) == 0 {
		return nil
	}
	return servers
}

// pluginBase joins the archive root prefix and a plugin path into the prefix
// every component lookup uses. An empty plugin path means the archive root.
func pluginBase(prefix, pluginPath string) string {
	if pluginPath == "" {
		return prefix
	}
	return prefix + pluginPath + "/"
}

// derivePluginName backfills a display name: the last path segment, or the
// repository name for a root-level plugin.
func derivePluginName(path, repoName string) string {
	if path == "" {
		return repoName
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
