// Package core implements the plugin discovery pipeline: repository
// reference resolution, archive indexing, plugin boundary detection and the
// component/config parsers. It has zero UI dependencies and is independently
// testable.
package core

import "pluginscout/internal/core/component"

// PluginDescriptor is one plugin discovered in a repository, with its parsed
// components. Path is the plugin's location relative to the archive root,
// empty when the plugin occupies the root itself.
type PluginDescriptor struct {
	Name        string                        `json:"name"`
	Path        string                        `json:"path,omitempty"`
	Description string                        `json:"description,omitempty"`
	Skills      []component.SkillDescriptor   `json:"skills,omitempty"`
	Commands    []component.CommandDescriptor `json:"commands,omitempty"`
	Agents      []component.AgentDescriptor   `json:"agents,omitempty"`
	Hooks       component.HooksConfig         `json:"hooks,omitempty"`
	McpServers  map[string]McpServer          `json:"mcpServers,omitempty"`
}

// DiscoveryResult is the full plugin list plus flattened cross-plugin views.
// The flat views are derived from Plugins in order; rebuilding them always
// reproduces the same result.
type DiscoveryResult struct {
	Plugins       []PluginDescriptor            `json:"plugins,omitempty"`
	AllSkills     []component.SkillDescriptor   `json:"allSkills,omitempty"`
	AllCommands   []component.CommandDescriptor `json:"allCommands,omitempty"`
	AllAgents     []component.AgentDescriptor   `json:"allAgents,omitempty"`
	AllMcpServers map[string]McpServer          `json:"allMcpServers,omitempty"`
}

// NewDiscoveryResult builds a result from a plugin list, populating the
// flattened views. Server-name collisions across plugins resolve
// last-write-wins in plugin order.
func NewDiscoveryResult(plugins []PluginDescriptor) *DiscoveryResult {
	result := &DiscoveryResult{Plugins: plugins}
	for _, p := range plugins {
		result.AllSkills = append(result.AllSkills, p.Skills...)
		result.AllCommands = append(result.AllCommands, p.Commands...)
		result.AllAgents = append(result.AllAgents, p.Agents...)
		for name, server := range p.McpServers {
			if result.AllMcpServers == nil {
				result.AllMcpServers = make(map[string]McpServer)
			}
			result.AllMcpServers[name] = server
		}
	}
	return result
}
