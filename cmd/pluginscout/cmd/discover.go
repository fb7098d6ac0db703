package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pluginscout/internal/core"
)

// Styles for the human-readable discovery summary.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorAccent  = lipgloss.Color("#10B981") // Green

	pluginNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	pathStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	countStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(colorMuted)
)

var discoverJSON bool

var discoverCmd = &cobra.Command{
	Use:   "discover <repository>",
	Short: "Discover plugins in a GitHub repository",
	Long: `Discover plugin bundles in a GitHub repository and list their components.

The repository may be given as a URL or owner/repo[@ref] shorthand. The
archive is fetched once; detection checks a marketplace manifest, a root
plugin manifest, the plugins/ directory convention, and finally falls back
to component-directory heuristics.

Examples:
  pluginscout discover anthropics/claude-code
  pluginscout discover https://github.com/owner/repo/tree/v1.2.0
  pluginscout discover owner/repo@main --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := core.NewDiscoverer(nil, newLogger())
		result, err := d.DiscoverAll(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if discoverJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printSummary(result)
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output the full discovery result as JSON")
	rootCmd.AddCommand(discoverCmd)
}

func printSummary(result *core.DiscoveryResult) {
	if len(result.Plugins) == 0 {
		fmt.Println("No plugins found.")
		return
	}

	for _, p := range result.Plugins {
		header := pluginNameStyle.Render(p.Name)
		if p.Path != "" {
			header += " " + pathStyle.Render("("+p.Path+")")
		}
		fmt.Println(header)

		if p.Description != "" {
			fmt.Println("  " + descriptionStyle.Render(p.Description))
		}

		var parts []string
		if n := len(p.Skills); n > 0 {
			parts = append(parts, fmt.Sprintf("%d skills", n))
		}
		if n := len(p.Commands); n > 0 {
			parts = append(parts, fmt.Sprintf("%d commands", n))
		}
		if n := len(p.Agents); n > 0 {
			parts = append(parts, fmt.Sprintf("%d agents", n))
		}
		if n := len(p.Hooks); n > 0 {
			parts = append(parts, fmt.Sprintf("%d hook events", n))
		}
		if n := len(p.McpServers); n > 0 {
			parts = append(parts, fmt.Sprintf("%d MCP servers", n))
		}
		if len(parts) > 0 {
			fmt.Println("  " + countStyle.Render(strings.Join(parts, ", ")))
		}
		fmt.Println()
	}

	fmt.Printf("%d plugins, %d skills, %d commands, %d agents, %d MCP servers total\n",
		len(result.Plugins), len(result.AllSkills), len(result.AllCommands),
		len(result.AllAgents), len(result.AllMcpServers))
}
