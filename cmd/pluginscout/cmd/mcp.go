package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pluginscout/internal/core"
	"pluginscout/internal/harness"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP servers of a locally installed harness",
	Long:  `List, add, and remove MCP server entries in a local harness's config file.`,
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	Long: `List the MCP servers configured for a local harness.

Examples:
  pluginscout mcp list
  pluginscout mcp list --harness droid
  pluginscout mcp list --project ./my-app`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, scope, err := resolveHarness(cmd)
		if err != nil {
			return err
		}

		servers, err := h.ReadMcpServers(scope)
		if err != nil {
			return err
		}
		if len(servers) == 0 {
			fmt.Println("No MCP servers configured.")
			return nil
		}

		names := make([]string, 0, len(servers))
		for name := range servers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			server := servers[name]
			state := ""
			if !server.Enabled() {
				state = " (disabled)"
			}
			fmt.Printf("%s\t%s%s\n", name, describeServer(server), state)
		}
		return nil
	},
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an MCP server entry",
	Long: `Add an MCP server entry to a local harness's config file.

A --command makes a stdio server; a --url makes a remote server, HTTP when
--transport http is given and SSE otherwise. Comments and formatting in the
config file are preserved.

Examples:
  pluginscout mcp add db --command npx --arg -y --arg my-db-server --env 'TOKEN=${DB_TOKEN}'
  pluginscout mcp add search --url https://example.com/mcp --transport http
  pluginscout mcp add search --url https://example.com/sse --header 'Authorization=${API_KEY}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, scope, err := resolveHarness(cmd)
		if err != nil {
			return err
		}

		server, err := serverFromFlags(cmd)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if err := h.WriteMcpServer(scope, args[0], server, force); err != nil {
			if errors.Is(err, harness.ErrAlreadyExists) {
				return fmt.Errorf("MCP server %q already exists, use --force to overwrite", args[0])
			}
			return err
		}

		fmt.Printf("Added MCP server %q to %s config\n", args[0], h.Kind().DisplayName())
		return nil
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an MCP server entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, scope, err := resolveHarness(cmd)
		if err != nil {
			return err
		}
		if err := h.RemoveMcpServer(scope, args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed MCP server %q from %s config\n", args[0], h.Kind().DisplayName())
		return nil
	},
}

var mcpExportCmd = &cobra.Command{
	Use:   "export <repository>",
	Short: "Export a repository's MCP servers as a config document",
	Long: `Discover a repository's plugins and print their MCP servers as a
ready-to-use mcpServers config document.

Example:
  pluginscout mcp export owner/repo > .mcp.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := core.NewDiscoverer(nil, newLogger())
		result, err := d.DiscoverAll(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rendered, err := harness.RenderMcpConfig(result.AllMcpServers)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{mcpListCmd, mcpAddCmd, mcpRemoveCmd} {
		c.Flags().String("harness", "claude-code", "target harness (claude-code, droid)")
		c.Flags().String("project", "", "resolve against a project root instead of the global config")
		c.Flags().String("config-dir", "", "resolve against an explicit config directory")
	}

	mcpAddCmd.Flags().String("command", "", "stdio server command")
	mcpAddCmd.Flags().StringArray("arg", nil, "stdio server argument (repeatable)")
	mcpAddCmd.Flags().StringArray("env", nil, "stdio environment entry KEY=VALUE (repeatable)")
	mcpAddCmd.Flags().String("url", "", "remote server URL")
	mcpAddCmd.Flags().String("transport", "", "remote transport: http or sse (default sse)")
	mcpAddCmd.Flags().StringArray("header", nil, "remote header entry KEY=VALUE (repeatable)")
	mcpAddCmd.Flags().Int64("timeout", 0, "server timeout in milliseconds")
	mcpAddCmd.Flags().Bool("disabled", false, "add the entry disabled")
	mcpAddCmd.Flags().Bool("force", false, "overwrite an existing entry with the same name")

	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpExportCmd)
	rootCmd.AddCommand(mcpCmd)
}

// resolveHarness reads the shared scope flags into a harness and scope.
func resolveHarness(cmd *cobra.Command) (*harness.Harness, harness.Scope, error) {
	name, _ := cmd.Flags().GetString("harness")
	kind, err := harness.ParseKind(name)
	if err != nil {
		return nil, harness.Scope{}, err
	}

	project, _ := cmd.Flags().GetString("project")
	configDir, _ := cmd.Flags().GetString("config-dir")

	scope := harness.Global()
	switch {
	case configDir != "":
		scope = harness.Custom(configDir)
	case project != "":
		scope = harness.Project(project)
	}

	return harness.New(kind), scope, nil
}

// serverFromFlags builds an MCP server from the mcp add flags.
func serverFromFlags(cmd *cobra.Command) (core.McpServer, error) {
	command, _ := cmd.Flags().GetString("command")
	url, _ := cmd.Flags().GetString("url")
	transport, _ := cmd.Flags().GetString("transport")
	timeout, _ := cmd.Flags().GetInt64("timeout")
	disabled, _ := cmd.Flags().GetBool("disabled")

	switch {
	case command != "" && url != "":
		return core.McpServer{}, fmt.Errorf("--command and --url are mutually exclusive")
	case command != "":
		args, _ := cmd.Flags().GetStringArray("arg")
		env, err := envFromFlags(cmd, "env")
		if err != nil {
			return core.McpServer{}, err
		}
		return core.McpServer{Stdio: &core.StdioServer{
			Command:   command,
			Args:      args,
			Env:       env,
			Enabled:   !disabled,
			TimeoutMs: timeout,
		}}, nil
	case url != "":
		headers, err := envFromFlags(cmd, "header")
		if err != nil {
			return core.McpServer{}, err
		}
		switch transport {
		case "http", "streamable-http":
			return core.McpServer{Http: &core.HttpServer{
				URL:       url,
				Headers:   headers,
				Enabled:   !disabled,
				TimeoutMs: timeout,
			}}, nil
		case "", "sse":
			return core.McpServer{Sse: &core.SseServer{
				URL:       url,
				Headers:   headers,
				Enabled:   !disabled,
				TimeoutMs: timeout,
			}}, nil
		default:
			return core.McpServer{}, fmt.Errorf("unknown transport %q (supported: http, sse)", transport)
		}
	}
	return core.McpServer{}, fmt.Errorf("either --command or --url is required")
}

// envFromFlags parses repeated KEY=VALUE flag entries, values going through
// the environment-value parser so ${NAME} references survive round-trips.
func envFromFlags(cmd *cobra.Command, flag string) (map[string]core.EnvValue, error) {
	entries, _ := cmd.Flags().GetStringArray(flag)
	if len(entries) == 0 {
		return nil, nil
	}

	result := make(map[string]core.EnvValue, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s entry %q, expected KEY=VALUE", flag, entry)
		}
		result[key] = core.ParseEnvValue(value)
	}
	return result, nil
}

// describeServer formats a one-line transport summary for mcp list.
func describeServer(s core.McpServer) string {
	switch {
	case s.Stdio != nil:
		if len(s.Stdio.Args) > 0 {
			return "stdio: " + s.Stdio.Command + " " + strings.Join(s.Stdio.Args, " ")
		}
		return "stdio: " + s.Stdio.Command
	case s.Http != nil:
		return "http: " + s.Http.URL
	case s.Sse != nil:
		return "sse: " + s.Sse.URL
	}
	return "unknown"
}
