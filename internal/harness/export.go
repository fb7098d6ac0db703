package harness

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/sjson"

	"pluginscout/internal/core"
)

// RenderMcpConfig builds a ready-to-use wrapped MCP config document from a
// server map, entries in name order. The output parses back through
// ReadMcpServers' dialect.
func RenderMcpConfig(servers map[string]core.McpServer) (string, error) {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	content := fmt.Sprintf("{%q:{}}", mcpConfigKey)
	for _, name := range names {
		value, err := json.Marshal(servers[name])
		if err != nil {
			return "", fmt.Errorf("encoding server %q: %w", name, err)
		}
		content, err = sjson.SetRaw(content, mcpConfigKey+"."+escapeJSONKey(name), string(value))
		if err != nil {
			return "", fmt.Errorf("writing server %q: %w", name, err)
		}
	}

	var pretty json.RawMessage = []byte(content)
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// escapeJSONKey escapes a key for sjson path syntax, where dots and
// wildcards are structural.
func escapeJSONKey(key string) string {
	needsEscape := false
	for _, c := range key {
		if c == '.' || c == '*' || c == '?' || c == '#' {
			needsEscape = true
			break
		}
	}
	if needsEscape {
		return `\` + key
	}
	return key
}
