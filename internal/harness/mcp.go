package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"pluginscout/internal/core"
)

// mcpConfigKey is the collection key both supported harnesses wrap their
// server entries in.
const mcpConfigKey = "mcpServers"

// ErrAlreadyExists is returned by WriteMcpServer when an entry with the same
// name exists and force was not set.
var ErrAlreadyExists = errors.New("MCP entry already exists")

// ReadMcpServers reads and parses the harness's MCP config file for a scope.
// The file may contain comments and trailing commas; it is standardized
// before parsing. A missing file is an empty config, not an error.
func (h *Harness) ReadMcpServers(scope Scope) (map[string]core.McpServer, error) {
	path, err := h.McpConfigPath(scope)
	if err != nil {
		return nil, err
	}

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, nil
	}

	standardized, err := hujson.Standardize([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return core.ParseMcpConfigFlexible(string(standardized), h.kind.DisplayName())
}

// WriteMcpServer inserts or replaces one server entry in the harness's MCP
// config file, preserving any comments and layout around it. Without force,
// an existing entry of the same name is left alone and ErrAlreadyExists is
// returned.
func (h *Harness) WriteMcpServer(scope Scope, name string, server core.McpServer, force bool) error {
	path, err := h.McpConfigPath(scope)
	if err != nil {
		return err
	}

	content, err := readConfigFile(path)
	if err != nil {
		return err
	}
	if content == "" {
		content = "{}"
	}

	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	entryPtr := "/" + jsonPointerEscape(mcpConfigKey) + "/" + jsonPointerEscape(name)
	exists := root.Find(entryPtr) != nil
	if exists && !force {
		return ErrAlreadyExists
	}

	value, err := json.MarshalIndent(server, "\t\t", "\t")
	if err != nil {
		return fmt.Errorf("encoding MCP entry: %w", err)
	}

	if root.Find("/"+jsonPointerEscape(mcpConfigKey)) == nil {
		topPatch := fmt.Sprintf(`[{"op":"add","path":%q,"value":{}}]`, "/"+jsonPointerEscape(mcpConfigKey))
		if err := root.Patch([]byte(topPatch)); err != nil {
			return fmt.Errorf("creating %q key: %w", mcpConfigKey, err)
		}
	}

	op := "add"
	if exists {
		op = "replace"
	}
	patch := fmt.Sprintf(`[{"op":%q,"path":%q,"value":%s}]`, op, entryPtr, value)
	if err := root.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("writing MCP entry: %w", err)
	}

	root.Format()
	return writeConfigFile(path, root.Pack())
}

// RemoveMcpServer deletes one server entry if present. Removing a missing
// entry or operating on a missing file is a no-op.
func (h *Harness) RemoveMcpServer(scope Scope, name string) error {
	path, err := h.McpConfigPath(scope)
	if err != nil {
		return err
	}

	content, err := readConfigFile(path)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}

	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	entryPtr := "/" + jsonPointerEscape(mcpConfigKey) + "/" + jsonPointerEscape(name)
	if root.Find(entryPtr) == nil {
		return nil
	}

	patch := fmt.Sprintf(`[{"op":"remove","path":%q}]`, entryPtr)
	if err := root.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("removing MCP entry: %w", err)
	}

	root.Format()
	return writeConfigFile(path, root.Pack())
}

// readConfigFile reads a config file, mapping a missing file to "".
func readConfigFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// writeConfigFile writes a config file atomically, creating parent
// directories as needed.
func writeConfigFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// jsonPointerEscape escapes a key for use in an RFC 6901 JSON pointer.
func jsonPointerEscape(s string) string {
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			result = append(result, '~', '0')
		case '/':
			result = append(result, '~', '1')
		default:
			result = append(result, s[i])
		}
	}
	return string(result)
}
