// Package component parses the per-file descriptors found inside a plugin:
// skills, commands, agents and the hooks configuration. Scanners are
// per-file-tolerant — a malformed skill/command/agent file yields an error
// the caller is expected to skip — except hooks, which fail whole-file.
package component

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates the leading YAML frontmatter block from the
// Markdown body. The content must start with a "---" line and contain a
// closing "---" line.
func splitFrontmatter(content string) (frontmatter, body string, err error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "---") {
		return "", "", fmt.Errorf("no frontmatter")
	}

	start := strings.Index(content, "---")
	rest := content[start+3:]

	// Skip the newline after the opening ---
	if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "\r\n") {
		rest = rest[2:]
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", "", fmt.Errorf("no closing frontmatter delimiter")
	}

	frontmatter = rest[:end]
	body = rest[end+4:]
	if strings.HasPrefix(body, "\n") {
		body = body[1:]
	} else if strings.HasPrefix(body, "\r\n") {
		body = body[2:]
	}

	return frontmatter, body, nil
}

// decodeFrontmatter parses the YAML header into out.
func decodeFrontmatter(content string, out any) error {
	fm, _, err := splitFrontmatter(content)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(fm), out); err != nil {
		return fmt.Errorf("parsing frontmatter: %w", err)
	}
	return nil
}
