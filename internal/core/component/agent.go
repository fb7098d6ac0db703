package component

import "fmt"

// AgentDescriptor is the metadata header of an agent Markdown file.
type AgentDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Model       string `json:"model,omitempty" yaml:"model"`
}

// ParseAgent parses an agent file's frontmatter. The name field is required.
func ParseAgent(content string) (*AgentDescriptor, error) {
	var d AgentDescriptor
	if err := decodeFrontmatter(content, &d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		return nil, fmt.Errorf("agent missing name field")
	}
	return &d, nil
}
