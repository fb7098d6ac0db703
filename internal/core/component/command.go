package component

import "fmt"

// CommandDescriptor is the metadata header of a command Markdown file. Kind
// records the static tag the file was scanned under (e.g. "command").
type CommandDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Kind        string `json:"kind,omitempty" yaml:"-"`
}

// ParseCommand parses a command file's frontmatter and tags it with kind.
func ParseCommand(content, kind string) (*CommandDescriptor, error) {
	var d CommandDescriptor
	if err := decodeFrontmatter(content, &d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		return nil, fmt.Errorf("command missing name field")
	}
	d.Kind = kind
	return &d, nil
}
