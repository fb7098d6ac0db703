package component

import "fmt"

// SkillDescriptor is the metadata header of a SKILL.md file, without the
// body content.
type SkillDescriptor struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Triggers    []string `json:"triggers,omitempty" yaml:"triggers"`
}

// ParseSkill parses a SKILL.md file's frontmatter. The name field is
// required; callers skip files that fail to parse.
func ParseSkill(content string) (*SkillDescriptor, error) {
	var d SkillDescriptor
	if err := decodeFrontmatter(content, &d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		return nil, fmt.Errorf("skill missing name field")
	}
	return &d, nil
}
