package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PluginSource is a tagged union describing where a plugin comes from:
// a GitHub owner/repo reference, a direct URL, or a path relative to the
// enclosing marketplace. Exactly one field is populated.
type PluginSource struct {
	GitHub   string
	URL      string
	Relative string
}

// sourceObject is the object spelling of a plugin source. "repo" is an
// accepted alias for "github".
type sourceObject struct {
	GitHub string `json:"github,omitempty"`
	Repo   string `json:"repo,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Path returns the populated field, whatever its tag.
func (s PluginSource) Path() string {
	switch {
	case s.GitHub != "":
		return s.GitHub
	case s.URL != "":
		return s.URL
	}
	return s.Relative
}

// MarshalJSON writes a relative source as a bare string and the other tags
// as single-key objects.
func (s PluginSource) MarshalJSON() ([]byte, error) {
	switch {
	case s.GitHub != "":
		return json.Marshal(sourceObject{GitHub: s.GitHub})
	case s.URL != "":
		return json.Marshal(sourceObject{URL: s.URL})
	}
	return json.Marshal(s.Relative)
}

// UnmarshalJSON accepts a bare string (relative path) or an object keyed by
// "github"/"repo" or "url".
func (s *PluginSource) UnmarshalJSON(data []byte) error {
	var relative string
	if err := json.Unmarshal(data, &relative); err == nil {
		*s = PluginSource{Relative: relative}
		return nil
	}

	var obj sourceObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return &ParseError{What: "plugin source", Err: err}
	}
	switch {
	case obj.GitHub != "":
		*s = PluginSource{GitHub: obj.GitHub}
	case obj.Repo != "":
		*s = PluginSource{GitHub: obj.Repo}
	case obj.URL != "":
		*s = PluginSource{URL: obj.URL}
	default:
		return &ParseError{What: "plugin source", Err: fmt.Errorf("no recognized source shape")}
	}
	return nil
}

// MarketplaceEntry is one plugin listed by a marketplace manifest.
type MarketplaceEntry struct {
	Name        string       `json:"name,omitempty"`
	Source      PluginSource `json:"source"`
	Description string       `json:"description,omitempty"`
}

// Marketplace is the parsed .claude-plugin/marketplace.json of a repository
// that aggregates multiple plugins.
type Marketplace struct {
	Name    string             `json:"name,omitempty"`
	Plugins []MarketplaceEntry `json:"plugins"`
}

// ParseMarketplace parses a marketplace manifest.
func ParseMarketplace(content string) (*Marketplace, error) {
	var m Marketplace
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return nil, parseErr
		}
		return nil, &ParseError{What: "marketplace.json", Err: err}
	}
	return &m, nil
}
