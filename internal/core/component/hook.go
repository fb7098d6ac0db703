package component

import (
	"encoding/json"
	"fmt"
)

// HookEvent names a lifecycle event that triggers hook execution.
type HookEvent string

const (
	HookPreToolUse   HookEvent = "PreToolUse"
	HookPostToolUse  HookEvent = "PostToolUse"
	HookNotification HookEvent = "Notification"
	HookStop         HookEvent = "Stop"
	HookSubagentStop HookEvent = "SubagentStop"
)

// knownHookEvents is the closed set of events a hooks.json may declare.
var knownHookEvents = map[HookEvent]bool{
	HookPreToolUse:   true,
	HookPostToolUse:  true,
	HookNotification: true,
	HookStop:         true,
	HookSubagentStop: true,
}

// HookAction is a command to run on an event. A bare JSON string is the
// simple form; an object carries the command plus options.
type HookAction struct {
	Command    string `json:"command"`
	TimeoutMs  int64  `json:"timeout,omitempty"`
	Background bool   `json:"background,omitempty"`

	// simple marks actions declared as a bare command string, so they
	// serialize back the same way.
	simple bool
}

// SimpleAction returns the bare-string form of a hook action.
func SimpleAction(command string) HookAction {
	return HookAction{Command: command, simple: true}
}

// IsSimple reports whether the action was declared as a bare string.
func (a HookAction) IsSimple() bool { return a.simple }

// MarshalJSON writes a bare string for simple actions, an object otherwise.
func (a HookAction) MarshalJSON() ([]byte, error) {
	if a.simple && a.TimeoutMs == 0 && !a.Background {
		return json.Marshal(a.Command)
	}
	type actionObject struct {
		Command    string `json:"command"`
		TimeoutMs  int64  `json:"timeout,omitempty"`
		Background bool   `json:"background,omitempty"`
	}
	return json.Marshal(actionObject{Command: a.Command, TimeoutMs: a.TimeoutMs, Background: a.Background})
}

// UnmarshalJSON accepts either form.
func (a *HookAction) UnmarshalJSON(data []byte) error {
	var command string
	if err := json.Unmarshal(data, &command); err == nil {
		*a = SimpleAction(command)
		return nil
	}
	type actionObject struct {
		Command    string `json:"command"`
		TimeoutMs  int64  `json:"timeout"`
		Background bool   `json:"background"`
	}
	var obj actionObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Command == "" {
		return fmt.Errorf("hook action missing command")
	}
	*a = HookAction{Command: obj.Command, TimeoutMs: obj.TimeoutMs, Background: obj.Background}
	return nil
}

// HookGroup is an ordered run of actions behind an optional matcher pattern.
type HookGroup struct {
	Matcher string       `json:"matcher,omitempty"`
	Hooks   []HookAction `json:"hooks"`
}

// HooksConfig maps each declared event to its hook groups.
type HooksConfig map[HookEvent][]HookGroup

// ParseHooks parses a complete hooks.json document. Unlike the per-file
// scanners, hooks are all-or-nothing: malformed JSON or an unknown event
// name rejects the whole file.
func ParseHooks(content string) (HooksConfig, error) {
	var raw map[string][]HookGroup
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parsing hooks config: %w", err)
	}

	config := make(HooksConfig, len(raw))
	for event, groups := range raw {
		if !knownHookEvents[HookEvent(event)] {
			return nil, fmt.Errorf("unknown hook event %q", event)
		}
		config[HookEvent(event)] = groups
	}
	return config, nil
}
