package core

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// StdioServer is an MCP server spawned as a subprocess and spoken to over
// stdin/stdout.
type StdioServer struct {
	Command   string
	Args      []string
	Env       map[string]EnvValue
	Cwd       string // optional working directory
	Enabled   bool
	TimeoutMs int64 // 0 = unset
}

// HttpServer is an MCP server reached over streamable HTTP.
type HttpServer struct {
	URL       string
	Headers   map[string]EnvValue
	OAuth     *OAuthConfig // never populated by parsing
	Enabled   bool
	TimeoutMs int64
}

// SseServer is an MCP server reached over server-sent events.
type SseServer struct {
	URL       string
	Headers   map[string]EnvValue
	Enabled   bool
	TimeoutMs int64
}

// OAuthConfig holds OAuth client settings for a remote server. Config parsing
// leaves it nil; OAuth is negotiated out of band.
type OAuthConfig struct {
	ClientID string   `json:"clientId,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
}

// McpServer is a tagged union over the three MCP transports. Exactly one of
// Stdio, Http, Sse is non-nil.
type McpServer struct {
	Stdio *StdioServer
	Http  *HttpServer
	Sse   *SseServer
}

// Transport returns the active variant name: "stdio", "http" or "sse".
func (s McpServer) Transport() string {
	switch {
	case s.Stdio != nil:
		return "stdio"
	case s.Http != nil:
		return "http"
	case s.Sse != nil:
		return "sse"
	}
	return ""
}

// Enabled reports whether the active variant is enabled.
func (s McpServer) Enabled() bool {
	switch {
	case s.Stdio != nil:
		return s.Stdio.Enabled
	case s.Http != nil:
		return s.Http.Enabled
	case s.Sse != nil:
		return s.Sse.Enabled
	}
	return false
}

// ParseMcpServer parses one server entry from its JSON value.
//
// Dispatch order: an explicit "type" discriminator wins ("http" and
// "streamable-http" → Http, "sse" → Sse, "stdio" → Stdio, anything else is
// unsupported); an object with a "url" and no type is an untyped remote
// server and defaults to Sse; everything else is Stdio and must carry a
// "command".
func ParseMcpServer(raw []byte, harness string) (McpServer, error) {
	if !gjson.ValidBytes(raw) {
		return McpServer{}, &ParseError{What: "MCP server", Err: fmt.Errorf("invalid JSON")}
	}
	return parseServerValue(gjson.ParseBytes(raw), harness)
}

func parseServerValue(v gjson.Result, harness string) (McpServer, error) {
	if !v.IsObject() {
		return McpServer{}, &UnsupportedConfigError{Harness: harness, Reason: "server configuration must be an object"}
	}

	if t := v.Get("type"); t.Exists() {
		switch t.String() {
		case "http", "streamable-http":
			return parseHTTPServer(v, harness)
		case "sse":
			return parseSSEServer(v, harness)
		case "stdio":
			return parseStdioServer(v, harness)
		default:
			return McpServer{}, &UnsupportedConfigError{
				Harness: harness,
				Reason:  fmt.Sprintf("unknown server type: %s", t.String()),
			}
		}
	}

	if v.Get("url").Exists() {
		// Remote server without an explicit type defaults to SSE.
		return parseSSEServer(v, harness)
	}

	return parseStdioServer(v, harness)
}

func parseStdioServer(v gjson.Result, harness string) (McpServer, error) {
	command := v.Get("command")
	if command.Type != gjson.String {
		return McpServer{}, &UnsupportedConfigError{Harness: harness, Reason: "stdio server missing 'command' field"}
	}

	var args []string
	if a := v.Get("args"); a.Exists() {
		if !a.IsArray() {
			return McpServer{}, &UnsupportedConfigError{Harness: harness, Reason: "'args' must be an array"}
		}
		var badIdx = -1
		i := 0
		a.ForEach(func(_, item gjson.Result) bool {
			if item.Type != gjson.String {
				badIdx = i
				return false
			}
			args = append(args, item.String())
			i++
			return true
		})
		if badIdx >= 0 {
			return McpServer{}, &UnsupportedConfigError{
				Harness: harness,
				Reason:  fmt.Sprintf("args[%d] must be a string", badIdx),
			}
		}
	}

	env, err := parseEnvMap(v, "env", harness)
	if err != nil {
		return McpServer{}, err
	}

	return McpServer{Stdio: &StdioServer{
		Command:   command.String(),
		Args:      args,
		Env:       env,
		Cwd:       v.Get("cwd").String(),
		Enabled:   parseEnabled(v),
		TimeoutMs: parseTimeout(v),
	}}, nil
}

func parseHTTPServer(v gjson.Result, harness string) (McpServer, error) {
	u := v.Get("url")
	if u.Type != gjson.String {
		return McpServer{}, &UnsupportedConfigError{Harness: harness, Reason: "HTTP server missing 'url' field"}
	}
	headers, err := parseEnvMap(v, "headers", harness)
	if err != nil {
		return McpServer{}, err
	}
	return McpServer{Http: &HttpServer{
		URL:       u.String(),
		Headers:   headers,
		Enabled:   parseEnabled(v),
		TimeoutMs: parseTimeout(v),
	}}, nil
}

func parseSSEServer(v gjson.Result, harness string) (McpServer, error) {
	u := v.Get("url")
	if u.Type != gjson.String {
		return McpServer{}, &UnsupportedConfigError{Harness: harness, Reason: "server missing 'url' field"}
	}
	headers, err := parseEnvMap(v, "headers", harness)
	if err != nil {
		return McpServer{}, err
	}
	return McpServer{Sse: &SseServer{
		URL:       u.String(),
		Headers:   headers,
		Enabled:   parseEnabled(v),
		TimeoutMs: parseTimeout(v),
	}}, nil
}

// parseEnvMap reads a string→string object field, passing each value through
// ParseEnvValue. field is "env" or "headers".
func parseEnvMap(v gjson.Result, field, harness string) (map[string]EnvValue, error) {
	f := v.Get(field)
	if !f.Exists() {
		return nil, nil
	}
	if !f.IsObject() {
		return nil, &UnsupportedConfigError{Harness: harness, Reason: fmt.Sprintf("'%s' must be an object", field)}
	}

	label := "header"
	if field == "env" {
		label = "environment variable"
	}

	result := make(map[string]EnvValue)
	badKey := ""
	bad := false
	f.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			badKey = key.String()
			bad = true
			return false
		}
		result[key.String()] = ParseEnvValue(value.String())
		return true
	})
	if bad {
		return nil, &UnsupportedConfigError{
			Harness: harness,
			Reason:  fmt.Sprintf("%s '%s' must be a string", label, badKey),
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// parseEnabled inverts an optional "disabled" boolean; absent means enabled.
func parseEnabled(v gjson.Result) bool {
	return v.Get("disabled").Type != gjson.True
}

func parseTimeout(v gjson.Result) int64 {
	t := v.Get("timeout")
	if t.Type != gjson.Number {
		return 0
	}
	return t.Int()
}

// ParseMcpConfig parses a full config document in the wrapped dialect: a
// single "mcpServers" object keyed by server name. A missing collection key
// is unsupported, not empty.
func ParseMcpConfig(content string, harness string) (map[string]McpServer, error) {
	if !gjson.Valid(content) {
		return nil, &ParseError{What: "MCP config", Err: fmt.Errorf("invalid JSON")}
	}

	servers := gjson.Get(content, "mcpServers")
	if !servers.IsObject() {
		return nil, &UnsupportedConfigError{Harness: harness, Reason: "config missing 'mcpServers' object"}
	}

	return parseServerMap(servers, harness)
}

// ParseMcpConfigFlexible parses a config that is either wrapped in
// "mcpServers" or a flat name→server object. The wrapped shape is attempted
// first; the flat shape only on failure.
func ParseMcpConfigFlexible(content string, harness string) (map[string]McpServer, error) {
	if !gjson.Valid(content) {
		return nil, &ParseError{What: "MCP config", Err: fmt.Errorf("invalid JSON")}
	}

	if wrapped, err := ParseMcpConfig(content, harness); err == nil {
		return wrapped, nil
	}

	root := gjson.Parse(content)
	if !root.IsObject() {
		return nil, &UnsupportedConfigError{Harness: harness, Reason: "config must be an object"}
	}
	return parseServerMap(root, harness)
}

func parseServerMap(obj gjson.Result, harness string) (map[string]McpServer, error) {
	result := make(map[string]McpServer)
	var parseErr error
	obj.ForEach(func(key, value gjson.Result) bool {
		server, err := parseServerValue(value, harness)
		if err != nil {
			parseErr = err
			return false
		}
		result[key.String()] = server
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return result, nil
}

// JSON shapes mirror the native config spelling so that a serialized server
// parses back to an equal value.

type stdioServerJSON struct {
	Command  string              `json:"command"`
	Args     []string            `json:"args,omitempty"`
	Env      map[string]EnvValue `json:"env,omitempty"`
	Cwd      string              `json:"cwd,omitempty"`
	Disabled bool                `json:"disabled,omitempty"`
	Timeout  int64               `json:"timeout,omitempty"`
}

type remoteServerJSON struct {
	Type     string              `json:"type"`
	URL      string              `json:"url"`
	Headers  map[string]EnvValue `json:"headers,omitempty"`
	Disabled bool                `json:"disabled,omitempty"`
	Timeout  int64               `json:"timeout,omitempty"`
}

// MarshalJSON writes the native config spelling of the active variant.
func (s McpServer) MarshalJSON() ([]byte, error) {
	switch {
	case s.Stdio != nil:
		return json.Marshal(stdioServerJSON{
			Command:  s.Stdio.Command,
			Args:     s.Stdio.Args,
			Env:      s.Stdio.Env,
			Cwd:      s.Stdio.Cwd,
			Disabled: !s.Stdio.Enabled,
			Timeout:  s.Stdio.TimeoutMs,
		})
	case s.Http != nil:
		return json.Marshal(remoteServerJSON{
			Type:     "http",
			URL:      s.Http.URL,
			Headers:  s.Http.Headers,
			Disabled: !s.Http.Enabled,
			Timeout:  s.Http.TimeoutMs,
		})
	case s.Sse != nil:
		return json.Marshal(remoteServerJSON{
			Type:     "sse",
			URL:      s.Sse.URL,
			Headers:  s.Sse.Headers,
			Disabled: !s.Sse.Enabled,
			Timeout:  s.Sse.TimeoutMs,
		})
	}
	return nil, fmt.Errorf("MCP server has no active variant")
}

// UnmarshalJSON parses the entry back through ParseMcpServer.
func (s *McpServer) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMcpServer(data, "json")
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
