package core

import (
	"encoding/json"
	"strings"
)

// EnvValue is either a literal string or a reference to an environment
// variable, written as ${NAME} in harness config files. Resolving a
// reference against the process environment is left to the consumer.
type EnvValue struct {
	text  string
	isVar bool
}

// Literal returns an EnvValue holding the string as-is.
func Literal(s string) EnvValue { return EnvValue{text: s} }

// VarRef returns an EnvValue referencing the named environment variable.
func VarRef(name string) EnvValue { return EnvValue{text: name, isVar: true} }

// ParseEnvValue parses a raw config string into an EnvValue.
//
// Only a string that is exactly ${NAME} — non-empty NAME with no whitespace,
// no '$' and no braces — becomes a variable reference. Everything else,
// including unbalanced or nested markers, stays a literal byte-for-byte.
func ParseEnvValue(raw string) EnvValue {
	if !strings.HasPrefix(raw, "${") || !strings.HasSuffix(raw, "}") || len(raw) < 4 {
		return Literal(raw)
	}
	name := raw[2 : len(raw)-1]
	if strings.ContainsAny(name, "${} \t\n\r") {
		return Literal(raw)
	}
	return VarRef(name)
}

// IsVar reports whether the value is a variable reference.
func (v EnvValue) IsVar() bool { return v.isVar }

// Var returns the referenced variable name, if any.
func (v EnvValue) Var() (string, bool) {
	if v.isVar {
		return v.text, true
	}
	return "", false
}

// Text returns the literal text, if the value is not a reference.
func (v EnvValue) Text() (string, bool) {
	if v.isVar {
		return "", false
	}
	return v.text, true
}

// Raw returns the value in its config-file spelling: the literal text, or
// ${NAME} for a reference. ParseEnvValue(v.Raw()) reproduces v.
func (v EnvValue) Raw() string {
	if v.isVar {
		return "${" + v.text + "}"
	}
	return v.text
}

func (v EnvValue) String() string { return v.Raw() }

// MarshalJSON writes the config-file spelling.
func (v EnvValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

// UnmarshalJSON parses a JSON string through ParseEnvValue.
func (v *EnvValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ParseEnvValue(raw)
	return nil
}
