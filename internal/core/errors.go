package core

import "fmt"

// ParseError reports malformed JSON or manifest structure.
type ParseError struct {
	What string // what was being parsed, e.g. "marketplace.json"
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("parsing %s", e.What)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a required file or path that is absent.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Path) }

// NetworkError reports a transport failure or a non-success HTTP status.
type NetworkError struct {
	URL    string
	Status int // 0 when the request never completed
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UnsupportedConfigError reports a recognized config file whose shape does
// not match any known schema variant for the given harness dialect.
type UnsupportedConfigError struct {
	Harness string
	Reason  string
}

func (e *UnsupportedConfigError) Error() string {
	return fmt.Sprintf("unsupported %s config: %s", e.Harness, e.Reason)
}
