package core

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultRef is the ref used when a reference does not name one. GitHub
// resolves it to the repository's default branch.
const DefaultRef = "HEAD"

// ownerRepoPattern matches "owner/repo" format (2 segments, no protocol).
var ownerRepoPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// RepoRef identifies a GitHub repository at a ref. Construct with ParseRepoRef.
type RepoRef struct {
	Owner string
	Repo  string
	Ref   string // branch, tag or commit; DefaultRef when unspecified
}

// ParseRepoRef parses a GitHub URL or "owner/repo[@ref]" shorthand.
//
// Supported formats:
//   - "owner/repo"                              → default branch
//   - "owner/repo@ref"                          → specific ref
//   - "https://github.com/owner/repo"           → default branch
//   - "https://github.com/owner/repo.git"       → default branch
//   - "https://github.com/owner/repo/tree/ref"  → specific ref
func ParseRepoRef(input string) (*RepoRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &ParseError{What: "repository reference", Err: fmt.Errorf("empty input")}
	}

	if strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "http://") {
		return parseRepoURL(input)
	}

	// owner/repo@ref shorthand
	if atIdx := strings.LastIndex(input, "@"); atIdx > 0 {
		base, ref := input[:atIdx], input[atIdx+1:]
		if ownerRepoPattern.MatchString(base) && ref != "" {
			segments := strings.SplitN(base, "/", 2)
			return &RepoRef{Owner: segments[0], Repo: segments[1], Ref: ref}, nil
		}
	}

	// owner/repo (exactly 2 path segments)
	if ownerRepoPattern.MatchString(input) {
		segments := strings.SplitN(input, "/", 2)
		return &RepoRef{Owner: segments[0], Repo: segments[1], Ref: DefaultRef}, nil
	}

	return nil, &ParseError{What: "repository reference", Err: fmt.Errorf("unrecognized format: %q", input)}
}

func parseRepoURL(input string) (*RepoRef, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, &ParseError{What: "repository URL", Err: err}
	}
	if u.Host != "github.com" && u.Host != "www.github.com" {
		return nil, &ParseError{What: "repository URL", Err: fmt.Errorf("unsupported host %q", u.Host)}
	}

	// Path segments: /owner/repo[/tree/ref[/...]]
	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(pathParts) < 2 || pathParts[0] == "" || pathParts[1] == "" {
		return nil, &ParseError{What: "repository URL", Err: fmt.Errorf("missing owner/repo in %q", input)}
	}

	ref := &RepoRef{
		Owner: pathParts[0],
		Repo:  strings.TrimSuffix(pathParts[1], ".git"),
		Ref:   DefaultRef,
	}

	if len(pathParts) >= 4 && pathParts[2] == "tree" {
		ref.Ref = pathParts[3]
	}

	return ref, nil
}

// ArchiveURL returns the canonical tarball download URL for the ref.
func (r *RepoRef) ArchiveURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/%s.tar.gz", r.Owner, r.Repo, r.Ref)
}

func (r *RepoRef) String() string {
	if r.Ref == DefaultRef {
		return r.Owner + "/" + r.Repo
	}
	return r.Owner + "/" + r.Repo + "@" + r.Ref
}
