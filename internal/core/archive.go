package core

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fetchTimeout = 60 * time.Second

// FetchBytes downloads a URL into memory. Transport failures and non-2xx
// statuses return a *NetworkError.
func FetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return data, nil
}

// Archive is a read-only index over a fetched GitHub tarball. All entries
// stay in memory for the duration of one discovery call; nothing mutates the
// archive after OpenArchive returns.
type Archive struct {
	paths    []string // regular-file entries in tarball order
	contents map[string]string
}

// OpenArchive decodes gzip-compressed tar bytes into an in-memory index.
func OpenArchive(data []byte) (*Archive, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{What: "archive", Err: err}
	}
	defer func() { _ = gz.Close() }()

	a := &Archive{contents: make(map[string]string)}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{What: "archive", Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, &ParseError{What: "archive", Err: fmt.Errorf("reading %s: %w", hdr.Name, err)}
		}
		a.paths = append(a.paths, hdr.Name)
		a.contents[hdr.Name] = string(content)
	}
	return a, nil
}

// ListFiles returns entry paths ending in suffix, in tarball order. The match
// is a literal trailing-string test, not a glob. An empty suffix lists all
// entries.
func (a *Archive) ListFiles(suffix string) []string {
	if suffix == "" {
		return append([]string(nil), a.paths...)
	}
	var matched []string
	for _, p := range a.paths {
		if strings.HasSuffix(p, suffix) {
			matched = append(matched, p)
		}
	}
	return matched
}

// ExtractFile returns the text of one entry, or *NotFoundError.
func (a *Archive) ExtractFile(path string) (string, error) {
	content, ok := a.contents[path]
	if !ok {
		return "", &NotFoundError{Path: path}
	}
	return content, nil
}

// Contains reports whether an entry exists at the exact path.
func (a *Archive) Contains(path string) bool {
	_, ok := a.contents[path]
	return ok
}

// RootPrefix returns the synthetic top-level directory GitHub tarballs nest
// everything under: the first listed path up to and including its first '/'.
// Empty when the archive has no entries or no nesting.
func (a *Archive) RootPrefix() string {
	if len(a.paths) == 0 {
		return ""
	}
	first := a.paths[0]
	if idx := strings.Index(first, "/"); idx >= 0 {
		return first[:idx+1]
	}
	return ""
}
