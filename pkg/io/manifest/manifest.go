// Package manifest reads dependency manifests (pip requirements files).
//
// The launcher does not resolve packages itself; resolution and installation
// happen inside the image build. The manifest is parsed only to fail fast on a
// missing file and to surface entries that are not pinned to an exact version.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyManifest is returned when the manifest contains no requirement entries.
var ErrEmptyManifest = errors.New("dependency manifest is empty")

// pinMarker is the exact-version specifier. Anything else (>=, ~=, bare name)
// may float between builds.
const pinMarker = "=="

// Entry is a single dependency requirement.
type Entry struct {
	// Name is the package name.
	Name string
	// Version is the exact pinned version, empty when the entry is not pinned
	// with "==".
	Version string
	// Raw is the requirement line as written.
	Raw string
}

// Pinned reports whether the entry is pinned to an exact version.
func (e Entry) Pinned() bool {
	return e.Version != ""
}

// Manifest is an ordered list of dependency requirements.
type Manifest struct {
	// Path is the file the manifest was read from, if any.
	Path string
	// Entries preserves the file order.
	Entries []Entry
}

// Unpinned returns the entries that are not pinned to an exact version.
func (m *Manifest) Unpinned() []Entry {
	var unpinned []Entry

	for _, entry := range m.Entries {
		if !entry.Pinned() {
			unpinned = append(unpinned, entry)
		}
	}

	return unpinned
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path comes from user configuration.
	if err != nil {
		return nil, fmt.Errorf("failed to open dependency manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	parsed, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dependency manifest %s: %w", path, err)
	}

	parsed.Path = path

	return parsed, nil
}

// Parse reads requirement entries from r. Blank lines and "#" comments are
// skipped; inline comments are stripped.
func Parse(r io.Reader) (*Manifest, error) {
	parsed := &Manifest{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		parsed.Entries = append(parsed.Entries, parseEntry(line))
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	if len(parsed.Entries) == 0 {
		return nil, ErrEmptyManifest
	}

	return parsed, nil
}

// stripComment removes an inline comment and surrounding whitespace.
func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}

	return strings.TrimSpace(line)
}

// parseEntry splits a requirement line into name and pinned version.
func parseEntry(line string) Entry {
	entry := Entry{Raw: line}

	name, version, found := strings.Cut(line, pinMarker)
	if found {
		entry.Name = strings.TrimSpace(name)
		entry.Version = strings.TrimSpace(version)

		return entry
	}

	// Not an exact pin; take the name up to any other specifier.
	entry.Name = strings.TrimSpace(strings.FieldsFunc(line, func(r rune) bool {
		return r == '>' || r == '<' || r == '~' || r == '!' || r == '=' || r == ' ' || r == ';'
	})[0])

	return entry
}
