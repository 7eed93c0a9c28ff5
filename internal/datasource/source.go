// Package datasource discovers, validates, and loads outline documents.
// A document can live in a YAML or JSON file or in a SQLite database; when
// pointed at a directory, discovery selects the freshest valid source.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// SourceType identifies the storage format of a document source.
type SourceType string

const (
	SourceTypeSQLite SourceType = "sqlite"
	SourceTypeYAML   SourceType = "yaml"
	SourceTypeJSON   SourceType = "json"
)

// Priority values per source type (higher wins when timestamps tie). SQLite
// reflects the most recent state when a design tool writes both formats.
const (
	PrioritySQLite = 100
	PriorityYAML   = 80
	PriorityJSON   = 60
)

// wellKnownNames are the file names discovery probes inside a directory.
var wellKnownNames = []string{
	"outline.db",
	"outline.yaml",
	"outline.yml",
	"outline.json",
}

// Source describes one candidate document source.
type Source struct {
	Type            SourceType `json:"type"`
	Path            string     `json:"path"`
	Priority        int        `json:"priority"`
	ModTime         time.Time  `json:"mod_time"`
	Valid           bool       `json:"valid"`
	ValidationError string     `json:"validation_error,omitempty"`
	NodeCount       int        `json:"node_count"`
	Size            int64      `json:"size"`
}

// String returns a human-readable description of the source.
func (s Source) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, nodes=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.NodeCount, status)
}

// TypeForPath infers the source type from a file extension.
func TypeForPath(path string) (SourceType, error) {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	case ".yaml", ".yml":
		return SourceTypeYAML, nil
	case ".json":
		return SourceTypeJSON, nil
	}
	return "", fmt.Errorf("unrecognized document extension %q", filepath.Ext(path))
}

func priorityFor(t SourceType) int {
	switch t {
	case SourceTypeSQLite:
		return PrioritySQLite
	case SourceTypeYAML:
		return PriorityYAML
	default:
		return PriorityJSON
	}
}

// DiscoverSources probes the well-known document names inside dir and
// validates each candidate concurrently. Invalid candidates are reported
// with their validation error rather than dropped, so callers can explain
// what was skipped.
func DiscoverSources(dir string) ([]Source, error) {
	var candidates []Source
	for _, name := range wellKnownNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		typ, err := TypeForPath(path)
		if err != nil {
			continue
		}
		candidates = append(candidates, Source{
			Type:     typ,
			Path:     path,
			Priority: priorityFor(typ),
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no outline document found in %s", dir)
	}

	var g errgroup.Group
	for i := range candidates {
		g.Go(func() error {
			src := &candidates[i]
			doc, err := LoadFromSource(*src)
			if err != nil {
				src.Valid = false
				src.ValidationError = err.Error()
				return nil // validation failure is a result, not an error
			}
			src.Valid = true
			src.NodeCount = doc.CountNodes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// SelectBestSource picks the freshest valid source; priority breaks ties
// between sources modified within the same second.
func SelectBestSource(sources []Source) (Source, error) {
	valid := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Valid {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return Source{}, fmt.Errorf("no valid outline source among %d candidates", len(sources))
	}
	sort.Slice(valid, func(i, j int) bool {
		a, b := valid[i], valid[j]
		at, bt := a.ModTime.Truncate(time.Second), b.ModTime.Truncate(time.Second)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.Priority > b.Priority
	})
	return valid[0], nil
}
