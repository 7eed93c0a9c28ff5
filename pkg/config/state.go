package config

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// OutlineState is the per-document browsing state persisted across runs:
// which containers were folded, the selected node, and the scroll offset.
type OutlineState struct {
	FoldedIDs  []string `json:"folded_ids,omitempty"`
	SelectedID string   `json:"selected_id,omitempty"`
	ScrollY    int      `json:"scroll_y,omitempty"`
}

// statePath maps a document path to its state file under the config dir.
// Hashing keeps the mapping stable without encoding the full path.
func statePath(docPath string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(docPath)
	if err != nil {
		abs = docPath
	}
	h := fnv.New64a()
	h.Write([]byte(abs))
	return filepath.Join(dir, "state", fmt.Sprintf("%016x.json", h.Sum64())), nil
}

// LoadState reads the saved browsing state for a document. A missing file
// yields the zero state.
func LoadState(docPath string) (OutlineState, error) {
	var st OutlineState
	path, err := statePath(docPath)
	if err != nil {
		return st, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file is not worth failing startup over.
		return OutlineState{}, nil
	}
	return st, nil
}

// SaveState persists the browsing state for a document.
func SaveState(docPath string, st OutlineState) error {
	path, err := statePath(docPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
