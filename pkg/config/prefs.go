package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
)

// Preference keys understood by the renderer. Unknown keys are preserved
// round-trip so older and newer builds can share one store.
const (
	PrefLabelColor   = "label_color"
	PrefLabelStyle   = "label_style"
	PrefClassColor   = "class_color"
	PrefClassStyle   = "class_style"
	PrefFuncColor    = "func_color"
	PrefFuncStyle    = "func_style"
	PrefCodeColor    = "code_color"
	PrefCodeStyle    = "code_style"
	PrefCommentColor = "comment_color"
	PrefCommentStyle = "comment_style"
	PrefShowComments = "show_comments"
)

// Style values for the *_style keys.
const (
	StylePlain  = 0
	StyleBold   = 1
	StyleItalic = 2
)

// Prefs is a flat key/value preference store backed by a JSON file. Reads
// fall back to the caller's default; writes are buffered until Save.
type Prefs struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	dirty  bool
}

// NewPrefs returns an in-memory store that is never persisted. Used when
// the config directory is unavailable.
func NewPrefs() *Prefs {
	return &Prefs{values: map[string]string{}}
}

// OpenPrefs loads the display preference store from the config directory.
// A missing file yields an empty store.
func OpenPrefs() (*Prefs, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return OpenPrefsFrom(filepath.Join(dir, "display-prefs.json"))
}

// OpenPrefsFrom loads a preference store from an explicit path.
func OpenPrefsFrom(path string) (*Prefs, error) {
	p := &Prefs{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	return p, nil
}

// Get returns the value for key, or def when the key is unset.
func (p *Prefs) Get(key, def string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

// GetInt returns the integer value for key, or def when unset or malformed.
func (p *Prefs) GetInt(key string, def int) int {
	v := p.Get(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns the boolean value for key, or def when unset or malformed.
func (p *Prefs) GetBool(key string, def bool) bool {
	v := p.Get(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Set stores a value; it is not persisted until Save.
func (p *Prefs) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.values[key] == value {
		return
	}
	p.values[key] = value
	p.dirty = true
}

// SetInt stores an integer value.
func (p *Prefs) SetInt(key string, value int) {
	p.Set(key, strconv.Itoa(value))
}

// Save writes the store back to disk when anything changed.
func (p *Prefs) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty || p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := json.MarshalIndent(p.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	p.dirty = false
	return nil
}
