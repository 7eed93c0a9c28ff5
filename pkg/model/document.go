package model

import (
	"fmt"
	"strings"
)

// Record is one nested node entry as stored in a document file. The on-disk
// formats (YAML, JSON, SQLite rows) all decode into this shape before being
// flattened into the browsing Tree.
type Record struct {
	ID       string   `yaml:"id,omitempty" json:"id,omitempty"`
	Kind     Kind     `yaml:"kind" json:"kind"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Label    string   `yaml:"label,omitempty" json:"label,omitempty"`
	Comment  string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	Body     string   `yaml:"body,omitempty" json:"body,omitempty"`
	Children []Record `yaml:"children,omitempty" json:"children,omitempty"`
}

// Document is a parsed design document.
type Document struct {
	Title   string   `yaml:"title,omitempty" json:"title,omitempty"`
	Version int      `yaml:"version,omitempty" json:"version,omitempty"`
	Nodes   []Record `yaml:"nodes" json:"nodes"`
}

// DocumentVersion is the current document schema version.
const DocumentVersion = 1

// Validate checks every record for a usable kind and rejects children under
// leaf kinds.
func (d *Document) Validate() error {
	var walk func(r *Record, path string) error
	walk = func(r *Record, path string) error {
		if !r.Kind.IsValid() {
			return fmt.Errorf("node %s: unknown kind %q", path, r.Kind)
		}
		if len(r.Children) > 0 && !r.Kind.CanHaveChildren() {
			return fmt.Errorf("node %s: kind %q cannot have children", path, r.Kind)
		}
		for i := range r.Children {
			if err := walk(&r.Children[i], fmt.Sprintf("%s/%d", path, i)); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range d.Nodes {
		if err := walk(&d.Nodes[i], fmt.Sprintf("/%d", i)); err != nil {
			return err
		}
	}
	return nil
}

// BuildTree flattens the nested records into a pre-order linked list.
// Records without an explicit ID get a stable positional one so fold state
// can be persisted across loads of unchanged documents.
func (d *Document) BuildTree() (*Tree, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	t := &Tree{}
	seq := 0
	var walk func(r *Record, level int, parent *Node)
	walk = func(r *Record, level int, parent *Node) {
		n := &Node{
			ID:      r.ID,
			Kind:    r.Kind,
			Name:    r.Name,
			Label:   r.Label,
			Comment: r.Comment,
			Body:    firstLineBlock(r.Body),
			Level:   level,
			Parent:  parent,
		}
		if n.ID == "" {
			n.ID = fmt.Sprintf("n%04d", seq)
		}
		seq++
		t.Append(n)
		for i := range r.Children {
			walk(&r.Children[i], level+1, n)
		}
	}
	for i := range d.Nodes {
		walk(&d.Nodes[i], 0, nil)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// CountNodes returns the total number of records in the document.
func (d *Document) CountNodes() int {
	var count func(rs []Record) int
	count = func(rs []Record) int {
		c := len(rs)
		for i := range rs {
			c += count(rs[i].Children)
		}
		return c
	}
	return count(d.Nodes)
}

// firstLineBlock trims trailing newlines but keeps interior ones; the
// truncator decides how embedded line breaks render.
func firstLineBlock(s string) string {
	return strings.TrimRight(s, "\n")
}
