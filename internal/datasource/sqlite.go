package datasource

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/treetop-tui/treetop/pkg/model"
)

// sqliteDSN opens the database read-only; the browser never writes to a
// design document, and mode=ro keeps a concurrent design tool safe.
func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
}

type nodeRow struct {
	id       string
	parentID string
	position int
	rec      model.Record
}

// loadSQLite reads a document from a SQLite database. The schema mirrors the
// file formats: a meta table for title/version and a nodes table where each
// row carries its parent id and sibling position.
func loadSQLite(path string) (*model.Document, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	doc := &model.Document{Version: model.DocumentVersion}
	if err := readMeta(db, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows, err := db.Query(`SELECT id, COALESCE(parent_id, ''), position, kind,
		COALESCE(name, ''), COALESCE(label, ''), COALESCE(comment, ''), COALESCE(body, '')
		FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("query nodes in %s: %w", path, err)
	}
	defer rows.Close()

	byParent := map[string][]nodeRow{}
	for rows.Next() {
		var r nodeRow
		var kind string
		if err := rows.Scan(&r.id, &r.parentID, &r.position, &kind,
			&r.rec.Name, &r.rec.Label, &r.rec.Comment, &r.rec.Body); err != nil {
			return nil, fmt.Errorf("scan node row: %w", err)
		}
		r.rec.ID = r.id
		r.rec.Kind = model.Kind(kind)
		byParent[r.parentID] = append(byParent[r.parentID], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read nodes in %s: %w", path, err)
	}

	doc.Nodes = assemble(byParent, "")
	return doc, nil
}

// assemble builds the nested record slice for one parent, recursing into
// children ordered by their stored sibling position.
func assemble(byParent map[string][]nodeRow, parentID string) []model.Record {
	rowsHere := byParent[parentID]
	sort.Slice(rowsHere, func(i, j int) bool {
		return rowsHere[i].position < rowsHere[j].position
	})
	out := make([]model.Record, 0, len(rowsHere))
	for _, r := range rowsHere {
		rec := r.rec
		rec.Children = assemble(byParent, r.id)
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func readMeta(db *sql.DB, doc *model.Document) error {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		// The meta table is optional; an outline without one just has no
		// title.
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan meta row: %w", err)
		}
		switch key {
		case "title":
			doc.Title = value
		case "version":
			fmt.Sscanf(value, "%d", &doc.Version)
		}
	}
	return rows.Err()
}
