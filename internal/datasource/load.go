package datasource

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/treetop-tui/treetop/pkg/model"
)

// LoadDocument loads an outline document from path. A directory triggers
// discovery; a file is loaded according to its extension.
func LoadDocument(path string) (*model.Document, Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Source{}, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		sources, err := DiscoverSources(path)
		if err != nil {
			return nil, Source{}, err
		}
		best, err := SelectBestSource(sources)
		if err != nil {
			return nil, Source{}, err
		}
		doc, err := LoadFromSource(best)
		return doc, best, err
	}

	typ, err := TypeForPath(path)
	if err != nil {
		return nil, Source{}, err
	}
	src := Source{
		Type:     typ,
		Path:     path,
		Priority: priorityFor(typ),
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}
	doc, err := LoadFromSource(src)
	if err != nil {
		return nil, Source{}, err
	}
	src.Valid = true
	src.NodeCount = doc.CountNodes()
	return doc, src, nil
}

// LoadFromSource loads and validates the document behind src.
func LoadFromSource(src Source) (*model.Document, error) {
	var (
		doc *model.Document
		err error
	)
	switch src.Type {
	case SourceTypeYAML:
		doc, err = loadYAML(src.Path)
	case SourceTypeJSON:
		doc, err = loadJSON(src.Path)
	case SourceTypeSQLite:
		doc, err = loadSQLite(src.Path)
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}
	return doc, nil
}

func loadYAML(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc model.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

func loadJSON(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
