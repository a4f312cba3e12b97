package catalog

import (
	"context"
	"fmt"
	"os"

	"travel_planner/internal/domain"
)

// FileSource serves a catalog from a JSON file holding an array of
// destination objects (or {"data": [...]}). The file is read once.
type FileSource struct {
	byID  map[int64]map[string]any
	order []map[string]any
}

// EntryIDFunc resolves the destination id of a raw entry. OpenFile indexes
// by it, so lookups agree with whatever the importer lists.
type EntryIDFunc func(map[string]any) (int64, bool)

func OpenFile(path string, idOf EntryIDFunc) (*FileSource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	list, err := decodeList(b)
	if err != nil {
		return nil, err
	}
	fs := &FileSource{byID: make(map[int64]map[string]any, len(list)), order: list}
	for _, e := range list {
		if id, ok := idOf(e); ok {
			fs.byID[id] = e
		}
	}
	return fs, nil
}

func (f *FileSource) ListDestinations(ctx context.Context) ([]map[string]any, error) {
	return f.order, ctx.Err()
}

func (f *FileSource) GetDestination(ctx context.Context, id int64) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

var (
	_ domain.CatalogSource = (*Client)(nil)
	_ domain.CatalogSource = (*FileSource)(nil)
)
