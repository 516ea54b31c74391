package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// History stores the sequence of result documents saved at one location.
type History interface {
	Append(doc Document) error
	LoadLatest() (*Document, error)
	LoadAll() ([]Document, error)
}

// FileHistory implements History as a single JSON file.
type FileHistory struct {
	path string
}

// NewFileHistory opens (or prepares) the history file at path.
func NewFileHistory(path string) (*FileHistory, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history directory %s: %w", dir, err)
	}
	return &FileHistory{path: path}, nil
}

// Append adds doc to the history.
func (h *FileHistory) Append(doc Document) error {
	docs, err := h.LoadAll()
	if err != nil {
		return err
	}

	docs = append(docs, doc)

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return os.WriteFile(h.path, data, 0644)
}

// LoadAll returns every stored document, oldest first.
func (h *FileHistory) LoadAll() ([]Document, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Document{}, nil
		}
		return nil, err
	}

	var docs []Document
	if len(data) == 0 {
		return []Document{}, nil
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].SavedAt.Before(docs[j].SavedAt)
	})
	return docs, nil
}

// LoadLatest returns the most recent document, or nil when the history is
// empty.
func (h *FileHistory) LoadLatest() (*Document, error) {
	docs, err := h.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[len(docs)-1], nil
}
