// Package results persists benchmark results as JSON documents and keeps a
// per-location history so consecutive benchmark executions can be compared.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"sysloadbench/stats"
	"sysloadbench/sysinfo"
)

// FileName is the document written into every results directory.
const FileName = "results.json"

// Document is the persisted form of one benchmark execution: host metadata
// plus the statistics of every run. The schema round-trips every StatSummary
// field and the raw per-round durations.
type Document struct {
	SavedAt    time.Time                 `json:"saved_at"`
	Benchmark  string                    `json:"benchmark"`
	System     sysinfo.Info              `json:"system_information"`
	RunResults map[string]stats.RunStats `json:"run_results"`
}

// RunNames returns the document's run names, sorted.
func (d Document) RunNames() []string {
	names := make([]string, 0, len(d.RunResults))
	for name := range d.RunResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes doc as results.json inside dir, creating the directory and
// overwriting any previous document.
func Save(doc Document, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create results directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0644)
}

// Load reads a results document. path may be the file itself or a directory
// containing results.json.
func Load(path string) (Document, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read results: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal results %s: %w", path, err)
	}
	return doc, nil
}
