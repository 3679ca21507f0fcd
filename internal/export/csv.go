package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/adburn/internal/pipeline"
)

// WriteCSV writes t to dir/t.Name and returns the path. An empty table
// returns pipeline.ErrEmptyDataset and writes nothing. The file is replaced
// atomically so a rerun never leaves a partial table.
func WriteCSV(dir string, t Table) (string, error) {
	if t.Empty() {
		return "", fmt.Errorf("%s: %w", t.Name, pipeline.ErrEmptyDataset)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // output dir is user-facing
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, t.Name)
	tmp, err := os.CreateTemp(dir, "."+t.Name+".*")
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", t.Name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Header); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing %s: %w", t.Name, err)
	}
	if err := w.WriteAll(t.Records()); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing %s: %w", t.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", t.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil { //nolint:gosec // both paths are inside dir
		return "", fmt.Errorf("replacing %s: %w", t.Name, err)
	}
	return path, nil
}
