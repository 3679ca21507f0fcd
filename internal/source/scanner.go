package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExportedFile is a report table found in an output directory.
type ExportedFile struct {
	Name    string // file name, e.g. "campaigns.csv"
	Path    string
	Size    int64
	ModTime time.Time
	Known   bool // one of the report files written by this tool
}

// ScanDir lists the CSV tables in an output directory, known report files
// first. A missing directory yields no files and no error.
func ScanDir(dir string) ([]ExportedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	known := make(map[string]bool, len(ReportFiles))
	for _, f := range ReportFiles {
		known[f] = true
	}

	var files []ExportedFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, ExportedFile{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Known:   known[e.Name()],
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Known != files[j].Known {
			return files[i].Known
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// LatestModTime returns the newest modification time among files.
func LatestModTime(files []ExportedFile) time.Time {
	var latest time.Time
	for _, f := range files {
		if f.ModTime.After(latest) {
			latest = f.ModTime
		}
	}
	return latest
}
