package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load picks a loader by file extension (.csv or .json).
func Load(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".json":
		return LoadJSON(path)
	default:
		return Table{}, fmt.Errorf("unsupported input format %q: expected .csv or .json", filepath.Ext(path))
	}
}
