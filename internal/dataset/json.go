package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// LoadJSON reads a JSON array of objects into a Table.
func LoadJSON(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("json: read %s: %w", path, err)
	}
	t, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("json: %s: %w", path, err)
	}
	return t, nil
}

// ReadJSON parses a JSON array of flat objects. The header is the sorted
// union of keys across all objects; a key missing from an object yields a
// blank cell. Numbers keep their literal text, booleans become "true"/"false"
// and null becomes blank.
func ReadJSON(r io.Reader) (Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return Table{}, fmt.Errorf("parse: %w", err)
	}

	seen := make(map[string]bool)
	var columns []string
	rows := make([]Row, 0, len(objects))
	for i, obj := range objects {
		row := make(Row, len(obj))
		for k, v := range obj {
			s, err := cellString(v)
			if err != nil {
				return Table{}, fmt.Errorf("row %d, key %q: %w", i+1, k, err)
			}
			row[k] = s
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
		rows = append(rows, row)
	}
	sort.Strings(columns)

	return Table{Columns: columns, Rows: rows}, nil
}

func cellString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return numberString(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// numberString renders integers as written and other numbers in their
// shortest form, so 1.00 and 1e0 both read as "1".
func numberString(n json.Number) string {
	if _, err := n.Int64(); err == nil {
		return n.String()
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == 0 {
		f = 0 // drop the sign of -0.0
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
