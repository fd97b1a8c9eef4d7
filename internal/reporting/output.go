package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/statistics"
)

// Format is a report rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJUnit    Format = "junit"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatText, FormatMarkdown, FormatHTML, FormatJUnit}

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "junit", "xml":
		return FormatJUnit, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be json, text, markdown, html, or junit", s)
	}
}

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	case FormatJUnit:
		return ".xml"
	default:
		return "." + string(f)
	}
}

// RenderOptions carries the extras some formats can show.
type RenderOptions struct {
	// Name identifies the dataset in titles and JUnit suite names.
	Name string
	// Gap is the optional bootstrap estimate of the selection gap.
	Gap *statistics.GapEstimate
}

// MarshalJSON renders the report as indented JSON. Map keys are sorted, so
// the same report always yields the same bytes.
func MarshalJSON(r *models.FairnessReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return append(data, '\n'), nil
}

// Render produces the report in format f.
func Render(r *models.FairnessReport, f Format, opts RenderOptions) ([]byte, error) {
	name := opts.Name
	if name == "" {
		name = "fairness"
	}
	switch f {
	case FormatJSON:
		return MarshalJSON(r)
	case FormatText:
		return []byte(RenderText(r, opts.Gap)), nil
	case FormatMarkdown:
		return []byte(RenderMarkdown(r, opts.Gap)), nil
	case FormatHTML:
		return RenderHTML(r, opts.Gap, "Fairness Report: "+name)
	case FormatJUnit:
		return MarshalJUnit(r, name)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// WriteFile writes data to path, compressing it when the path ends in .gz
// or .zst.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	w, err := compressWriter(path, f)
	if err != nil {
		_ = f.Close()
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile reads path, decompressing .gz and .zst files.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	r, err := decompressReader(path, f)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// ReadReport loads a JSON report written by MarshalJSON.
func ReadReport(path string) (*models.FairnessReport, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r models.FairnessReport
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressWriter(path string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return gzip.NewWriter(w), nil
	case ".zst":
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return enc, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

func decompressReader(path string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening gzip %s: %w", path, err)
		}
		return gz, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening zstd %s: %w", path, err)
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}
