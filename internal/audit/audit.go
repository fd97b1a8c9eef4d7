// Package audit runs fairness analyses over several datasets concurrently
// and hands each finished report to a sink.
package audit

//go:generate go tool mockgen -source=audit.go -destination=mocks_test.go -package=audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/dataset"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/reporting"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/statistics"
)

// Source supplies one decision table.
type Source interface {
	// Name identifies the dataset in logs and output file names.
	Name() string
	Load(ctx context.Context) (dataset.Table, error)
}

// Sink receives each successful outcome as soon as its job finishes.
// Implementations must be safe for concurrent use.
type Sink interface {
	Write(ctx context.Context, out *Outcome) error
}

// Significance requests a bootstrap interval for the selection gap.
type Significance struct {
	Confidence float64
	Seed       int64
}

// Job is one dataset to analyse.
type Job struct {
	// ID is assigned by the runner when empty.
	ID           string
	Source       Source
	Options      reporting.Options
	Significance *Significance
}

// Outcome is the result of one job. Err is set when loading or analysing
// failed; Report is nil in that case.
type Outcome struct {
	JobID  string
	Name   string
	Report *models.FairnessReport
	Gap    *statistics.GapEstimate
	Err    error
}

// Runner executes jobs with bounded concurrency.
type Runner struct {
	// Concurrency caps parallel jobs; values below 1 mean one job at a time.
	Concurrency int
	// Sink is optional.
	Sink Sink
}

// Run analyses every job. Per-job failures are recorded on the outcome and do
// not stop the other jobs; a sink failure or cancelled context aborts the run.
// Outcomes follow the order of jobs.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Concurrency))

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := runJob(gctx, job)
			outcomes[i] = out
			if out.Err != nil {
				slog.Warn("analysis failed", "job", out.JobID, "dataset", out.Name, "error", out.Err)
				return nil
			}
			slog.Debug("analysis finished", "job", out.JobID, "dataset", out.Name,
				"score", out.Report.Summary.FairnessScore)
			if r.Sink == nil {
				return nil
			}
			if err := r.Sink.Write(gctx, out); err != nil {
				return fmt.Errorf("writing %s: %w", out.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func runJob(ctx context.Context, job Job) *Outcome {
	out := &Outcome{JobID: job.ID, Name: job.Source.Name()}

	tbl, err := job.Source.Load(ctx)
	if err != nil {
		out.Err = err
		return out
	}
	a, err := reporting.Analyze(tbl, job.Options)
	if err != nil {
		out.Err = err
		return out
	}
	out.Report = a.Report

	if job.Significance != nil {
		gap, err := statistics.SelectionGapCI(a.Partition, job.Significance.Confidence, job.Significance.Seed)
		if err != nil {
			out.Err = err
			out.Report = nil
			return out
		}
		out.Gap = &gap
	}
	return out
}

// Failed collects the outcomes that carry an error, joined into one error.
func Failed(outcomes []*Outcome) error {
	var errs []error
	for _, o := range outcomes {
		if o != nil && o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Name, o.Err))
		}
	}
	return errors.Join(errs...)
}

// FileSource loads a CSV or JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string {
	return filepath.Base(s.Path)
}

func (s FileSource) Load(ctx context.Context) (dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Table{}, err
	}
	return dataset.Load(s.Path)
}

// FileSink renders each outcome and writes it under Dir as
// <dataset stem><format extension><Suffix>. Suffix may be ".gz" or ".zst".
type FileSink struct {
	Dir    string
	Format reporting.Format
	Suffix string

	mu      sync.Mutex
	written map[string]string
}

// PathFor returns the file an outcome for the named dataset is written to.
func (s *FileSink) PathFor(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(s.Dir, stem+s.Format.Extension()+s.Suffix)
}

func (s *FileSink) Write(ctx context.Context, out *Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.PathFor(out.Name)

	s.mu.Lock()
	if s.written == nil {
		s.written = map[string]string{}
	}
	if prev, ok := s.written[path]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%s and %s both write %s", prev, out.Name, path)
	}
	s.written[path] = out.Name
	s.mu.Unlock()

	data, err := reporting.Render(out.Report, s.Format, reporting.RenderOptions{Name: out.Name, Gap: out.Gap})
	if err != nil {
		return err
	}
	if err := reporting.WriteFile(path, data); err != nil {
		return err
	}
	slog.Info("report written", "dataset", out.Name, "path", path)
	return nil
}

// Paths lists the files written so far, keyed by output path.
func (s *FileSink) Paths() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.written)
}
