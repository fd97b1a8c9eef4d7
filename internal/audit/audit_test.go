package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/dataset"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/reporting"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/scoring"
)

// decisionTable builds a table where each group has n rows, the first
// selected of which are favorable.
func decisionTable(groups map[string][2]int) dataset.Table {
	tbl := dataset.Table{Columns: []string{"group_label", "decision"}}
	for g, c := range groups {
		for i := 0; i < c[0]; i++ {
			d := "0"
			if i < c[1] {
				d = "1"
			}
			tbl.Rows = append(tbl.Rows, dataset.Row{"group_label": g, "decision": d})
		}
	}
	return tbl
}

func mockSource(ctrl *gomock.Controller, name string, tbl dataset.Table, err error) *MockSource {
	src := NewMockSource(ctrl)
	src.EXPECT().Name().Return(name).AnyTimes()
	src.EXPECT().Load(gomock.Any()).Return(tbl, err).AnyTimes()
	return src
}

var (
	biased = decisionTable(map[string][2]int{"a": {10, 8}, "b": {10, 2}})
	fair   = decisionTable(map[string][2]int{"a": {10, 5}, "b": {10, 5}})
)

func TestRunner_OutcomesFollowJobOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockSink(ctrl)
	sink.EXPECT().Write(gomock.Any(), gomock.Any()).Times(2).Return(nil)

	r := &Runner{Concurrency: 4, Sink: sink}
	outcomes, err := r.Run(context.Background(), []Job{
		{Source: mockSource(ctrl, "biased.csv", biased, nil)},
		{Source: mockSource(ctrl, "fair.csv", fair, nil)},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "biased.csv", outcomes[0].Name)
	assert.True(t, outcomes[0].Report.Summary.BiasDetected)
	assert.Equal(t, "fair.csv", outcomes[1].Name)
	assert.False(t, outcomes[1].Report.Summary.BiasDetected)

	for _, o := range outcomes {
		require.NoError(t, o.Err)
		_, err := uuid.Parse(o.JobID)
		assert.NoError(t, err, "job id %q", o.JobID)
		assert.Nil(t, o.Gap)
	}
	assert.NotEqual(t, outcomes[0].JobID, outcomes[1].JobID)
}

func TestRunner_KeepsGivenJobID(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := &Runner{}
	outcomes, err := r.Run(context.Background(), []Job{
		{ID: "q3-review", Source: mockSource(ctrl, "fair.csv", fair, nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, "q3-review", outcomes[0].JobID)
}

func TestRunner_JobFailureDoesNotStopOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockSink(ctrl)
	sink.EXPECT().Write(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(func(_ context.Context, out *Outcome) error {
		assert.Equal(t, "fair.csv", out.Name)
		return nil
	})

	loadErr := errors.New("disk on fire")
	single := decisionTable(map[string][2]int{"a": {4, 2}})

	r := &Runner{Concurrency: 2, Sink: sink}
	outcomes, err := r.Run(context.Background(), []Job{
		{Source: mockSource(ctrl, "broken.csv", dataset.Table{}, loadErr)},
		{Source: mockSource(ctrl, "fair.csv", fair, nil)},
		{Source: mockSource(ctrl, "single.csv", single, nil)},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, outcomes[0].Err, loadErr)
	assert.Nil(t, outcomes[0].Report)
	assert.NoError(t, outcomes[1].Err)

	var ig *models.InsufficientGroupsError
	assert.ErrorAs(t, outcomes[2].Err, &ig)

	joined := Failed(outcomes)
	require.Error(t, joined)
	assert.ErrorIs(t, joined, loadErr)
	assert.Contains(t, joined.Error(), "broken.csv")
	assert.Contains(t, joined.Error(), "single.csv")
	assert.NotContains(t, joined.Error(), "fair.csv")
}

func TestRunner_SinkErrorAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	sinkErr := errors.New("read-only filesystem")
	sink := NewMockSink(ctrl)
	sink.EXPECT().Write(gomock.Any(), gomock.Any()).Return(sinkErr).MinTimes(1)

	r := &Runner{Concurrency: 1, Sink: sink}
	_, err := r.Run(context.Background(), []Job{
		{Source: mockSource(ctrl, "first.csv", fair, nil)},
		{Source: mockSource(ctrl, "second.csv", fair, nil)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
	assert.Contains(t, err.Error(), "first.csv")
}

func TestRunner_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	_, err := r.Run(ctx, []Job{{Source: mockSource(ctrl, "fair.csv", fair, nil)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_PerJobThresholds(t *testing.T) {
	ctrl := gomock.NewController(t)
	// Selection rates 0.5 and 0.45: DI = 0.9.
	mild := decisionTable(map[string][2]int{"a": {20, 10}, "b": {20, 9}})

	strict, err := scoring.DefaultThresholds().WithRule(models.MetricDisparateImpact, scoring.Rule{
		Direction: scoring.Lower, Threshold: 0.95, Medium: 0.95, High: 0.7, Critical: 0.5, Worst: 0,
	})
	require.NoError(t, err)

	r := &Runner{Concurrency: 2}
	outcomes, err := r.Run(context.Background(), []Job{
		{Source: mockSource(ctrl, "default.csv", mild, nil)},
		{Source: mockSource(ctrl, "strict.csv", mild, nil), Options: reporting.Options{Thresholds: strict}},
	})
	require.NoError(t, err)

	assert.False(t, hasViolation(outcomes[0].Report, models.MetricDisparateImpact))
	assert.True(t, hasViolation(outcomes[1].Report, models.MetricDisparateImpact))
}

func TestRunner_Significance(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := &Runner{}
	outcomes, err := r.Run(context.Background(), []Job{{
		Source:       mockSource(ctrl, "biased.csv", biased, nil),
		Significance: &Significance{Confidence: 0.9, Seed: 1},
	}})
	require.NoError(t, err)
	require.NotNil(t, outcomes[0].Gap)
	assert.Equal(t, "a", outcomes[0].Gap.HighGroup)
	assert.Equal(t, "b", outcomes[0].Gap.LowGroup)
	assert.InDelta(t, 0.6, outcomes[0].Gap.Gap, 1e-9)
	assert.Equal(t, 0.9, outcomes[0].Gap.ConfidenceLevel)
}

func TestFileSourceAndSink(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")

	var sb strings.Builder
	sb.WriteString("group_label,decision\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("a," + strconv.Itoa(boolInt(i < 8)) + "\n")
		sb.WriteString("b," + strconv.Itoa(boolInt(i < 2)) + "\n")
	}
	csvPath := filepath.Join(in, "q3.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sb.String()), 0o644))

	sink := &FileSink{Dir: out, Format: reporting.FormatJSON, Suffix: ".gz"}
	r := &Runner{Sink: sink}
	outcomes, err := r.Run(context.Background(), []Job{{Source: FileSource{Path: csvPath}}})
	require.NoError(t, err)
	require.NoError(t, Failed(outcomes))

	want := filepath.Join(out, "q3.json.gz")
	assert.Equal(t, want, sink.PathFor("q3.csv"))
	assert.Equal(t, map[string]string{want: "q3.csv"}, sink.Paths())

	report, err := reporting.ReadReport(want)
	require.NoError(t, err)
	assert.Equal(t, outcomes[0].Report.Summary.FairnessScore, report.Summary.FairnessScore)
	assert.Equal(t, 20, report.Summary.TotalCount)
}

func TestFileSink_RejectsCollidingNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := &FileSink{Dir: t.TempDir(), Format: reporting.FormatText}

	r := &Runner{Sink: sink}
	_, err := r.Run(context.Background(), []Job{
		{Source: mockSource(ctrl, "q3.csv", fair, nil)},
		{Source: mockSource(ctrl, "q3.json", fair, nil)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q3.txt")
}

func TestFileSource_Errors(t *testing.T) {
	_, err := FileSource{Path: "decisions.parquet"}.Load(context.Background())
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FileSource{Path: "decisions.csv"}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func hasViolation(r *models.FairnessReport, metric string) bool {
	for _, v := range r.BiasAnalysis.Violations {
		if v.Metric == metric {
			return true
		}
	}
	return false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
