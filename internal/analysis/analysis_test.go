package analysis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crosstemp/internal/dataset"
	"github.com/roach88/crosstemp/internal/options"
	"github.com/roach88/crosstemp/internal/store"
	"github.com/roach88/crosstemp/internal/synth"
	"github.com/roach88/crosstemp/internal/testutil"
)

// testRecording has 20 DPA trials, 6 neurons and 8 bins at 0..7 s, with the
// sample encoded between 3 and 5 s.
func testRecording(t *testing.T) *dataset.Recording {
	t.Helper()
	rec, err := synth.Generate(&synth.Scenario{
		Name:               "analysis",
		Seed:               11,
		Neurons:            6,
		Bins:               8,
		Duration:           7,
		Days:               1,
		Tasks:              []synth.Task{{Name: "DPA"}},
		TrialsPerCondition: 10,
		Noise:              0.5,
		Signals: []synth.Signal{
			{Label: "sample", Start: 3, End: 5, Amplitude: 2, Fraction: 0.5},
		},
	})
	require.NoError(t, err)
	return rec
}

func testOptions(t *testing.T) *options.Options {
	t.Helper()
	opts, err := options.Default()
	require.NoError(t, err)
	opts.Features = "sample"
	opts.Day = "first"
	opts.Task = "DPA"
	opts.NJobs = 2
	opts.NBoots = 0
	opts.NShuffles = 0
	return opts
}

func newTestAnalyzer() *Analyzer {
	return &Analyzer{Clock: testutil.NewStepClock(1500 * time.Millisecond)}
}

func TestCrossTemporal(t *testing.T) {
	res, err := newTestAnalyzer().CrossTemporal(context.Background(), testRecording(t), testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, KindCrossTemporal, res.Kind)
	assert.Equal(t, []int{20, 6, 8}, res.Shape)
	assert.Len(t, res.Times, 8)
	assert.Equal(t, 1500*time.Millisecond, res.Elapsed)
	assert.Len(t, res.Hash, 64)

	r, c := res.Scores.Dims()
	require.Equal(t, 8, r)
	require.Equal(t, 8, c)
	for _, tr := range []int{3, 4} {
		for _, te := range []int{3, 4} {
			assert.GreaterOrEqual(t, res.Scores.At(tr, te), 0.9, "train=%d test=%d", tr, te)
		}
	}
	assert.Nil(t, res.CI)
	assert.Equal(t, "samplecross_temp_scores_DPA_first", res.FigureName())
}

func TestTimeResolved_MatchesDiagonal(t *testing.T) {
	rec := testRecording(t)
	opts := testOptions(t)

	cross, err := newTestAnalyzer().CrossTemporal(context.Background(), rec, opts)
	require.NoError(t, err)
	timed, err := newTestAnalyzer().TimeResolved(context.Background(), rec, opts)
	require.NoError(t, err)

	assert.InDeltaSlice(t, cross.Diagonal(), timed.Diagonal(), 1e-12)
	assert.NotEqual(t, cross.Hash, timed.Hash, "kind is part of the hash")
	assert.Equal(t, "sampletime_scores_DPA_first", timed.FigureName())
}

func TestTimeResolved_BootstrapAndShuffles(t *testing.T) {
	opts := testOptions(t)
	opts.NBoots = 3
	opts.NShuffles = 2

	res, err := newTestAnalyzer().TimeResolved(context.Background(), testRecording(t), opts)
	require.NoError(t, err)

	r, c := res.Boots.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 8, c)
	r, c = res.CI.Dims()
	assert.Equal(t, 8, r)
	assert.Equal(t, 2, c)
	r, _ = res.Shuffles.Dims()
	assert.Equal(t, 2, r)
	require.NotNil(t, res.NullCI)

	for i := 0; i < 8; i++ {
		assert.GreaterOrEqual(t, res.CI.At(i, 0), 0.0)
		assert.GreaterOrEqual(t, res.CI.At(i, 1), 0.0)
	}

	again, err := newTestAnalyzer().TimeResolved(context.Background(), testRecording(t), opts)
	require.NoError(t, err)
	assert.Equal(t, res.Boots.RawMatrix().Data, again.Boots.RawMatrix().Data, "random_state fixes the resamples")
}

func TestTimeResolved_SingleBootHasNoCI(t *testing.T) {
	opts := testOptions(t)
	opts.NBoots = 1

	res, err := newTestAnalyzer().TimeResolved(context.Background(), testRecording(t), opts)
	require.NoError(t, err)
	assert.NotNil(t, res.Boots)
	assert.Nil(t, res.CI)
}

func TestPrepare_DoesNotModifyRecording(t *testing.T) {
	rec := testRecording(t)
	before := append([]float64(nil), rec.Trials[0].X[0]...)

	prep, err := Prepare(rec, testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, before, rec.Trials[0].X[0])
	assert.NotEqual(t, before, prep.Selection.X[0][0])
}

func TestPrepare_AvgEpochs(t *testing.T) {
	opts := testOptions(t)
	opts.AvgEpochs = true
	opts.Epochs = []options.Epoch{
		{Name: "A", Start: 0, End: 2},
		{Name: "B", Start: 3, End: 5},
		{Name: "C", Start: 5, End: 7},
	}

	prep, err := Prepare(testRecording(t), opts)
	require.NoError(t, err)

	trials, neurons, bins := prep.Selection.Shape()
	assert.Equal(t, 20, trials)
	assert.Equal(t, 6, neurons)
	assert.Equal(t, 3, bins)
	assert.Equal(t, []float64{1, 4, 6}, prep.Times)
}

func TestCrossTemporal_Errors(t *testing.T) {
	rec := testRecording(t)

	opts := testOptions(t)
	opts.Task = "DualGo"
	_, err := newTestAnalyzer().CrossTemporal(context.Background(), rec, opts)
	assert.ErrorIs(t, err, dataset.ErrSingleClass)

	opts = testOptions(t)
	opts.NOut = 11
	_, err = newTestAnalyzer().CrossTemporal(context.Background(), rec, opts)
	assert.Error(t, err, "10 trials per class cannot fill 11 folds")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newTestAnalyzer().CrossTemporal(ctx, rec, testOptions(t))
	assert.ErrorIs(t, err, context.Canceled)
}

// countingClock records how often the analyzer reads the time.
type countingClock struct{ reads int }

func (c *countingClock) Now() time.Time {
	c.reads++
	return testutil.Epoch.Add(time.Duration(c.reads) * time.Second)
}

func TestAnalyzer_TimesDecodingOnly(t *testing.T) {
	rec := testRecording(t)
	opts := testOptions(t)
	opts.Task = "DualGo"

	clock := &countingClock{}
	an := &Analyzer{Clock: clock}
	_, err := an.CrossTemporal(context.Background(), rec, opts)
	require.ErrorIs(t, err, dataset.ErrSingleClass)
	_, err = an.TimeResolved(context.Background(), rec, opts)
	require.ErrorIs(t, err, dataset.ErrSingleClass)
	assert.Zero(t, clock.reads, "selection failures happen before timing starts")

	_, err = an.CrossTemporal(context.Background(), rec, testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, 2, clock.reads)
}

func TestResult_Run(t *testing.T) {
	opts := testOptions(t)
	opts.NBoots = 2

	res, err := newTestAnalyzer().TimeResolved(context.Background(), testRecording(t), opts)
	require.NoError(t, err)

	run := res.Run("run-1", "figs/x.svg")
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, store.KindTimeResolved, run.Kind)
	assert.Equal(t, res.Hash, run.Hash)
	assert.Equal(t, "figs/x.svg", run.Figure)
	assert.Equal(t, []int{20, 6, 8}, run.Shape)
	assert.NotContains(t, run.Options, "n_jobs")
	assert.Contains(t, run.Matrices, store.MatrixScores)
	assert.Contains(t, run.Matrices, store.MatrixBoots)
	assert.Contains(t, run.Matrices, store.MatrixCI)
	assert.NotContains(t, run.Matrices, store.MatrixShuffles)
}

func TestResult_FigureAvgEpochs(t *testing.T) {
	opts := testOptions(t)
	opts.AvgEpochs = true
	opts.Epochs = []options.Epoch{
		{Name: "A", Start: 0, End: 2},
		{Name: "B", Start: 3, End: 5},
		{Name: "C", Start: 5, End: 7},
	}

	res, err := newTestAnalyzer().CrossTemporal(context.Background(), testRecording(t), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 6}, res.Times)

	f, err := res.Figure()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf, "svg"))
	assert.Contains(t, buf.String(), "<svg")
}

func TestResult_Figure(t *testing.T) {
	rec := testRecording(t)
	opts := testOptions(t)

	cross, err := newTestAnalyzer().CrossTemporal(context.Background(), rec, opts)
	require.NoError(t, err)
	f, err := cross.Figure()
	require.NoError(t, err)
	assert.Equal(t, "first DPA", f.Plot.Title.Text)

	timed, err := newTestAnalyzer().TimeResolved(context.Background(), rec, opts)
	require.NoError(t, err)
	_, err = timed.Figure()
	require.NoError(t, err)
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00:00"},
		{1500 * time.Millisecond, "0:00:01.500000"},
		{3723 * time.Second, "1:02:03"},
		{62*time.Second + 250*time.Microsecond, "0:01:02.000250"},
		{25 * time.Hour, "1 day, 1:00:00"},
		{50 * time.Hour, "2 days, 2:00:00"},
		{-time.Second, "0:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.d), "%v", tt.d)
	}
	assert.Equal(t, "--- 0:00:01.500000 ---", TimingLine(1500*time.Millisecond))
}

func TestShapeLine(t *testing.T) {
	assert.Equal(t, "X (20, 6, 84) y (20,)", ShapeLine([]int{20, 6, 84}))
}
