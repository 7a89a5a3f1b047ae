package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Basic(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, 4, s.Neurons)
	assert.Equal(t, 6, s.Bins)
	assert.Equal(t, 5.0, s.Duration)
	assert.Equal(t, []Task{{Name: "DPA"}, {Name: "DualGo", Distractor: true}}, s.Tasks)
	require.Len(t, s.Signals, 1)
	assert.Equal(t, Signal{Label: "sample", Start: 1, End: 3, Amplitude: 2, Fraction: 0.5}, s.Signals[0])
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)

	_, err = ParseScenario(append(data, []byte("trial_per_condition: 4\n")...))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	valid := func() string {
		return `name: v
neurons: 2
bins: 3
duration: 1
days: 1
tasks: [{name: DPA}]
trials_per_condition: 1
noise: 1
`
	}

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing name", "name: \"\"\nneurons: 1\n", "name is required"},
		{"zero neurons", "name: x\nneurons: 0\n", "neurons must be positive"},
		{"no tasks", "name: x\nneurons: 1\nbins: 1\nduration: 1\ndays: 1\ntrials_per_condition: 1\n", "tasks list is required"},
		{"valid", valid(), ""},
		{"negative noise", "name: x\nneurons: 1\nbins: 1\nduration: 1\ndays: 1\ntrials_per_condition: 1\nnoise: -1\n", "noise must not be negative"},
		{"bad error rate", valid() + "error_rate: 1.5\n", "error_rate must be in [0, 1]"},
		{"bad label", valid() + "signals: [{label: reward, start: 0, end: 1, amplitude: 1, fraction: 1}]\n", "unknown label"},
		{"empty window", valid() + "signals: [{label: sample, start: 1, end: 1, amplitude: 1, fraction: 1}]\n", "must be after start"},
		{"zero fraction", valid() + "signals: [{label: sample, start: 0, end: 1, amplitude: 1, fraction: 0}]\n", "fraction must be in (0, 1]"},
		{"unknown signal task", valid() + "signals: [{label: sample, start: 0, end: 1, amplitude: 1, fraction: 1, tasks: [DualGo]}]\n", "unknown task"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := ParseScenario([]byte(`name: v
neurons: 2
bins: 3
duration: 1
days: 1
tasks: [{name: DPA}, {name: DPA}]
trials_per_condition: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate task")
}
