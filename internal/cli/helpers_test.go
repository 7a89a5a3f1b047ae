package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crosstemp/internal/testutil"
)

const (
	testScenario = "testdata/scenario.yaml"
	testOptions  = "testdata/options.cue"
)

func newTestRootOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		IDs:    testutil.NewFixedRunID(""),
		Clock:  testutil.NewStepClock(1500 * time.Millisecond),
	}
}

// execute runs cmd with args and returns stdout. Diagnostics on stderr
// are discarded.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seededDatabase returns a database holding the test scenario recording.
func seededDatabase(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "rec.db")
	_, err := execute(NewSimulateCommand(newTestRootOptions("text")), "--db", db, testScenario)
	require.NoError(t, err)
	return db
}

// decodeData unmarshals the data payload of an ok JSON response into v.
func decodeData(t *testing.T, output string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Equal(t, "ok", resp.Status, output)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// decodeError unmarshals an error JSON response.
func decodeError(t *testing.T, output string) *CLIError {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Equal(t, "error", resp.Status, output)
	require.NotNil(t, resp.Error)
	return resp.Error
}
