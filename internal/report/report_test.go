package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapcheck/snapcheck/internal/store"
)

func passedRun() *store.Run {
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return &store.Run{
		ID:         "3f1c6d2e-run",
		Scenario:   "uap_tracker",
		TargetURL:  "http://localhost:5173/uap",
		Status:     store.StatusPassed,
		StartedAt:  started,
		FinishedAt: started.Add(4200 * time.Millisecond),
	}
}

func TestWritePassedRun(t *testing.T) {
	t.Parallel()

	run := passedRun()
	captures := []store.Capture{
		{Label: "initial", Path: "verification/uap_tracker_initial.png", Size: 10240, TakenAt: run.StartedAt},
		{Label: "ar_enabled", Path: "verification/uap_tracker_ar_enabled.png", Size: 11264, TakenAt: run.FinishedAt},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(run, captures))

	out := buf.String()
	assert.Contains(t, out, "# Verification Report")
	assert.Contains(t, out, "✅ Passed")
	assert.Contains(t, out, "`uap_tracker`")
	assert.Contains(t, out, "http://localhost:5173/uap")
	assert.Contains(t, out, "`uap_tracker_initial.png`")
	assert.Contains(t, out, "![ar_enabled](uap_tracker_ar_enabled.png)")
	assert.NotContains(t, out, "## Failure")
}

func TestWriteFailedRun(t *testing.T) {
	t.Parallel()

	run := passedRun()
	run.Status = store.StatusFailed
	run.Error = "step 2 (click_button): clicking button \"Enable AR\": context deadline exceeded"

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(run, nil))

	out := buf.String()
	assert.Contains(t, out, "❌ Failed")
	assert.Contains(t, out, "## Failure")
	assert.Contains(t, out, "context deadline exceeded")
	assert.Contains(t, out, "No screenshots were captured.")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "verification")
	run := passedRun()

	path, err := WriteFile(dir, run, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "uap_tracker_report.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
