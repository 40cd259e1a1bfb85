package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jslint.dev/engine/internal/diagnostic"
)

func TestConnect(t *testing.T) {
	tests := []struct {
		name          string
		dsn           string
		debug         bool
		expectedError bool
	}{
		{name: "memory database", dsn: ":memory:"},
		{name: "memory database with debug logging", dsn: ":memory:", debug: true},
		{name: "file database under a new directory", dsn: t.TempDir() + "/nested/history.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Connect(tt.dsn, tt.debug)
			if tt.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			defer s.Close()
		})
	}
}

func TestRunLifecycle(t *testing.T) {
	s, err := Connect(":memory:", false)
	require.NoError(t, err)
	defer s.Close()

	runID, err := s.StartRun("cfg-hash-1")
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	result := &diagnostic.FileResult{
		File: "src/app.js",
		Kind: diagnostic.ResultOK,
		Violations: []diagnostic.Violation{
			{
				Rule:      "no-unreachable",
				Severity:  diagnostic.SeverityError,
				MessageID: "unreachable_code",
				Message:   "Unreachable code.",
				Range:     diagnostic.Violation{}.Range,
			},
		},
	}
	require.NoError(t, s.RecordFile(runID, "deadbeef", result))
	require.NoError(t, s.FinishRun(runID, 1, len(result.Violations)))

	summary, err := s.Run(runID)
	require.NoError(t, err)
	require.Len(t, summary.FileRuns, 1)
	assert.Equal(t, "src/app.js", summary.FileRuns[0].Path)
	require.Len(t, summary.FileRuns[0].Violations, 1)
	assert.Equal(t, "no-unreachable", summary.FileRuns[0].Violations[0].Rule)
	assert.Equal(t, 1, summary.FilesCount)

	history, err := s.RunHistory(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, runID, history[0].ID)
}

func TestConnectRejectsUnwritableDirectory(t *testing.T) {
	_, err := Connect("/proc/self/ought-not-be-writable/history.db", false)
	assert.Error(t, err)
}
