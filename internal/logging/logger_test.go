package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf)

	logger.Info("job started", map[string]interface{}{"job_id": "job_1"})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "job started", entry["message"])
	assert.Equal(t, "job_1", entry["job_id"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WarnLevel, &buf)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("visible")
	assert.NotZero(t, buf.Len())
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf).WithFields(map[string]interface{}{
		"service": "horde",
	}).WithField("algorithm", "ba")

	logger.Info("run finished")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "horde", entry["service"])
	assert.Equal(t, "ba", entry["algorithm"])
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf).WithError(assert.AnError)

	logger.Error("run failed")

	entry := lastEntry(t, &buf)
	assert.Equal(t, assert.AnError.Error(), entry["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, InfoLevel, ParseLevel("anything"))
}
