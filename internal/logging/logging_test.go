package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = New(Options{Debug: true})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	log, err := New(Options{File: path})
	require.NoError(t, err)

	log.Infow("end_of_request", "request_id", "req_1")
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"end_of_request"`)
	assert.Contains(t, string(raw), `"request_id":"req_1"`)
}

func TestRotatingFileDefaults(t *testing.T) {
	w := RotatingFile(Options{File: "x.log"})
	assert.Equal(t, DefaultMaxSizeMB, w.MaxSize)
	assert.Zero(t, w.MaxBackups)
	assert.Zero(t, w.MaxAge)
	assert.True(t, w.Compress)
}

func TestRotatingFileRetention(t *testing.T) {
	w := RotatingFile(Options{File: "x.log", MaxSizeMB: 5, MaxBackups: 3, MaxAgeDays: 7})
	assert.Equal(t, "x.log", w.Filename)
	assert.Equal(t, 5, w.MaxSize)
	assert.Equal(t, 3, w.MaxBackups)
	assert.Equal(t, 7, w.MaxAge)
}
