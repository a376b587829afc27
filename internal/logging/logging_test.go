package logging

import (
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New("debug", "")

	assert.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), `failed to parse log level "chatty"`)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validador.log")

	log, err := New("info", path)
	assert.NoError(t, err)

	log.Infow("document processed", "source", "quote_auto.yaml")
	log.Sync()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "document processed")
	assert.Contains(t, string(data), "quote_auto.yaml")
}
