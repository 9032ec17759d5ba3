package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "practicum.log")
	log, closeFn, err := New(path, "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("export saved", zap.String("filename", "practicas_ana.xlsx"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, `"msg":"export saved"`)
	require.Contains(t, out, `"filename":"practicas_ana.xlsx"`)
	require.False(t, strings.Contains(out, "hidden"), "debug line written at info level")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	require.Error(t, err)
}

func TestNewEmptyPathIsNop(t *testing.T) {
	log, closeFn, err := New("", "info")
	require.NoError(t, err)
	log.Info("nothing")
	require.NoError(t, closeFn())
}
