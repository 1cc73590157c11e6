package workflow

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "medreport-probe/pkg/errors"
)

func TestLoadReportText(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(txt, []byte("\n  Hemoglobin: 14.2 g/dL\n"), 0644))

	text, err := LoadReportText(txt)
	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin: 14.2 g/dL", text)

	empty := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(empty, []byte(" \n"), 0644))
	_, err = LoadReportText(empty)
	assert.ErrorIs(t, err, perrors.ErrInvalidArg)

	_, err = LoadReportText(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "broken.PDF")
	require.NoError(t, os.WriteFile(bad, []byte("not a pdf"), 0644))
	_, err = LoadReportText(bad)
	assert.Error(t, err)
}

func TestDemo_AnalyzeFile(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.on(http.MethodPost, AnalyzePath, func(map[string]interface{}) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{"flowId": "flow-f", "status": "planning"}
	})
	path := filepath.Join(t.TempDir(), "labs.md")
	require.NoError(t, os.WriteFile(path, []byte("Glucose: 140 mg/dL"), 0644))

	d, buf := newTestDemo(srv.URL)
	ok, err := d.AnalyzeFile(context.Background(), path, LevelDetailed)
	require.NoError(t, err)
	assert.True(t, ok)

	calls := fs.calls(http.MethodPost, AnalyzePath)
	require.Len(t, calls, 1)
	assert.Equal(t, "Glucose: 140 mg/dL", calls[0].Body["reportText"])
	assert.Contains(t, buf.String(), "Analyzing labs.md (detailed explanations)")
}
