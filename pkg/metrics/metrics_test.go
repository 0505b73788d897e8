package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersIndependently(t *testing.T) {
	a := New()
	b := New()

	a.FilesReadTotal.Inc()

	assert.Equal(t, 1.0, counterValue(t, a, "textkit_files_read_total"))
	assert.Equal(t, 0.0, counterValue(t, b, "textkit_files_read_total"))
}

func counterValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.CommandsTotal.WithLabelValues("count", "ok").Inc()
	m.BytesAnalyzedTotal.Add(42)

	path := filepath.Join(t.TempDir(), "textkit.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `textkit_commands_total{command="count",status="ok"} 1`)
	assert.Contains(t, out, "textkit_bytes_analyzed_total 42")
}

func TestWriteTextfileBadDir(t *testing.T) {
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	assert.Error(t, err)
}
