package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Usage(t *testing.T) {
	var out, errs bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &out, &errs))
	assert.Equal(t, 2, run(context.Background(), []string{"fly"}, &out, &errs))
	assert.Contains(t, errs.String(), "unknown command")
}

func TestRun_BuildEvalExportDiff(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GWSUR_STORE_PATH", filepath.Join(dir, "store"))
	t.Setenv("GWSUR_LEDGER_PATH", filepath.Join(dir, "ledger.db"))
	t.Setenv("GWSUR_LOG_LEVEL", "error")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	exec := func(args ...string) (string, int) {
		var out, errs bytes.Buffer
		code := run(context.Background(), args, &out, &errs)
		return out.String(), code
	}

	out, code := exec("build", "-name", "cli", "-n", "21")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "run_id")
	assert.Contains(t, out, "basis_size")

	out, code = exec("list")
	require.Equal(t, 0, code)
	assert.Equal(t, "cli\n", out)

	out, code = exec("eval", "-name", "cli", "-q", "1.5")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "t,hp,hc", lines[0])
	assert.Greater(t, len(lines), 100)

	_, code = exec("eval", "-name", "cli", "-q", "3")
	assert.Equal(t, 1, code, "out of range")

	for _, args := range [][]string{
		{"-mass", "Inf", "-dist", "1"},
		{"-mass", "60", "-dist", "+Inf"},
		{"-phase", "-phi", "NaN"},
		{"-flow", "NaN"},
	} {
		out, code = exec(append([]string{"eval", "-name", "cli", "-q", "1.5"}, args...)...)
		assert.Equal(t, 1, code, "%v", args)
		assert.Empty(t, out, "%v", args)
	}

	out, code = exec("build", "-name", "amp", "-n", "21", "-kind", "amp_phase_basis", "-partial")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "amplitude.residuals")
	out, code = exec("eval", "-name", "amp", "-q", "1.5")
	require.Equal(t, 0, code)
	assert.Greater(t, len(strings.Split(strings.TrimSpace(out), "\n")), 100)
	_, code = exec("build", "-name", "bad", "-n", "21", "-kind", "spline")
	assert.Equal(t, 1, code)

	file := filepath.Join(dir, "cli.json")
	_, code = exec("export", "-name", "cli", "-out", file)
	require.Equal(t, 0, code)
	_, code = exec("import", "-name", "copy", "-in", file)
	require.Equal(t, 0, code)

	out, code = exec("diff", "-a", "cli", "-b", "copy")
	assert.Equal(t, 0, code)
	assert.Equal(t, "identical\n", out)

	out, code = exec("timer", "-name", "cli", "-n", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "evaluations = 5")

	out, code = exec("history", "-name", "cli")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "cli")
	assert.Contains(t, out, "RUN")
}
