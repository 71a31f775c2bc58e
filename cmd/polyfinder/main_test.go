package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two linear base pairs at weight 64 have one accepted subset each.
const testConfigYAML = `
target_weight: 64
workers: 2
seed: 5
base_pairs:
  - base1: ["x1"]
    base2: ["x2"]
  - base1: [1]
    base2: [1]
schedule:
  worker:
    - {wait: 2, jumps: 1, repeat: 1}
  final:
    - {wait: 3, jumps: 1, repeat: 1}
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "polyfinder dev\n", out)
}

func TestRunJSONThenReduce(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfigYAML), 0o644))
	metricsPath := filepath.Join(dir, "metrics.prom")

	out, logs, err := execute(t, "run", "--config", cfgPath, "--output", "json", "--metrics-file", metricsPath)
	require.NoError(t, err, logs)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 64, rep.TargetWeight)
	assert.Equal(t, uint64(5), rep.Seed)
	assert.Equal(t, 2, rep.Hits)
	assert.Len(t, rep.Representatives, 2)
	assert.Contains(t, logs, `"run_id":"`+rep.RunID+`"`)
	assert.Contains(t, logs, "run complete")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "polyfinder_enumerate_weight_hits_total 2")

	resultPath := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(resultPath, []byte(out), 0o644))
	out, logs, err = execute(t, "reduce", "--input", resultPath)
	require.NoError(t, err, logs)
	assert.True(t, strings.HasPrefix(out, "Number of polynomial representatives: 2\n"), out)
	assert.Contains(t, out, "[")
}

func TestRunFlagOverrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "run.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfigYAML), 0o644))

	out, _, err := execute(t, "run", "-c", cfgPath, "-o", "json", "--seed", "11", "--workers", "1")
	require.NoError(t, err)
	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, uint64(11), rep.Seed)
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = execute(t, "--log-level", "loud", "version")
	assert.Error(t, err)

	_, _, err = execute(t, "reduce")
	assert.Error(t, err)
}

func TestReportPolysFallsBackToText(t *testing.T) {
	r := report{Representatives: []string{"x1*x2 + x3", "1"}}
	ps, err := r.polys()
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "x1*x2 + x3", newReport(ps).Representatives[0])
}
