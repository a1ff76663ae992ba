package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "store:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "docs.db") + "\nlog:\n  level: error\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportThenReturns(t *testing.T) {
	cfg := writeConfig(t)
	doc := filepath.Join(t.TempDir(), "2024.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"year":"2024","prices":{"2024-01-01":100,"2024-01-31":150}}`), 0o644))

	_, err := execute(t, "--config", cfg, "import", "--collection", "btc_prices", "--id", "2024", "--file", doc)
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "returns", "--year", "2024")
	require.NoError(t, err)

	var got struct {
		Year   int `json:"year"`
		Months []struct {
			Label     string   `json:"label"`
			ReturnPct *float64 `json:"return_pct"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2024, got.Year)
	require.Len(t, got.Months, 12)
	require.NotNil(t, got.Months[0].ReturnPct)
	assert.InDelta(t, 50, *got.Months[0].ReturnPct, 1e-9)
	assert.Nil(t, got.Months[1].ReturnPct)
}

func TestImportRejectsBadInput(t *testing.T) {
	cfg := writeConfig(t)
	doc := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"year":`), 0o644))

	_, err := execute(t, "--config", cfg, "import", "--collection", "btc_prices", "--id", "2024", "--file", doc)
	assert.ErrorContains(t, err, "not valid JSON")

	_, err = execute(t, "--config", cfg, "import", "--collection", "nope", "--id", "x", "--file", doc)
	assert.ErrorContains(t, err, "unknown collection")
}

func TestCalendarRejectsBadMonth(t *testing.T) {
	_, err := execute(t, "--config", writeConfig(t), "calendar", "--year", "2024", "--month", "13")
	assert.ErrorContains(t, err, "out of range")
}

func TestHalvingCommand(t *testing.T) {
	out, err := execute(t, "--config", writeConfig(t), "halving")
	require.NoError(t, err)

	var rep struct {
		Historical []json.RawMessage `json:"historical"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Len(t, rep.Historical, 3)
}
