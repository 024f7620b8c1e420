package reports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("CET", 3600))

	path, err := WriteJSONTo(dir, map[string]int{"slot": 7}, "tx-5VERv8NM", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tx-5VERv8NM-20240309-130507.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 7, got["slot"])
}

func TestWriteJSONToSanitizesPrefix(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteJSONTo(dir, 1, "../x", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "___x-19700101-000000.json", filepath.Base(path))
}

func TestWriteJSONToDefaultPrefix(t *testing.T) {
	path, err := WriteJSONTo(t.TempDir(), 1, "", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "report-19700101-000000.json", filepath.Base(path))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "tx-5VERv8NM", Prefix("tx", "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"))
	assert.Equal(t, "block-42", Prefix("block", "42"))
	assert.Equal(t, "account", Prefix("account", ""))
}
