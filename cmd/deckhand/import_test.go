package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCardsSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.json")
	body := `[
		{"title": "Sure Gamble", "code": "01050", "cost": 5},
		{"title": "Wyldside", "code": "01016"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	recs, err := readCards(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Sure Gamble", recs[0].Title)
	assert.Equal(t, "Wyldside", recs[1].Title)

	// The stored payload is the whole card object.
	var card map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(recs[0].Payload), &card))
	assert.Equal(t, "01050", card["code"])
}

func TestReadCardsDirectoryInNameOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_pack.json"),
		[]byte(`[{"title": "Second"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_pack.json"),
		[]byte(`[{"title": "First"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("ignored"), 0o644))

	recs, err := readCards(dir)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "First", recs[0].Title)
	assert.Equal(t, "Second", recs[1].Title)
}

func TestReadCardsRejectsMissingTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"code": "01016"}]`), 0o644))

	_, err := readCards(path)
	assert.ErrorContains(t, err, "has no title")
}

func TestReadCardsRejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "x"}`), 0o644))

	_, err := readCards(path)
	assert.ErrorContains(t, err, "array of card objects")
}
