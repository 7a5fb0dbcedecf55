package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SortsOperations(t *testing.T) {
	c := New("1.0.0",
		[]Operation{
			{ID: "SHEET_CLEAR", Backend: "sheets", Kind: KindExecution},
			{ID: "COLUMNS_SELECTOR", Backend: "sheets", Kind: KindTrigger},
		},
		[]Operation{{ID: "COLLECTION_FIND", Backend: "mongo", Kind: KindExecution}},
	)

	ids := make([]string, 0, len(c.Operations))
	for _, op := range c.Operations {
		ids = append(ids, op.ID)
	}
	assert.Equal(t, []string{"COLLECTION_FIND", "SHEET_CLEAR", "COLUMNS_SELECTOR"}, ids)
	assert.NotEmpty(t, c.LastUpdated)
}

func TestCatalog_WriteAndLoadRoundTrip(t *testing.T) {
	c := New("2.1.0", []Operation{{ID: "ROW_FETCH_MANY", Backend: "sheets", Kind: KindExecution, Description: "Fetch rows"}})

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, c.Version, loaded.Version)

	op, ok := loaded.Find("sheets", "ROW_FETCH_MANY")
	require.True(t, ok)
	assert.Equal(t, "Fetch rows", op.Description)

	_, ok = loaded.Find("mongo", "ROW_FETCH_MANY")
	assert.False(t, ok)
	assert.Len(t, loaded.ByBackend("sheets"), 1)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCatalog_Missing(t *testing.T) {
	current := New("2.0.0", []Operation{
		{ID: "ROW_FETCH_MANY", Backend: "sheets", Kind: KindExecution},
		{ID: "SHEET_CLEAR", Backend: "sheets", Kind: KindExecution},
	})
	stored := New("1.0.0", []Operation{
		{ID: "ROW_FETCH_MANY", Backend: "sheets", Kind: KindExecution},
		{ID: "COLLECTION_FIND", Backend: "mongo", Kind: KindExecution},
	})

	added := current.Missing(stored)
	require.Len(t, added, 1)
	assert.Equal(t, "SHEET_CLEAR", added[0].ID)

	removed := stored.Missing(current)
	require.Len(t, removed, 1)
	assert.Equal(t, "COLLECTION_FIND", removed[0].ID)

	assert.Empty(t, current.Missing(current))
}
