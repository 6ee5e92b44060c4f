package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/source"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleTable() *source.Table {
	return &source.Table{
		Source:  "/data/hiburan.xlsx",
		Sheet:   "2024",
		Columns: []string{"NAMA OP", "UPPPD", "JAN 2024"},
		Rows: [][]string{
			{"Karaoke Ceria", "UPPPD A", "1500000"},
			{"Bioskop Kota", "UPPPD B", ""},
		},
	}
}

func TestSaveAndLoadTable(t *testing.T) {
	c := openTestCache(t)
	tbl := sampleTable()
	key := Key{Path: tbl.Source} // first sheet requested

	require.NoError(t, c.SaveTable(key, tbl, 100, 2048))

	got, found, err := c.LoadTable(key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024", got.Sheet)
	assert.Equal(t, tbl.Source, got.Source)
	assert.Equal(t, tbl.Columns, got.Columns)
	assert.Equal(t, tbl.Rows, got.Rows)

	tracked, err := c.GetTrackedSheets()
	require.NoError(t, err)
	assert.Equal(t, FileInfo{MtimeNs: 100, SizeBytes: 2048}, tracked[key])
}

func TestLoadTableMissing(t *testing.T) {
	c := openTestCache(t)

	got, found, err := c.LoadTable(Key{Path: "/nope.xlsx"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSaveTableReplacesRows(t *testing.T) {
	c := openTestCache(t)
	tbl := sampleTable()
	key := Key{Path: tbl.Source, Sheet: tbl.Sheet}
	require.NoError(t, c.SaveTable(key, tbl, 1, 1))

	tbl.Rows = tbl.Rows[:1]
	require.NoError(t, c.SaveTable(key, tbl, 2, 1))

	got, found, err := c.LoadTable(key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, got.Rows, 1)

	n, err := c.SheetCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteFile(t *testing.T) {
	c := openTestCache(t)
	tbl := sampleTable()
	key := Key{Path: tbl.Source, Sheet: tbl.Sheet}
	require.NoError(t, c.SaveTable(key, tbl, 1, 1))

	require.NoError(t, c.DeleteFile(tbl.Source))

	_, found, err := c.LoadTable(key)
	require.NoError(t, err)
	assert.False(t, found)
}
