package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/source"
	"github.com/theirongolddev/kepatuhan/internal/store"
)

const (
	csvBarat = "NAMA OP,UPPPD,STATUS,TMT,JAN 2024,FEB 2024\n" +
		"Warung Sedap,BARAT,AKTIF,2020-01-01,100,200\n"
	csvTimur = "NAMA OP,UPPPD,STATUS,TMT,FEB 2024,MAR 2024\n" +
		"Kafe Senja,TIMUR,AKTIF,2024-02-01,50,\n" +
		"Rumah Makan Padang,TIMUR,TUTUP,,,\n"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "barat.csv", csvBarat)
	writeCSV(t, dir, "timur.csv", csvTimur)
	writeCSV(t, dir, "broken.xlsx", "not a zip")

	var calls atomic.Int32
	res, err := Load(dir, "", model.CategoryMakanMinum, func(current, total int) {
		calls.Add(1)
		assert.LessOrEqual(t, current, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalFiles)
	assert.Equal(t, 2, res.ParsedFiles)
	assert.Equal(t, 1, res.FileErrors)
	assert.Len(t, res.Errors, 1)
	assert.EqualValues(t, 3, calls.Load())

	ds := res.Dataset
	require.Len(t, ds.Records, 3)
	assert.Equal(t, "Warung Sedap", ds.Records[0].Name)
	assert.Equal(t, "Kafe Senja", ds.Records[1].Name)
	assert.Equal(t, []string{"NAMA OP", "UPPPD", "STATUS", "TMT", "JAN 2024", "FEB 2024", "MAR 2024"}, ds.Columns)
}

func TestLoadMissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bad.csv", "NAMA OP,UPPPD,TMT\nx,y,z\n")

	_, err := Load(path, "", model.CategoryMakanMinum, nil)
	var mce *source.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "STATUS", mce.Column)
}

func TestLoadNoFiles(t *testing.T) {
	_, err := Load(t.TempDir(), "", model.CategoryMakanMinum, nil)
	assert.Error(t, err)
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "barat.csv", csvBarat)
	writeCSV(t, dir, "timur.csv", csvTimur)

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	first, err := LoadWithCache(dir, "", model.CategoryMakanMinum, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	assert.Equal(t, 2, first.Reparsed)

	second, err := LoadWithCache(dir, "", model.CategoryMakanMinum, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, 0, second.Reparsed)
	assert.Equal(t, first.Dataset.Records[1].Cells, second.Dataset.Records[1].Cells)

	// A size change invalidates the cached copy.
	writeCSV(t, dir, "timur.csv", csvTimur+"Sate Pak Kumis,TIMUR,AKTIF,,10,10\n")
	third, err := LoadWithCache(dir, "", model.CategoryMakanMinum, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.CacheHits)
	assert.Equal(t, 1, third.Reparsed)
	assert.Len(t, third.Dataset.Records, 4)

	// Removed files are dropped from the cache.
	require.NoError(t, os.Remove(filepath.Join(dir, "barat.csv")))
	fourth, err := LoadWithCache(dir, "", model.CategoryMakanMinum, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fourth.Pruned)
	assert.Equal(t, 1, fourth.CacheHits)
	n, err := cache.SheetCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
