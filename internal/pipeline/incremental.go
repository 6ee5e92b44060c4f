package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/source"
	"github.com/theirongolddev/kepatuhan/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Pruned    int // cached files that no longer exist on disk
}

// LoadWithCache behaves like Load but serves unchanged sheets from the
// cache. A file is unchanged when its mtime and size match what was recorded
// when it was last parsed. Only parsed tables are cached.
func LoadWithCache(path, sheet string, category model.TaxCategory, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	tracked, err := cache.GetTrackedSheets()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	pruned := pruneDeleted(cache, tracked)

	// Diff: partition into cached and changed, remembering positions so the
	// merged dataset keeps file order.
	results := make([]source.ParseResult, len(files))
	var toReparse []int
	infos := make([]os.FileInfo, len(files))
	hits := 0

	for i, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			results[i] = source.ParseResult{File: f, Err: err}
			continue
		}
		infos[i] = info

		key := store.Key{Path: f.Path, Sheet: sheet}
		cached, ok := tracked[key]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			t, found, err := cache.LoadTable(key)
			if err == nil && found {
				results[i] = source.ParseResult{File: f, Table: t}
				hits++
				continue
			}
			if err != nil {
				slog.Warn("cache read failed, reparsing", "file", f.Path, "err", err)
			}
		}
		toReparse = append(toReparse, i)
	}

	reparse := make([]source.DiscoveredFile, len(toReparse))
	for j, i := range toReparse {
		reparse[j] = files[i]
	}
	parsed := parseAll(reparse, progressFn, hits, len(files), func(df source.DiscoveredFile) source.ParseResult {
		return source.ParseFile(df, sheet)
	})

	for j, pr := range parsed {
		i := toReparse[j]
		results[i] = pr
		if pr.Err != nil {
			continue
		}
		key := store.Key{Path: pr.File.Path, Sheet: sheet}
		if err := cache.SaveTable(key, pr.Table, infos[i].ModTime().UnixNano(), infos[i].Size()); err != nil {
			slog.Warn("cache write failed", "file", pr.File.Path, "err", err)
		}
	}

	lr, err := assemble(results, category)
	if err != nil {
		return nil, err
	}
	return &CachedLoadResult{LoadResult: *lr, CacheHits: hits, Reparsed: len(toReparse), Pruned: pruned}, nil
}

// pruneDeleted drops cached sheets whose file has been removed.
func pruneDeleted(cache *store.Cache, tracked map[store.Key]store.FileInfo) int {
	seen := make(map[string]bool)
	pruned := 0
	for k := range tracked {
		if seen[k.Path] {
			continue
		}
		seen[k.Path] = true
		if _, err := os.Stat(k.Path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := cache.DeleteFile(k.Path); err != nil {
			slog.Warn("cache prune failed", "file", k.Path, "err", err)
			continue
		}
		pruned++
	}
	return pruned
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "kepatuhan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "kepatuhan")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "sheets.db")
}
