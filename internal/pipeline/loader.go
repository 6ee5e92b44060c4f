package pipeline

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/source"
)

// LoadResult holds the output of the data loading pipeline.
type LoadResult struct {
	Dataset     *model.Dataset
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Errors      []error // per-file read errors, already counted in FileErrors
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load reads the named sheet of every workbook at path (a file or a
// directory) and merges them into one dataset of the given category.
// Files are read in parallel by a bounded worker pool.
//
// A file that cannot be read is counted and skipped, unless no file could be
// read at all. A missing required column always fails the load.
func Load(path, sheet string, category model.TaxCategory, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	results := parseAll(files, progressFn, 0, len(files), func(df source.DiscoveredFile) source.ParseResult {
		return source.ParseFile(df, sheet)
	})
	return assemble(results, category)
}

// parseAll runs parse over files with at most GOMAXPROCS workers and returns
// the results in input order. offset is added to the progress count.
func parseAll(files []source.DiscoveredFile, progressFn ProgressFunc, offset, total int,
	parse func(source.DiscoveredFile) source.ParseResult) []source.ParseResult {

	results := make([]source.ParseResult, len(files))
	if len(files) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}

	var g errgroup.Group
	g.SetLimit(numWorkers)
	var processed atomic.Int64

	for i := range files {
		g.Go(func() error {
			results[i] = parse(files[i])
			n := processed.Add(1)
			if progressFn != nil {
				progressFn(int(n)+offset, total)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// assemble builds per-file datasets from parse results and merges them.
func assemble(results []source.ParseResult, category model.TaxCategory) (*LoadResult, error) {
	result := &LoadResult{TotalFiles: len(results)}
	if len(results) == 0 {
		return nil, errors.New("no workbook files found")
	}

	parts := make([]*model.Dataset, 0, len(results))
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", pr.File.Path, pr.Err))
			continue
		}
		ds, err := source.BuildDataset(pr.Table, category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pr.File.Path, err)
		}
		result.ParsedFiles++
		parts = append(parts, ds)
	}

	if result.ParsedFiles == 0 {
		return nil, result.Errors[0]
	}

	if len(parts) == 1 {
		result.Dataset = parts[0]
	} else {
		result.Dataset = source.Merge(category, parts...)
	}
	return result, nil
}
