// Package daemon serves compliance reports over HTTP from a dataset that is
// reloaded in the background whenever its files change.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/pipeline"
	"github.com/theirongolddev/kepatuhan/internal/source"
	"github.com/theirongolddev/kepatuhan/internal/store"
)

// Config controls the service runtime behavior.
type Config struct {
	Path     string
	Sheet    string
	Category model.TaxCategory
	Year     int
	UseCache bool

	Interval     time.Duration
	Addr         string
	RateLimit    int // requests per minute per client IP, 0 disables
	TopN         int
	RecordsLimit int
}

// LoadFunc loads the dataset a snapshot is built from.
type LoadFunc func() (*model.Dataset, error)

// fingerprint identifies a version of the input files.
type fingerprint struct {
	files   int
	size    int64
	mtimeNs int64
}

// snapshot is an immutable loaded dataset. Requests read it without
// copying; reloads replace the pointer.
type snapshot struct {
	id       string
	loadedAt time.Time
	print    fingerprint
	dataset  *model.Dataset
	quality  model.DataQuality
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time         `json:"started_at"`
	LastPollAt      time.Time         `json:"last_poll_at"`
	PollIntervalSec int               `json:"poll_interval_sec"`
	PollCount       int64             `json:"poll_count"`
	ReloadCount     int64             `json:"reload_count"`
	Path            string            `json:"path"`
	Sheet           string            `json:"sheet,omitempty"`
	Category        model.TaxCategory `json:"category"`
	Year            int               `json:"year"`
	SnapshotID      string            `json:"snapshot_id,omitempty"`
	LoadedAt        *time.Time        `json:"loaded_at,omitempty"`
	Taxpayers       int               `json:"taxpayers"`
	Quality         Quality           `json:"data_quality"`
	LastError       string            `json:"last_error,omitempty"`
}

// Service provides the polling runtime and HTTP API.
type Service struct {
	cfg     Config
	load    LoadFunc
	logger  *slog.Logger
	metrics *Metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	reloadCount int64
	lastError   string
	snap        *snapshot
}

// New returns a service that loads cfg.Path with the pipeline loader.
func New(cfg Config, logger *slog.Logger) *Service {
	s := NewWithLoader(cfg, nil, logger)
	s.load = s.loadDataset
	return s
}

// NewWithLoader returns a service with a custom dataset loader.
func NewWithLoader(cfg Config, load LoadFunc, logger *slog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.TopN <= 0 {
		cfg.TopN = pipeline.DefaultTopN
	}
	if cfg.RecordsLimit <= 0 {
		cfg.RecordsLimit = 10
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		load:      load,
		logger:    logger,
		metrics:   NewMetrics(),
		startedAt: time.Now(),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("serving", "addr", s.cfg.Addr, "path", s.cfg.Path, "interval", s.cfg.Interval)

	// Seed the first snapshot so reports are available immediately.
	s.PollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.PollOnce()
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

// PollOnce reloads the dataset when its files changed since the current
// snapshot, or when there is no snapshot yet.
func (s *Service) PollOnce() {
	now := time.Now()
	fp, fpErr := s.fingerprint()

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	current := s.snap
	s.mu.Unlock()

	if fpErr == nil && current != nil && current.print == fp {
		return
	}

	ds, err := s.load()
	if err == nil && ds == nil {
		err = errors.New("loader returned no dataset")
	}
	s.metrics.observeReload(err)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.logger.Error("dataset reload failed", "path", s.cfg.Path, "err", err)
		return
	}

	cols := pipeline.ResolvePaymentColumns(ds.Columns, s.cfg.Year)
	all, quality := pipeline.AssessAll(ds.Records, cols, s.cfg.Year)
	next := &snapshot{
		id:       uuid.NewString(),
		loadedAt: now,
		print:    fp,
		dataset:  ds,
		quality:  quality,
	}
	s.metrics.observeSnapshot(len(all), pipeline.Distribution(all))

	s.mu.Lock()
	s.snap = next
	s.reloadCount++
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		"snapshot", next.id,
		"records", len(ds.Records),
		"payment_columns", len(cols),
		"unparsed_dates", quality.UnparsedDates,
		"invalid_amounts", quality.InvalidAmounts)
}

// fingerprint summarizes the count, total size and newest mtime of the
// input files.
func (s *Service) fingerprint() (fingerprint, error) {
	var fp fingerprint
	if s.cfg.Path == "" {
		return fp, errors.New("no path")
	}
	files, err := source.Resolve(s.cfg.Path)
	if err != nil {
		return fp, err
	}
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			return fp, err
		}
		fp.files++
		fp.size += info.Size()
		fp.mtimeNs = max(fp.mtimeNs, info.ModTime().UnixNano())
	}
	return fp, nil
}

func (s *Service) loadDataset() (*model.Dataset, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.Path, s.cfg.Sheet, s.cfg.Category, cache, nil)
			if loadErr == nil {
				return cr.Dataset, nil
			}
			s.logger.Warn("cached load failed, falling back", "err", loadErr)
		}
	}

	result, err := pipeline.Load(s.cfg.Path, s.cfg.Sheet, s.cfg.Category, nil)
	if err != nil {
		return nil, err
	}
	return result.Dataset, nil
}

func (s *Service) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ReloadCount:     s.reloadCount,
		Path:            s.cfg.Path,
		Sheet:           s.cfg.Sheet,
		Category:        s.cfg.Category,
		Year:            s.cfg.Year,
		LastError:       s.lastError,
	}
	if s.snap != nil {
		loaded := s.snap.loadedAt
		st.SnapshotID = s.snap.id
		st.LoadedAt = &loaded
		st.Taxpayers = len(s.snap.dataset.Records)
		st.Quality = qualityJSON(s.snap.quality)
	}
	return st
}
