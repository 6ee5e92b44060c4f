package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/pipeline"
)

// Quality is the JSON form of model.DataQuality.
type Quality struct {
	UnparsedDates   int `json:"unparsed_dates"`
	MissingDates    int `json:"missing_dates"`
	InvalidAmounts  int `json:"invalid_amounts"`
	NegativeAmounts int `json:"negative_amounts"`
}

// LabelShare is one distribution entry.
type LabelShare struct {
	Label        model.Label `json:"label"`
	Display      string      `json:"display"`
	Count        int         `json:"count"`
	SharePercent float64     `json:"share_percent"`
}

// TrendPoint is one month of the trend series.
type TrendPoint struct {
	Column string          `json:"column"`
	Month  string          `json:"month"`
	Total  decimal.Decimal `json:"total"`
}

// TopEntry is one ranked taxpayer.
type TopEntry struct {
	Rank           int             `json:"rank"`
	Name           string          `json:"name"`
	Unit           string          `json:"upppd"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalFormatted string          `json:"total_formatted"`
	Label          model.Label     `json:"label"`
}

// Summary is the headline aggregate.
type Summary struct {
	Taxpayers         int             `json:"taxpayers"`
	PaymentColumns    int             `json:"payment_columns"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	ActiveMonths      int             `json:"active_months"`
	PaidMonths        int             `json:"paid_months"`
	AvgCompliance     *float64        `json:"avg_compliance_percent"`
	OverallCompliance *float64        `json:"overall_compliance_percent"`
}

// ReportResponse is served at /v1/report.
type ReportResponse struct {
	SnapshotID   string            `json:"snapshot_id"`
	Category     model.TaxCategory `json:"category"`
	Year         int               `json:"year"`
	Scope        Scope             `json:"scope"`
	Summary      Summary           `json:"summary"`
	Distribution []LabelShare      `json:"distribution"`
	Trend        []TrendPoint      `json:"trend"`
	Top          []TopEntry        `json:"top"`
	Quality      Quality           `json:"data_quality"`
}

// Scope is the JSON form of model.FilterScope.
type Scope struct {
	Unit           string `json:"upppd,omitempty"`
	Classification string `json:"klasifikasi,omitempty"`
	Status         string `json:"status,omitempty"`
}

// RecordRow is one decorated record. Average and Percentage are null when
// undefined.
type RecordRow struct {
	Name           string           `json:"name"`
	Unit           string           `json:"upppd"`
	Classification string           `json:"klasifikasi,omitempty"`
	Status         string           `json:"status"`
	Registered     string           `json:"tmt"`
	ActiveMonths   int              `json:"active_months"`
	PaidMonths     int              `json:"paid_months"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	Average        *decimal.Decimal `json:"average"`
	Label          model.Label      `json:"label"`
	Percentage     *float64         `json:"percentage"`
}

// RecordsResponse is served at /v1/records.
type RecordsResponse struct {
	SnapshotID string      `json:"snapshot_id"`
	Total      int         `json:"total"`
	Records    []RecordRow `json:"records"`
}

var errNoSnapshot = errors.New("dataset not loaded yet")

// Handler returns the HTTP router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	s.MountRoutes(r)
	return r
}

// MountRoutes registers the service endpoints.
func (s *Service) MountRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(httprate.Limit(s.cfg.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}
		r.Get("/status", s.handleStatus)
		r.Get("/report", s.handleReport)
		r.Get("/records", s.handleRecords)
		r.Get("/filters", s.handleFilters)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, rep, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	resp := ReportResponse{
		SnapshotID: snap.id,
		Category:   rep.Category,
		Year:       rep.Year,
		Scope:      Scope(rep.Scope),
		Summary: Summary{
			Taxpayers:         rep.Summary.Taxpayers,
			PaymentColumns:    rep.Summary.PaymentColumns,
			TotalPaid:         rep.Summary.TotalPaid,
			ActiveMonths:      rep.Summary.ActiveMonths,
			PaidMonths:        rep.Summary.PaidMonths,
			AvgCompliance:     rep.Summary.AvgCompliance,
			OverallCompliance: rep.Summary.OverallCompliance,
		},
		Distribution: make([]LabelShare, 0, len(rep.Distribution)),
		Trend:        make([]TrendPoint, 0, len(rep.Trend)),
		Top:          make([]TopEntry, 0, len(rep.Top)),
		Quality:      qualityJSON(rep.Quality),
	}
	for _, d := range rep.Distribution {
		resp.Distribution = append(resp.Distribution, LabelShare{
			Label: d.Label, Display: d.Label.Display(), Count: d.Count, SharePercent: d.SharePercent,
		})
	}
	for _, m := range rep.Trend {
		resp.Trend = append(resp.Trend, TrendPoint{Column: m.Column.Label, Month: m.Column.ShortName(), Total: m.Total})
	}
	for _, t := range rep.Top {
		resp.Top = append(resp.Top, TopEntry{
			Rank: t.Rank, Name: t.Name, Unit: t.Unit,
			TotalPaid: t.TotalPaid, TotalFormatted: t.TotalFormatted, Label: t.Label,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap, rep, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	limit, err := intParam(r, "limit", s.cfg.RecordsLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	assessments := rep.Assessments
	if raw := r.URL.Query().Get("label"); raw != "" {
		label, err := model.ParseLabel(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		assessments = pipeline.FilterByLabel(assessments, label)
	}
	n := len(assessments)
	if limit > 0 && limit < n {
		n = limit
	}

	resp := RecordsResponse{SnapshotID: snap.id, Total: len(assessments), Records: make([]RecordRow, 0, n)}
	for _, a := range assessments[:n] {
		row := RecordRow{
			Name:           a.Record.Name,
			Unit:           a.Record.Unit,
			Classification: a.Record.Classification,
			Status:         a.Record.Status,
			Registered:     a.Record.RegisteredRaw,
			ActiveMonths:   a.Result.ActiveMonths,
			PaidMonths:     a.Result.PaidMonths,
			TotalPaid:      a.Result.TotalPaid,
			Label:          a.Result.Label,
			Percentage:     a.Result.Percentage,
		}
		if a.Result.Average.Valid {
			avg := a.Result.Average.Decimal.Round(2)
			row.Average = &avg
		}
		resp.Records = append(resp.Records, row)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleFilters(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSnapshot)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.FilterOptions(snap.dataset.Records, snap.dataset.Category, scopeFromQuery(r)))
}

// buildReport runs the pipeline on the current snapshot for the request's
// filter scope. Each request computes its own report; the snapshot is shared
// read-only.
func (s *Service) buildReport(w http.ResponseWriter, r *http.Request) (*snapshot, *model.Report, bool) {
	snap := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, errNoSnapshot)
		return nil, nil, false
	}

	top, err := intParam(r, "top", s.cfg.TopN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}
	year, err := intParam(r, "year", s.cfg.Year)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	rep, err := pipeline.BuildReport(snap.dataset, pipeline.Options{
		Category: snap.dataset.Category,
		Year:     year,
		Scope:    scopeFromQuery(r),
		TopN:     top,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidOptions) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return nil, nil, false
	}
	return snap, rep, true
}

func scopeFromQuery(r *http.Request) model.FilterScope {
	q := r.URL.Query()
	return model.FilterScope{
		Unit:           strings.TrimSpace(q.Get("upppd")),
		Classification: strings.TrimSpace(q.Get("klasifikasi")),
		Status:         strings.TrimSpace(q.Get("status")),
	}
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}

func qualityJSON(q model.DataQuality) Quality {
	return Quality(q)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
