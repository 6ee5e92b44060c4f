package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

func testDataset() *model.Dataset {
	months := []string{"JAN 2024", "FEB 2024", "MAR 2024"}
	rec := func(name, unit, class string, paid ...string) model.TaxpayerRecord {
		cells := map[string]string{}
		for i, p := range paid {
			cells[months[i]] = p
		}
		return model.TaxpayerRecord{
			Name: name, Unit: unit, Classification: class, Status: "AKTIF",
			RegisteredRaw: "2024-10-01",
			RegisteredAt:  time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
			Cells:         cells,
		}
	}
	return &model.Dataset{
		Category: model.CategoryHiburan,
		Columns:  append([]string{"NAMA OP", "UPPPD", "STATUS", "TMT", "KLASIFIKASI"}, months...),
		Records: []model.TaxpayerRecord{
			rec("Karaoke Ceria", "BARAT", "KARAOKE", "100", "200", "300"),
			rec("Bioskop Kota", "TIMUR", "BIOSKOP", "1000"),
			rec("Spa Sehat", "BARAT", "SPA"),
		},
	}
}

func newTestService(t *testing.T, cfg Config, load LoadFunc) *Service {
	t.Helper()
	if cfg.Year == 0 {
		cfg.Year = 2024
	}
	s := NewWithLoader(cfg, load, nil)
	return s
}

func get(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
	}
	return rr
}

func TestReportBeforeFirstLoad(t *testing.T) {
	s := newTestService(t, Config{}, func() (*model.Dataset, error) { return testDataset(), nil })

	rr := get(t, s.Handler(), "/v1/report", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = get(t, s.Handler(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReportEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, func() (*model.Dataset, error) { return testDataset(), nil })
	s.PollOnce()
	h := s.Handler()

	var rep ReportResponse
	rr := get(t, h, "/v1/report?top=2", &rep)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.NotEmpty(t, rep.SnapshotID)
	assert.Equal(t, 3, rep.Summary.Taxpayers)
	assert.Equal(t, 3, rep.Summary.PaymentColumns)
	require.Len(t, rep.Top, 2)
	assert.Equal(t, "Bioskop Kota", rep.Top[0].Name)
	assert.Equal(t, "Rp 1,000.00", rep.Top[0].TotalFormatted)
	require.Len(t, rep.Trend, 3)
	assert.Equal(t, "Jan", rep.Trend[0].Month)
	require.Len(t, rep.Distribution, 3)
	assert.Equal(t, model.Compliant, rep.Distribution[0].Label)

	var filtered ReportResponse
	rr = get(t, h, "/v1/report?upppd=barat&klasifikasi=spa", &filtered)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, filtered.Summary.Taxpayers)
	assert.Equal(t, "barat", filtered.Scope.Unit)

	rr = get(t, h, "/v1/report?top=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordsEndpoint(t *testing.T) {
	s := newTestService(t, Config{RecordsLimit: 2}, func() (*model.Dataset, error) { return testDataset(), nil })
	s.PollOnce()

	var resp RecordsResponse
	rr := get(t, s.Handler(), "/v1/records", &resp)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, 3, resp.Records[0].ActiveMonths)
	assert.Equal(t, 3, resp.Records[0].PaidMonths)
	require.NotNil(t, resp.Records[0].Percentage)
	assert.InDelta(t, 100.0, *resp.Records[0].Percentage, 1e-9)

	// Undefined average is null, not zero.
	rr = get(t, s.Handler(), "/v1/records?upppd=BARAT&klasifikasi=SPA", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `"average":null`), rr.Body.String())

	var partial RecordsResponse
	rr = get(t, s.Handler(), "/v1/records?label=kurang%20patuh", &partial)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 2, partial.Total)
	for _, row := range partial.Records {
		assert.Equal(t, model.PartiallyCompliant, row.Label)
	}

	rr = get(t, s.Handler(), "/v1/records?label=NON_COMPLIANT", &partial)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, partial.Total)
	assert.Empty(t, partial.Records)

	rr = get(t, s.Handler(), "/v1/records?label=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFiltersEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, func() (*model.Dataset, error) { return testDataset(), nil })
	s.PollOnce()

	var fc struct {
		Units           []string `json:"units"`
		Classifications []string `json:"classifications"`
	}
	rr := get(t, s.Handler(), "/v1/filters?upppd=BARAT", &fc)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"BARAT", "TIMUR"}, fc.Units)
	assert.Equal(t, []string{"KARAOKE", "SPA"}, fc.Classifications)
}

func TestPollOnceKeepsSnapshotOnError(t *testing.T) {
	var fail atomic.Bool
	s := newTestService(t, Config{}, func() (*model.Dataset, error) {
		if fail.Load() {
			return nil, errors.New("workbook locked")
		}
		return testDataset(), nil
	})

	s.PollOnce()
	first := s.snapshotStatus()
	require.NotEmpty(t, first.SnapshotID)

	fail.Store(true)
	s.PollOnce()
	st := s.snapshotStatus()
	assert.Equal(t, first.SnapshotID, st.SnapshotID)
	assert.Equal(t, "workbook locked", st.LastError)
	assert.EqualValues(t, 2, st.PollCount)
	assert.EqualValues(t, 1, st.ReloadCount)
}

func TestPollOnceReloadsOnlyOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	var loads atomic.Int32
	s := newTestService(t, Config{Path: path}, func() (*model.Dataset, error) {
		loads.Add(1)
		return testDataset(), nil
	})

	s.PollOnce()
	s.PollOnce()
	assert.EqualValues(t, 1, loads.Load())

	require.NoError(t, os.WriteFile(path, []byte("ab"), 0o600))
	s.PollOnce()
	assert.EqualValues(t, 2, loads.Load())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, func() (*model.Dataset, error) { return testDataset(), nil })
	s.PollOnce()
	h := s.Handler()

	get(t, h, "/v1/status", nil)
	rr := get(t, h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `kepatuhan_http_requests_total{code="200",route="/v1/status"} 1`)
	assert.Contains(t, body, `kepatuhan_dataset_reloads_total{result="ok"} 1`)
	assert.Contains(t, body, "kepatuhan_taxpayers 3")
}

func TestRateLimit(t *testing.T) {
	s := newTestService(t, Config{RateLimit: 1}, func() (*model.Dataset, error) { return testDataset(), nil })
	s.PollOnce()
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/v1/status", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/v1/status", nil).Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz", nil).Code)
}
