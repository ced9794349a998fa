package lineage_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/lineage"
	"geodata/internal/infra/adapter/persistence/memory"
	lineageUC "geodata/internal/usecase/lineage"
)

/* ───────── ヘルパ ───────── */

var (
	createdAt = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	verifyAt  = time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	mux   *http.ServeMux
	store *memory.Store
	now   time.Time
}

// newFixture seeds one source and the given data entries.
func newFixture(t *testing.T, entryIDs ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	sources := memory.NewSourceRepo(store)
	entries := memory.NewDataEntryRepo(store)
	require.NoError(t, sources.Create(ctx, &entity.Source{ID: "gov_stats", Name: "Stats Office", Type: "government"}))
	for _, id := range entryIDs {
		require.NoError(t, entries.Create(ctx, &entity.DataEntry{
			ID: id, SourceID: "gov_stats", Title: "title " + id, Content: "content " + id,
			ContentType: entity.ContentTypeStatistic, CollectedDate: createdAt,
		}))
	}

	f := &fixture{store: store, now: createdAt}
	svc := &lineageUC.Service{
		Lineage: memory.NewLineageRepo(store),
		Entries: entries,
		Sources: sources,
		Tx:      store,
		Now:     func() time.Time { return f.now },
	}
	f.mux = http.NewServeMux()
	lineage.Register(f.mux, svc, pagination.DefaultConfig(), nil)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) create(t *testing.T, body string) lineage.RecordDTO {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/api/lineage", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rec lineage.RecordDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	return rec
}

const chainJSON = `[{"source_id":"gov_stats","collection_timestamp":"2024-03-31T10:00:00Z","collection_method":"api","raw_data_hash":"abc","transformation_applied":["normalize"]}]`

/* ───────── 作成 ───────── */

func TestCreateHandler(t *testing.T) {
	f := newFixture(t, "e1")

	rec := f.create(t, `{"data_entry_id":"e1","source_chain":`+chainJSON+`,"quality_metrics":{"accuracy":0.9}}`)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "e1", rec.DataEntryID)
	assert.Equal(t, "pending", rec.ValidationStatus)
	assert.Nil(t, rec.LastVerified)
	require.Len(t, rec.SourceChain, 1)
	assert.Equal(t, "api", rec.SourceChain[0].CollectionMethod)
	require.NotNil(t, rec.QualityMetrics.Accuracy)
	assert.InDelta(t, 0.9, *rec.QualityMetrics.Accuracy, 1e-9)
	assert.Nil(t, rec.QualityMetrics.Completeness)
}

func TestCreateHandler_EmptyChainAndMetrics(t *testing.T) {
	f := newFixture(t, "e1")

	rr := f.do(t, http.MethodPost, "/api/lineage", `{"data_entry_id":"e1","source_chain":[]}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"source_chain":[]`)
	assert.Contains(t, rr.Body.String(), `"quality_metrics":{}`)
}

func TestCreateHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing source_chain", `{"data_entry_id":"e1"}`, http.StatusBadRequest},
		{"missing data_entry_id", `{"source_chain":[]}`, http.StatusBadRequest},
		{"unknown entry", `{"data_entry_id":"nope","source_chain":[]}`, http.StatusNotFound},
		{"bad status", `{"data_entry_id":"e1","source_chain":[],"validation_status":"done"}`, http.StatusBadRequest},
		{"metric out of range", `{"data_entry_id":"e1","source_chain":[],"quality_metrics":{"accuracy":1.5}}`, http.StatusBadRequest},
		{"unknown metric", `{"data_entry_id":"e1","source_chain":[],"quality_metrics":{"freshness":0.5}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "e1")
			rr := f.do(t, http.MethodPost, "/api/lineage", tt.body)
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}
}

/* ───────── 取得・一覧 ───────── */

func TestGetHandler(t *testing.T) {
	f := newFixture(t, "e1")
	rec := f.create(t, `{"data_entry_id":"e1","source_chain":[]}`)

	rr := f.do(t, http.MethodGet, "/api/lineage/"+rec.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/lineage/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListHandler(t *testing.T) {
	f := newFixture(t, "e1", "e2")
	f.create(t, `{"data_entry_id":"e1","source_chain":[]}`)
	f.create(t, `{"data_entry_id":"e1","source_chain":[],"validation_status":"failed"}`)
	f.create(t, `{"data_entry_id":"e2","source_chain":[]}`)

	tests := []struct {
		query string
		total int64
		n     int
	}{
		{"", 3, 3},
		{"?data_entry_id=e1", 2, 2},
		{"?validation_status=failed", 1, 1},
		{"?limit=1&offset=1", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := f.do(t, http.MethodGet, "/api/lineage"+tt.query, "")
			require.Equal(t, http.StatusOK, rr.Code)
			var page lineage.ListResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
			assert.Equal(t, tt.total, page.Total)
			assert.Len(t, page.Records, tt.n)
		})
	}

	rr := f.do(t, http.MethodGet, "/api/lineage?validation_status=unknown", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

/* ───────── 検証 ───────── */

func TestValidateHandler_MergesMetrics(t *testing.T) {
	f := newFixture(t, "e1")
	rec := f.create(t, `{"data_entry_id":"e1","source_chain":[],"quality_metrics":{"accuracy":0.9,"timeliness":0.4}}`)
	f.now = verifyAt

	rr := f.do(t, http.MethodPost, "/api/lineage/"+rec.ID+"/validate", `{"quality_metrics":{"timeliness":0.8}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got lineage.RecordDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "validated", got.ValidationStatus)
	require.NotNil(t, got.LastVerified)
	assert.True(t, got.LastVerified.Equal(verifyAt))
	assert.InDelta(t, 0.9, *got.QualityMetrics.Accuracy, 1e-9)
	assert.InDelta(t, 0.8, *got.QualityMetrics.Timeliness, 1e-9)
}

func TestValidateHandler_NullMetricClears(t *testing.T) {
	f := newFixture(t, "e1")
	rec := f.create(t, `{"data_entry_id":"e1","source_chain":[],"quality_metrics":{"accuracy":0.9,"timeliness":0.4}}`)

	rr := f.do(t, http.MethodPost, "/api/lineage/"+rec.ID+"/validate", `{"quality_metrics":{"timeliness":null}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got lineage.RecordDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Nil(t, got.QualityMetrics.Timeliness)
	assert.InDelta(t, 0.9, *got.QualityMetrics.Accuracy, 1e-9)
}

func TestValidateHandler_EmptyBody(t *testing.T) {
	f := newFixture(t, "e1")
	rec := f.create(t, `{"data_entry_id":"e1","source_chain":[]}`)

	rr := f.do(t, http.MethodPost, "/api/lineage/"+rec.ID+"/validate", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"validation_status":"validated"`)
}

func TestValidateHandler_Errors(t *testing.T) {
	f := newFixture(t, "e1")
	rec := f.create(t, `{"data_entry_id":"e1","source_chain":[]}`)

	rr := f.do(t, http.MethodPost, "/api/lineage/missing/validate", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/lineage/"+rec.ID+"/validate", `{"validation_status":"approved"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/lineage/"+rec.ID+"/validate", `{"validation_status":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

/* ───────── トレース ───────── */

func TestTraceHandler(t *testing.T) {
	f := newFixture(t, "e1", "e2")
	first := f.create(t, `{"data_entry_id":"e1","source_chain":[]}`)
	f.now = verifyAt
	second := f.create(t, `{"data_entry_id":"e1","source_chain":`+chainJSON+`}`)
	f.create(t, `{"data_entry_id":"e2","source_chain":[]}`)

	rr := f.do(t, http.MethodGet, "/api/lineage/trace/e1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got struct {
		DataEntry struct {
			ID string `json:"id"`
		} `json:"data_entry"`
		Records    []lineage.RecordDTO `json:"lineage_records"`
		SourceInfo *struct {
			ID string `json:"id"`
		} `json:"source_info"`
		Total int `json:"total_lineage_records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "e1", got.DataEntry.ID)
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Records, 2)
	assert.Equal(t, first.ID, got.Records[0].ID)
	assert.Equal(t, second.ID, got.Records[1].ID)
	require.NotNil(t, got.SourceInfo)
	assert.Equal(t, "gov_stats", got.SourceInfo.ID)
}

func TestTraceHandler_NoRecords(t *testing.T) {
	f := newFixture(t, "e1")

	rr := f.do(t, http.MethodGet, "/api/lineage/trace/e1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"lineage_records":[]`)
	assert.Contains(t, rr.Body.String(), `"total_lineage_records":0`)

	rr = f.do(t, http.MethodGet, "/api/lineage/trace/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

/* ───────── レポート・統計 ───────── */

func TestQualityReportHandler_NoData(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/api/lineage/quality-report", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"No quality metrics available","total_records":0}`, rr.Body.String())
}

func TestQualityReportHandler(t *testing.T) {
	f := newFixture(t, "e1", "e2")
	f.create(t, `{"data_entry_id":"e1","source_chain":[],"quality_metrics":{"accuracy":0.6}}`)
	f.create(t, `{"data_entry_id":"e2","source_chain":[],"quality_metrics":{"accuracy":0.8},"validation_status":"validated"}`)

	rr := f.do(t, http.MethodGet, "/api/lineage/quality-report", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var rep lineage.QualityReportDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
	assert.Equal(t, 2, rep.TotalRecords)
	assert.Equal(t, map[string]int{"validated": 1, "pending": 1, "failed": 0}, rep.ValidationStatusDistribution)
	require.NotNil(t, rep.AverageQualityMetrics["accuracy"])
	assert.InDelta(t, 0.7, *rep.AverageQualityMetrics["accuracy"], 1e-9)
	assert.Nil(t, rep.AverageQualityMetrics["consistency"])
	assert.Equal(t, "2/2", rep.QualityMetricCoverage["accuracy"])
	assert.Equal(t, "0/2", rep.QualityMetricCoverage["timeliness"])
}

func TestStatsHandler(t *testing.T) {
	f := newFixture(t, "e1", "e2", "e3")
	f.create(t, `{"data_entry_id":"e1","source_chain":[]}`)
	f.create(t, `{"data_entry_id":"e1","source_chain":[],"validation_status":"validated"}`)
	f.create(t, `{"data_entry_id":"e2","source_chain":[],"validation_status":"failed"}`)

	rr := f.do(t, http.MethodGet, "/api/lineage/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"total_lineage_records": 3,
		"validated_records": 1,
		"pending_records": 1,
		"failed_records": 1,
		"total_data_entries": 3,
		"entries_with_lineage": 2,
		"entries_without_lineage": 1,
		"lineage_coverage_percentage": 66.67
	}`, rr.Body.String())
}

func TestStatsHandler_Empty(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/api/lineage/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"lineage_coverage_percentage":0`)
}
