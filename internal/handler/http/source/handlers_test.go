package source_test

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

	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/source"
	"geodata/internal/infra/adapter/persistence/memory"
	srcUC "geodata/internal/usecase/source"
)

/* ───────── ヘルパ ───────── */

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*http.ServeMux, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := &srcUC.Service{Repo: memory.NewSourceRepo(store), Now: func() time.Time { return fixedNow }}
	mux := http.NewServeMux()
	source.Register(mux, svc)
	return mux, store
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func create(t *testing.T, mux http.Handler, body string) source.DTO {
	t.Helper()
	rr := do(mux, http.MethodPost, "/api/sources", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var got source.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	return got
}

/* ───────── Create ───────── */

func TestCreateHandler_Defaults(t *testing.T) {
	mux, _ := setup(t)

	got := create(t, mux, `{"id":"un_news","name":"UN News","type":"international_org"}`)

	assert.Equal(t, "un_news", got.ID)
	assert.Equal(t, 5.0, got.ReliabilityScore)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "pending", got.VerificationStatus)
	assert.Equal(t, []string{}, got.CountryFocus)
	assert.Equal(t, []string{}, got.TopicCoverage)
	assert.True(t, got.CreatedAt.Equal(fixedNow))
}

func TestCreateHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing id", `{"name":"X","type":"media"}`, http.StatusBadRequest},
		{"missing type", `{"id":"x","name":"X"}`, http.StatusBadRequest},
		{"unknown type", `{"id":"x","name":"X","type":"blog"}`, http.StatusBadRequest},
		{"score out of range", `{"id":"x","name":"X","type":"media","reliability_score":11}`, http.StatusBadRequest},
		{"bad url", `{"id":"x","name":"X","type":"media","url":"ftp://example.com"}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := setup(t)
			rr := do(mux, http.MethodPost, "/api/sources", tt.body)
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}
}

func TestCreateHandler_Duplicate(t *testing.T) {
	mux, _ := setup(t)
	create(t, mux, `{"id":"bbc","name":"BBC","type":"media"}`)

	rr := do(mux, http.MethodPost, "/api/sources", `{"id":"bbc","name":"BBC again","type":"media"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already exists")
}

/* ───────── List / Get ───────── */

func TestListHandler_Filters(t *testing.T) {
	mux, _ := setup(t)
	create(t, mux, `{"id":"a","name":"Alpha","type":"media","reliability_score":8.5,"verification_status":"verified"}`)
	create(t, mux, `{"id":"b","name":"Beta","type":"government","reliability_score":6}`)
	create(t, mux, `{"id":"c","name":"Gamma","type":"media","reliability_score":3}`)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b", "c"}},
		{"?type=media", []string{"a", "c"}},
		{"?verification_status=verified", []string{"a"}},
		{"?min_reliability=6", []string{"a", "b"}},
		{"?type=media&min_reliability=5", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := do(mux, http.MethodGet, "/api/sources"+tt.query, "")
			require.Equal(t, http.StatusOK, rr.Code)
			var list []source.DTO
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
			ids := make([]string, 0, len(list))
			for _, s := range list {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	rr := do(mux, http.MethodGet, "/api/sources?min_reliability=high", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListHandler_EmptyArray(t *testing.T) {
	mux, _ := setup(t)
	rr := do(mux, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetHandler(t *testing.T) {
	mux, _ := setup(t)
	create(t, mux, `{"id":"bbc","name":"BBC","type":"media"}`)

	rr := do(mux, http.MethodGet, "/api/sources/bbc", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(mux, http.MethodGet, "/api/sources/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

/* ───────── Update ───────── */

func TestUpdateHandler_Partial(t *testing.T) {
	mux, _ := setup(t)
	create(t, mux, `{"id":"bbc","name":"BBC","type":"media","language":"en","country_focus":["gb"]}`)

	rr := do(mux, http.MethodPut, "/api/sources/bbc", `{"reliability_score":7.5,"verification_status":"verified"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got source.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 7.5, got.ReliabilityScore)
	assert.Equal(t, "verified", got.VerificationStatus)
	assert.Equal(t, "BBC", got.Name)
	assert.Equal(t, []string{"gb"}, got.CountryFocus)
}

func TestUpdateHandler_Errors(t *testing.T) {
	mux, _ := setup(t)
	create(t, mux, `{"id":"bbc","name":"BBC","type":"media"}`)

	rr := do(mux, http.MethodPut, "/api/sources/nope", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(mux, http.MethodPut, "/api/sources/bbc", `{"type":"blog"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(mux, http.MethodPut, "/api/sources/bbc", `{"reliability_score":"high"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

/* ───────── Delete ───────── */

func TestDeleteHandler(t *testing.T) {
	mux, _ := setup(t)
	create(t, mux, `{"id":"bbc","name":"BBC","type":"media"}`)

	rr := do(mux, http.MethodDelete, "/api/sources/bbc", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Source deleted successfully"}`, rr.Body.String())

	rr = do(mux, http.MethodDelete, "/api/sources/bbc", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteHandler_Referenced(t *testing.T) {
	mux, store := setup(t)
	create(t, mux, `{"id":"bbc","name":"BBC","type":"media"}`)
	require.NoError(t, memory.NewDataEntryRepo(store).Create(context.Background(), &entity.DataEntry{
		ID: "e1", SourceID: "bbc", Title: "t", Content: "c", ContentType: "article", CollectedDate: fixedNow,
	}))

	rr := do(mux, http.MethodDelete, "/api/sources/bbc", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(mux, http.MethodGet, "/api/sources/bbc", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

/* ───────── Types / Stats ───────── */

func TestTypesHandler(t *testing.T) {
	mux, _ := setup(t)
	rr := do(mux, http.MethodGet, "/api/sources/types", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["government","media","international_org","academic","commercial"]`, rr.Body.String())
}

func TestStatsHandler(t *testing.T) {
	mux, _ := setup(t)

	rr := do(mux, http.MethodGet, "/api/sources/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total_sources":0,"verified_sources":0,"average_reliability":0,"sources_by_type":{}}`, rr.Body.String())

	create(t, mux, `{"id":"a","name":"A","type":"media","reliability_score":8,"verification_status":"verified"}`)
	create(t, mux, `{"id":"b","name":"B","type":"media","reliability_score":7}`)
	create(t, mux, `{"id":"c","name":"C","type":"academic","reliability_score":6}`)

	rr = do(mux, http.MethodGet, "/api/sources/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"total_sources":3,"verified_sources":1,"average_reliability":7,"sources_by_type":{"media":2,"academic":1}}`,
		rr.Body.String())
}
