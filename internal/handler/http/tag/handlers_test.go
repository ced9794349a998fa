package tag_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/tag"
	"geodata/internal/infra/adapter/persistence/memory"
	tagUC "geodata/internal/usecase/tag"
)

/* ───────── ヘルパ ───────── */

var fixedNow = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) *http.ServeMux {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.NewSourceRepo(store).Create(ctx, &entity.Source{ID: "afp", Name: "AFP", Type: "media"}))
	entries := memory.NewDataEntryRepo(store)
	for _, id := range []string{"e1", "e2"} {
		require.NoError(t, entries.Create(ctx, &entity.DataEntry{
			ID: id, SourceID: "afp", Title: id, Content: id, ContentType: "article", CollectedDate: fixedNow,
		}))
	}
	svc := &tagUC.Service{
		Tags:    memory.NewTagRepo(store),
		Entries: entries,
		Tx:      store,
		Now:     func() time.Time { return fixedNow },
	}
	mux := http.NewServeMux()
	tag.Register(mux, svc, pagination.DefaultConfig(), nil)
	return mux
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

func create(t *testing.T, mux http.Handler, body string) tag.DTO {
	t.Helper()
	rr := do(mux, http.MethodPost, "/api/tags", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var got tag.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	return got
}

func path(id int64) string { return "/api/tags/" + strconv.FormatInt(id, 10) }

/* ───────── 作成 ───────── */

func TestCreateHandler_Defaults(t *testing.T) {
	mux := setup(t)

	got := create(t, mux, `{"data_entry_id":"e1","tag_type":"geographic","tag_category":"country","tag_value":"France"}`)

	assert.Positive(t, got.ID)
	assert.Equal(t, 1.0, got.ConfidenceScore)
	assert.Equal(t, "system", got.CreatedBy)
	assert.False(t, got.IsManual)
	assert.True(t, got.CreatedAt.Equal(fixedNow))
}

func TestCreateHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing value", `{"data_entry_id":"e1","tag_type":"topic"}`, http.StatusBadRequest},
		{"unknown type", `{"data_entry_id":"e1","tag_type":"mood","tag_value":"x"}`, http.StatusBadRequest},
		{"confidence too high", `{"data_entry_id":"e1","tag_type":"topic","tag_value":"x","confidence_score":2}`, http.StatusBadRequest},
		{"unknown entry", `{"data_entry_id":"e9","tag_type":"topic","tag_value":"x"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(setup(t), http.MethodPost, "/api/tags", tt.body)
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}
}

func TestBulkCreateHandler(t *testing.T) {
	mux := setup(t)

	rr := do(mux, http.MethodPost, "/api/tags/bulk", `{"tags":[
		{"data_entry_id":"e1","tag_type":"topic","tag_value":"trade"},
		{"data_entry_id":"e2","tag_type":"event","tag_value":"summit","is_manual":true,"created_by":"analyst"}
	]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got tag.BulkResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.CreatedTags, 2)
	assert.Equal(t, "analyst", got.CreatedTags[1].CreatedBy)
}

func TestBulkCreateHandler_AllOrNothing(t *testing.T) {
	mux := setup(t)

	rr := do(mux, http.MethodPost, "/api/tags/bulk", `{"tags":[
		{"data_entry_id":"e1","tag_type":"topic","tag_value":"trade"},
		{"data_entry_id":"missing","tag_type":"topic","tag_value":"war"}
	]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(mux, http.MethodPost, "/api/tags/bulk", `{"tags":[
		{"data_entry_id":"e1","tag_type":"topic","tag_value":"trade"},
		{"data_entry_id":"e1","tag_type":"topic"}
	]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "tags[1].tag_value")

	rr = do(mux, http.MethodGet, "/api/tags", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":0`)
}

func TestBulkCreateHandler_Empty(t *testing.T) {
	mux := setup(t)
	for _, body := range []string{`{"tags":[]}`, `{}`} {
		rr := do(mux, http.MethodPost, "/api/tags/bulk", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

/* ───────── 取得・更新・削除 ───────── */

func TestGetUpdateDelete(t *testing.T) {
	mux := setup(t)
	created := create(t, mux, `{"data_entry_id":"e1","tag_type":"topic","tag_value":"trade","confidence_score":0.4}`)

	rr := do(mux, http.MethodGet, path(created.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(mux, http.MethodPut, path(created.ID), `{"tag_value":"tariffs","is_manual":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated tag.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "tariffs", updated.TagValue)
	assert.True(t, updated.IsManual)
	assert.Equal(t, 0.4, updated.ConfidenceScore)
	assert.Equal(t, "e1", updated.DataEntryID)

	rr = do(mux, http.MethodPut, path(created.ID), `{"tag_type":"mood"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(mux, http.MethodDelete, path(created.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(mux, http.MethodGet, path(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(mux, http.MethodDelete, path(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(mux, http.MethodPut, path(created.ID), `{"tag_value":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvalidTagID(t *testing.T) {
	mux := setup(t)
	for _, id := range []string{"abc", "0", "-3"} {
		rr := do(mux, http.MethodGet, "/api/tags/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
	}
}

/* ───────── 一覧・検索・統計 ───────── */

func TestListHandler_Filters(t *testing.T) {
	mux := setup(t)
	create(t, mux, `{"data_entry_id":"e1","tag_type":"topic","tag_category":"economics","tag_value":"trade"}`)
	create(t, mux, `{"data_entry_id":"e1","tag_type":"geographic","tag_value":"Peru","is_manual":true}`)
	create(t, mux, `{"data_entry_id":"e2","tag_type":"topic","tag_value":"trade"}`)

	tests := []struct {
		query string
		total int
	}{
		{"", 3},
		{"?data_entry_id=e1", 2},
		{"?tag_type=topic", 2},
		{"?tag_category=economics", 1},
		{"?is_manual=true", 1},
		{"?is_manual=false", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := do(mux, http.MethodGet, "/api/tags"+tt.query, "")
			require.Equal(t, http.StatusOK, rr.Code)
			var page tag.ListResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
			assert.EqualValues(t, tt.total, page.Total)
			assert.Len(t, page.Tags, tt.total)
		})
	}
}

func TestTypesHandler(t *testing.T) {
	rr := do(setup(t), http.MethodGet, "/api/tags/types", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var schema map[string]entity.TagTypeInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &schema))
	assert.Len(t, schema, 5)
	assert.Contains(t, schema["event"].Categories, "election")
	assert.NotEmpty(t, schema["geographic"].Description)
}

func TestSearchHandler(t *testing.T) {
	mux := setup(t)
	create(t, mux, `{"data_entry_id":"e1","tag_type":"topic","tag_value":"Free Trade","confidence_score":0.5}`)
	create(t, mux, `{"data_entry_id":"e2","tag_type":"topic","tag_value":"trade war","confidence_score":0.9}`)
	create(t, mux, `{"data_entry_id":"e2","tag_type":"geographic","tag_value":"Trade Winds Island"}`)

	rr := do(mux, http.MethodGet, "/api/tags/search?q=trade&tag_type=topic", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res tag.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "trade", res.Query)
	assert.Equal(t, 2, res.TotalResults)
	require.Len(t, res.Tags, 2)
	assert.Equal(t, "trade war", res.Tags[0].TagValue)

	rr = do(mux, http.MethodGet, "/api/tags/search?q=trade&tag_type=mood", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatsHandler(t *testing.T) {
	mux := setup(t)

	rr := do(mux, http.MethodGet, "/api/tags/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total_tags":0,"manual_tags":0,"automatic_tags":0,"tags_by_type":{},"popular_tags":[]}`, rr.Body.String())

	create(t, mux, `{"data_entry_id":"e1","tag_type":"topic","tag_value":"trade","is_manual":true}`)
	create(t, mux, `{"data_entry_id":"e2","tag_type":"topic","tag_value":"trade"}`)
	create(t, mux, `{"data_entry_id":"e2","tag_type":"geographic","tag_value":"Chile"}`)

	rr = do(mux, http.MethodGet, "/api/tags/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var st tag.StatsDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.EqualValues(t, 3, st.TotalTags)
	assert.EqualValues(t, 1, st.ManualTags)
	assert.EqualValues(t, 2, st.AutomaticTags)
	assert.Equal(t, map[string]int64{"topic": 2, "geographic": 1}, st.TagsByType)
	require.NotEmpty(t, st.PopularTags)
	assert.Equal(t, tag.PopularTag{Value: "trade", Type: "topic", Count: 2}, st.PopularTags[0])
}
