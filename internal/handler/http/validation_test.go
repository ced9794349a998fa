package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		contentType string
		wantStatus  int
		wantReached bool
	}{
		{
			name:        "json body passes",
			method:      http.MethodPost,
			target:      "/api/lineage",
			body:        `{"data_entry_id":"x"}`,
			contentType: "application/json",
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:        "json with charset passes",
			method:      http.MethodPut,
			target:      "/api/sources/bbc",
			body:        `{}`,
			contentType: "application/json; charset=utf-8",
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:        "GET without body passes",
			method:      http.MethodGet,
			target:      "/api/tags?limit=10",
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:        "POST without body passes",
			method:      http.MethodPost,
			target:      "/api/data/entries/abc/process",
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:        "form body rejected",
			method:      http.MethodPost,
			target:      "/api/tags",
			body:        "tag_value=x",
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:       "missing content type rejected",
			method:     http.MethodPost,
			target:     "/api/tags",
			body:       `{}`,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "path too long",
			method:     http.MethodGet,
			target:     "/" + strings.Repeat("a", MaxPathLength),
			wantStatus: http.StatusRequestURITooLong,
		},
		{
			name:        "path at limit",
			method:      http.MethodGet,
			target:      "/" + strings.Repeat("a", MaxPathLength-1),
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:       "query too long",
			method:     http.MethodGet,
			target:     "/api/data/search?q=" + strings.Repeat("q", MaxQueryLength),
			wantStatus: http.StatusRequestURITooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			}))

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != tt.wantReached {
				t.Errorf("handler reached = %v, want %v", reached, tt.wantReached)
			}
		})
	}
}

func TestInputValidation_BodySizeLimit(t *testing.T) {
	var readErr error
	handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := strings.Repeat("a", MaxBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/api/tags/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Error("expected error reading body larger than the limit")
	}
}
