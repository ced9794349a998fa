package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/resilience/circuitbreaker"
)

func newPingMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func serveHealth(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return rec, response
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectHealthy  bool
	}{
		{
			name:           "healthy database",
			setupMock:      func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
			expectedStatus: http.StatusOK,
			expectHealthy:  true,
		},
		{
			name: "database connection error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(sql.ErrConnDone)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			tt.setupMock(mock)

			rec, response := serveHealth(t, &HealthHandler{DB: db, Version: "test-version"})

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectHealthy {
				assert.Equal(t, "healthy", response.Status)
			} else {
				assert.Equal(t, "unhealthy", response.Status)
				assert.Equal(t, "database unreachable", response.Checks["database"].Message)
			}
			assert.Equal(t, "test-version", response.Version)
			assert.NotEmpty(t, response.Timestamp)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_NoDatabaseConfigured(t *testing.T) {
	rec, response := serveHealth(t, &HealthHandler{Version: "test-version"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "not configured", response.Checks["database"].Message)
}

func TestHealthHandler_InMemoryStore(t *testing.T) {
	rec, response := serveHealth(t, &HealthHandler{InMemory: true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "in-memory store", response.Checks["database"].Message)
}

func TestHealthHandler_PoolStatus(t *testing.T) {
	tests := []struct {
		name            string
		maxOpen         int
		wantStatus      string
		wantUtilization bool
	}{
		{name: "unlimited pool is degraded", maxOpen: 0, wantStatus: "degraded"},
		{name: "configured pool", maxOpen: 10, wantStatus: "healthy", wantUtilization: true},
		{name: "single connection pool", maxOpen: 1, wantStatus: "healthy", wantUtilization: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			db.SetMaxOpenConns(tt.maxOpen)
			mock.ExpectPing()

			rec, response := serveHealth(t, &HealthHandler{DB: db})

			// degraded still counts as operational
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "healthy", response.Status)

			dbCheck := response.Checks["database"]
			assert.Equal(t, tt.wantStatus, dbCheck.Status)
			assert.Equal(t, float64(tt.maxOpen), dbCheck.Details["max_open_connections"])
			_, hasUtilization := dbCheck.Details["utilization_percent"]
			assert.Equal(t, tt.wantUtilization, hasUtilization)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_CircuitOpen(t *testing.T) {
	db, mock := newPingMock(t)
	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	guarded := circuitbreaker.NewDBCircuitBreakerWithConfig(db, circuitbreaker.Config{
		Name:             "database-test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      1,
	})
	h := &HealthHandler{DB: guarded}

	rec, _ := serveHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// second probe fails fast without touching the database
	rec, response := serveHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database circuit open", response.Checks["database"].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_CacheControl(t *testing.T) {
	rec, _ := serveHealth(t, &HealthHandler{InMemory: true})

	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "ready",
			setupMock:      func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
			expectedStatus: http.StatusOK,
			expectedBody:   "ready",
		},
		{
			name: "database not ready",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(sql.ErrConnDone)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			tt.setupMock(mock)

			rec := httptest.NewRecorder()
			(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReadyHandler_NoDatabaseConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database not configured")
}

func TestReadyHandler_InMemory(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ReadyHandler{InMemory: true}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}

func TestReadyHandler_Timeout(t *testing.T) {
	db, mock := newPingMock(t)
	// slower than the 2 second readiness timeout
	mock.ExpectPing().WillDelayFor(3 * time.Second)

	rec := httptest.NewRecorder()
	(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
