package lineage

import (
	"log/slog"
	"net/http"

	"geodata/internal/common/pagination"
	lineageUC "geodata/internal/usecase/lineage"
)

// Register registers the lineage routes with mux.
func Register(mux *http.ServeMux, svc *lineageUC.Service, cfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /api/lineage", ListHandler{Svc: svc, PaginationCfg: cfg, Logger: logger})
	mux.Handle("POST   /api/lineage", CreateHandler{svc})
	mux.Handle("GET    /api/lineage/quality-report", QualityReportHandler{svc})
	mux.Handle("GET    /api/lineage/stats", StatsHandler{svc})
	mux.Handle("GET    /api/lineage/trace/{entry_id}", TraceHandler{svc})
	mux.Handle("GET    /api/lineage/{id}", GetHandler{svc})
	mux.Handle("POST   /api/lineage/{id}/validate", ValidateHandler{svc})
}
