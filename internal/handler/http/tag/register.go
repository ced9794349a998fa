package tag

import (
	"log/slog"
	"net/http"

	"geodata/internal/common/pagination"
	tagUC "geodata/internal/usecase/tag"
)

// Register registers the tag routes with mux.
func Register(mux *http.ServeMux, svc *tagUC.Service, cfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /api/tags", ListHandler{Svc: svc, PaginationCfg: cfg, Logger: logger})
	mux.Handle("POST   /api/tags", CreateHandler{svc})
	mux.Handle("POST   /api/tags/bulk", BulkCreateHandler{svc})
	mux.Handle("GET    /api/tags/types", TypesHandler{svc})
	mux.Handle("GET    /api/tags/search", SearchHandler{svc})
	mux.Handle("GET    /api/tags/stats", StatsHandler{svc})
	mux.Handle("GET    /api/tags/{id}", GetHandler{svc})
	mux.Handle("PUT    /api/tags/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /api/tags/{id}", DeleteHandler{svc})
}
