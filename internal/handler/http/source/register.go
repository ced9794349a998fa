package source

import (
	"net/http"

	srcUC "geodata/internal/usecase/source"
)

// Register registers the source registry routes with mux.
// The fixed /types and /stats paths take precedence over /{id}.
func Register(mux *http.ServeMux, svc *srcUC.Service) {
	mux.Handle("GET    /api/sources", ListHandler{svc})
	mux.Handle("POST   /api/sources", CreateHandler{svc})
	mux.Handle("GET    /api/sources/types", TypesHandler{svc})
	mux.Handle("GET    /api/sources/stats", StatsHandler{svc})
	mux.Handle("GET    /api/sources/{id}", GetHandler{svc})
	mux.Handle("PUT    /api/sources/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /api/sources/{id}", DeleteHandler{svc})
}
