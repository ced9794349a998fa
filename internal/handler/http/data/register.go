package data

import (
	"log/slog"
	"net/http"

	"geodata/internal/common/pagination"
	countryUC "geodata/internal/usecase/country"
	entryUC "geodata/internal/usecase/entry"
	searchUC "geodata/internal/usecase/search"
)

// Services groups the usecases behind /api/data.
type Services struct {
	Entries   *entryUC.Service
	Countries *countryUC.Service
	Search    *searchUC.Service
}

// Register registers the data entry, country and search routes with mux.
// The search route is wrapped by searchLimit when it is non-nil.
func Register(mux *http.ServeMux, svc Services, cfg pagination.Config, logger *slog.Logger, searchLimit func(http.Handler) http.Handler) {
	mux.Handle("GET    /api/data/entries", ListEntriesHandler{Svc: svc.Entries, PaginationCfg: cfg, Logger: logger})
	mux.Handle("POST   /api/data/entries", CreateEntryHandler{svc.Entries})
	mux.Handle("GET    /api/data/entries/{id}", GetEntryHandler{svc.Entries})
	mux.Handle("POST   /api/data/entries/{id}/process", ProcessEntryHandler{svc.Entries})

	mux.Handle("GET    /api/data/countries", ListCountriesHandler{Svc: svc.Countries, PaginationCfg: cfg, Logger: logger})
	mux.Handle("POST   /api/data/countries", UpsertCountryHandler{svc.Countries})
	mux.Handle("GET    /api/data/countries/{code}", GetCountryHandler{svc.Countries})

	var search http.Handler = SearchHandler{svc.Search}
	if searchLimit != nil {
		search = searchLimit(search)
	}
	mux.Handle("GET    /api/data/search", search)
}
