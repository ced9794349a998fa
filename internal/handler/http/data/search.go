package data

import (
	"net/http"

	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	searchUC "geodata/internal/usecase/search"
)

type SearchHandler struct{ Svc *searchUC.Service }

// ServeHTTP データ横断検索
// @Summary      データ横断検索
// @Description  データエントリ（タイトル・本文）と国プロファイル（名称・正式名称・首都）を部分一致で検索します。エントリが先に並びます。
// @Tags         data
// @Produce      json
// @Param        q     query string true  "検索文字列"
// @Param        type  query string false "検索対象" Enums(entries, countries)
// @Param        limit query int    false "最大件数" default(20)
// @Success      200 {object} SearchResponse "検索結果"
// @Failure      400 {string} string "Bad request - missing query or invalid type"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/search [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := request.String(q, "q")
	if text == "" {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter q is required"})
		return
	}
	limit, err := request.Int(q, "limit", searchUC.DefaultLimit)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Svc.Search(r.Context(), text, request.String(q, "type"), limit)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}

	out := SearchResponse{Results: make([]SearchHit, 0, len(res.Results)), Query: res.Query, TotalResults: res.Total}
	for _, hit := range res.Results {
		switch {
		case hit.Entry != nil:
			out.Results = append(out.Results, SearchHit{Type: hit.Type, Data: NewEntryDTO(hit.Entry)})
		case hit.Country != nil:
			out.Results = append(out.Results, SearchHit{Type: hit.Type, Data: NewCountryDTO(hit.Country)})
		}
	}
	respond.JSON(w, http.StatusOK, out)
}
