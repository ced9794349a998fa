package source

import (
	"net/http"

	"geodata/internal/handler/http/respond"
	srcUC "geodata/internal/usecase/source"
)

type TypesHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース種別一覧
// @Summary      ソース種別一覧
// @Description  登録可能なソース種別を返します
// @Tags         sources
// @Produce      json
// @Success      200 {array} string "ソース種別"
// @Router       /api/sources/types [get]
func (h TypesHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.Svc.Types())
}

type StatsHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース統計
// @Summary      ソース統計
// @Description  ソース数、検証済みソース数、平均信頼度、種別ごとの件数を返します
// @Tags         sources
// @Produce      json
// @Success      200 {object} StatsDTO "ソース統計"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/sources/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, StatsDTO{
		TotalSources:       st.TotalSources,
		VerifiedSources:    st.VerifiedSources,
		AverageReliability: st.AverageReliability,
		SourcesByType:      st.SourcesByType,
	})
}
