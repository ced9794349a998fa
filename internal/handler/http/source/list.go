package source

import (
	"net/http"

	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	"geodata/internal/repository"
	srcUC "geodata/internal/usecase/source"
)

type ListHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース一覧取得
// @Summary      ソース一覧取得
// @Description  登録されているデータソースを名前順に取得します。種別・検証状態・最低信頼度で絞り込めます。
// @Tags         sources
// @Produce      json
// @Param        type                query string false "ソース種別" Enums(government, media, international_org, academic, commercial)
// @Param        verification_status query string false "検証状態" Enums(pending, verified, flagged)
// @Param        min_reliability     query number false "最低信頼度 (0-10)"
// @Success      200 {array}  DTO "ソース一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/sources [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minReliability, err := request.OptionalFloat(q, "min_reliability")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	list, err := h.Svc.List(r.Context(), repository.SourceFilter{
		Type:               request.String(q, "type"),
		VerificationStatus: request.String(q, "verification_status"),
		MinReliability:     minReliability,
	})
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]*DTO, 0, len(list))
	for _, s := range list {
		out = append(out, NewDTO(s))
	}
	respond.JSON(w, http.StatusOK, out)
}
