package source

import (
	"net/http"

	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/respond"
	srcUC "geodata/internal/usecase/source"
)

type GetHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース取得
// @Summary      ソース取得
// @Description  指定されたIDのデータソースを取得します
// @Tags         sources
// @Produce      json
// @Param        id path string true "ソースID"
// @Success      200 {object} DTO "ソース"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/sources/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	src, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(src))
}
