package source

import (
	"net/http"

	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/respond"
	srcUC "geodata/internal/usecase/source"
)

type DeleteHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース削除
// @Summary      ソース削除
// @Description  データソースを削除します。エントリや国プロファイルから参照されている場合は削除できません。
// @Tags         sources
// @Produce      json
// @Param        id path string true "ソースID"
// @Success      200 {object} map[string]string "削除完了メッセージ"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      409 {string} string "Conflict - source is still referenced"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/sources/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Source deleted successfully"})
}
