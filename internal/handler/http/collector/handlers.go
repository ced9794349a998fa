package collector

import (
	"errors"
	"net/http"

	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	collectUC "geodata/internal/usecase/collect"
)

type ListHandler struct{ Registry *collectUC.Registry }

// ServeHTTP コレクター一覧
// @Summary      コレクター一覧
// @Description  登録されているデータコレクターと、それぞれの実行状態・直近の実行結果を返します
// @Tags         collectors
// @Produce      json
// @Success      200 {object} ListResponse "コレクター一覧"
// @Router       /api/collectors [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	infos := h.Registry.List()
	out := ListResponse{Collectors: make([]InfoDTO, 0, len(infos)), Total: len(infos)}
	for _, info := range infos {
		out.Collectors = append(out.Collectors, InfoDTO{
			Name:        info.Name,
			Description: info.Description,
			Running:     info.Running,
			LastRun:     newRunDTO(info.LastRun),
		})
	}
	respond.JSON(w, http.StatusOK, out)
}

type runRequest struct {
	SourceID string `json:"source_id"`
	URL      string `json:"url"`
}

type RunHandler struct{ Registry *collectUC.Registry }

// ServeHTTP コレクター実行
// @Summary      コレクター実行
// @Description  指定されたコレクターを同期的に実行し、結果の概要を返します。web コレクターには source_id と url が必要です。同じコレクターの同時実行はできません。
// @Tags         collectors
// @Accept       json
// @Produce      json
// @Param        name    path string     true  "コレクター名" Enums(cia_factbook, rss, web)
// @Param        request body runRequest false "実行パラメータ"
// @Success      200 {object} RunDTO "実行結果"
// @Failure      400 {string} string "Bad request - invalid parameters"
// @Failure      404 {string} string "Not found - unknown collector"
// @Failure      409 {string} string "Conflict - collector is already running"
// @Failure      502 {object} RunDTO "実行失敗"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/collectors/{name}/run [post]
func (h RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, err := pathutil.PathValue(r, "name")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req runRequest
	if err := request.DecodeOptionalJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	run, err := h.Registry.Run(r.Context(), name, collectUC.Request{SourceID: req.SourceID, URL: req.URL})
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, newRunDTO(run))
	case errors.Is(err, collectUC.ErrCollectorNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	case errors.Is(err, collectUC.ErrCollectorBusy):
		respond.SafeError(w, http.StatusConflict, err)
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, collectUC.ErrInvalidURL):
		respond.SafeError(w, http.StatusBadRequest, err)
	case run != nil:
		respond.JSON(w, http.StatusBadGateway, newRunDTO(run))
	default:
		respond.SafeError(w, http.StatusInternalServerError,
			respond.Public(http.StatusInternalServerError, "failed to run collector", err))
	}
}

type StatsHandler struct{ Registry *collectUC.Registry }

// ServeHTTP コレクター統計
// @Summary      コレクター統計
// @Description  本日（ローカル時刻の0時以降）の実行回数・成功数・失敗数と、最後に成功した実行の時刻を返します
// @Tags         collectors
// @Produce      json
// @Success      200 {object} StatsDTO "コレクター統計"
// @Router       /api/collectors/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	st := h.Registry.Stats()
	running := 0
	for _, info := range h.Registry.List() {
		if info.Running {
			running++
		}
	}
	respond.JSON(w, http.StatusOK, StatsDTO{
		TotalCollectors:     st.TotalCollectors,
		RunningCollectors:   running,
		TotalRunsToday:      st.RunsToday,
		SuccessfulRunsToday: st.SuccessfulRuns,
		FailedRunsToday:     st.FailedRuns,
		LastSuccessfulRun:   st.LastSuccessfulRun,
	})
}

// Register registers the collector routes with mux.
func Register(mux *http.ServeMux, reg *collectUC.Registry) {
	mux.Handle("GET    /api/collectors", ListHandler{reg})
	mux.Handle("GET    /api/collectors/stats", StatsHandler{reg})
	mux.Handle("POST   /api/collectors/{name}/run", RunHandler{reg})
}
