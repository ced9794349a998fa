package tag

import (
	"net/http"

	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	tagUC "geodata/internal/usecase/tag"
)

type TypesHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ種別一覧
// @Summary      タグ種別一覧
// @Description  タグ種別ごとの説明と推奨カテゴリを返します
// @Tags         tags
// @Produce      json
// @Success      200 {object} map[string]entity.TagTypeInfo "タグスキーマ"
// @Router       /api/tags/types [get]
func (h TypesHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.Svc.Types())
}

type SearchHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ検索
// @Summary      タグ検索
// @Description  タグの値を部分一致（大文字小文字を区別しない）で検索します。信頼度の高い順に並びます。
// @Tags         tags
// @Produce      json
// @Param        q        query string false "検索文字列"
// @Param        tag_type query string false "タグ種別" Enums(geographic, temporal, topic, event, entity)
// @Param        limit    query int    false "最大件数" default(50)
// @Success      200 {object} SearchResponse "検索結果"
// @Failure      400 {string} string "Bad request - invalid tag type or limit"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags/search [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := request.String(q, "q")
	limit, err := request.Int(q, "limit", tagUC.DefaultSearchLimit)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	tags, err := h.Svc.Search(r.Context(), text, request.String(q, "tag_type"), limit)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, SearchResponse{Tags: newDTOs(tags), Query: text, TotalResults: len(tags)})
}

type StatsHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ統計
// @Summary      タグ統計
// @Description  タグ総数、手動/自動の内訳、種別ごとの件数、よく使われる値の上位20件を返します
// @Tags         tags
// @Produce      json
// @Success      200 {object} StatsDTO "タグ統計"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	popular := make([]PopularTag, 0, len(st.PopularTags))
	for _, p := range st.PopularTags {
		popular = append(popular, PopularTag{Value: p.TagValue, Type: p.TagType, Count: p.Count})
	}
	byType := st.TagsByType
	if byType == nil {
		byType = map[string]int64{}
	}
	respond.JSON(w, http.StatusOK, StatsDTO{
		TotalTags:     st.TotalTags,
		ManualTags:    st.ManualTags,
		AutomaticTags: st.AutomaticTags,
		TagsByType:    byType,
		PopularTags:   popular,
	})
}
