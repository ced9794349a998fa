package tag

import (
	"log/slog"
	"net/http"

	"geodata/internal/common/pagination"
	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	"geodata/internal/observability/logging"
	"geodata/internal/repository"
	tagUC "geodata/internal/usecase/tag"
)

type ListHandler struct {
	Svc           *tagUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP タグ一覧取得
// @Summary      タグ一覧取得
// @Description  タグを新しい順に取得します。エントリ・種別・カテゴリ・手動付与かどうかで絞り込めます。
// @Tags         tags
// @Produce      json
// @Param        data_entry_id query string false "データエントリID"
// @Param        tag_type      query string false "タグ種別" Enums(geographic, temporal, topic, event, entity)
// @Param        tag_category  query string false "タグカテゴリ"
// @Param        is_manual     query bool   false "手動付与のみ/自動付与のみ"
// @Param        limit         query int    false "取得件数" default(50)
// @Param        offset        query int    false "開始位置" default(0)
// @Success      200 {object} ListResponse "タグ一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	isManual, err := request.OptionalBool(q, "is_manual")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	list, total, err := h.Svc.List(ctx, repository.TagFilter{
		DataEntryID: request.String(q, "data_entry_id"),
		TagType:     request.String(q, "tag_type"),
		TagCategory: request.String(q, "tag_category"),
		IsManual:    isManual,
		Offset:      params.Offset,
		Limit:       params.Limit,
	})
	if err != nil {
		logging.WithRequestID(ctx, h.Logger).Error("failed to list tags", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	pagination.RecordRequest("tags", params)

	respond.JSON(w, http.StatusOK, ListResponse{Tags: newDTOs(list), Metadata: pagination.NewMetadata(params, total)})
}

type createRequest struct {
	DataEntryID     string   `json:"data_entry_id"`
	TagType         string   `json:"tag_type"`
	TagCategory     string   `json:"tag_category"`
	TagValue        string   `json:"tag_value"`
	ConfidenceScore *float64 `json:"confidence_score"`
	IsManual        bool     `json:"is_manual"`
	CreatedBy       string   `json:"created_by"`
}

func (req createRequest) input() tagUC.CreateInput {
	return tagUC.CreateInput{
		DataEntryID:     req.DataEntryID,
		TagType:         req.TagType,
		TagCategory:     req.TagCategory,
		TagValue:        req.TagValue,
		ConfidenceScore: req.ConfidenceScore,
		IsManual:        req.IsManual,
		CreatedBy:       req.CreatedBy,
	}
}

type CreateHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ作成
// @Summary      タグ作成
// @Description  データエントリにタグを付与します。信頼度の既定値は1.0、作成者の既定値は system です。
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        tag body createRequest true "タグ"
// @Success      201 {object} DTO "作成されたタグ"
// @Failure      400 {string} string "Bad request - missing or invalid fields"
// @Failure      404 {string} string "Not found - data entry not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := h.Svc.Create(r.Context(), req.input())
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusCreated, newDTO(t))
}

type BulkCreateHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ一括作成
// @Summary      タグ一括作成
// @Description  複数のタグを一括で作成します。1件でも不正なタグや存在しないエントリがあれば、どのタグも作成されません。
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        tags body object true "{\"tags\": [...]}"
// @Success      201 {object} BulkResponse "作成されたタグ"
// @Failure      400 {string} string "Bad request - no tags or invalid tag"
// @Failure      404 {string} string "Not found - data entry not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags/bulk [post]
func (h BulkCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags []createRequest `json:"tags"`
	}
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	in := make([]tagUC.CreateInput, 0, len(req.Tags))
	for _, t := range req.Tags {
		in = append(in, t.input())
	}

	tags, err := h.Svc.CreateBulk(r.Context(), in)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusCreated, BulkResponse{CreatedTags: newDTOs(tags), Count: len(tags)})
}

type GetHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ取得
// @Summary      タグ取得
// @Description  指定されたIDのタグを取得します
// @Tags         tags
// @Produce      json
// @Param        id path int true "タグID"
// @Success      200 {object} DTO "タグ"
// @Failure      400 {string} string "Bad request - invalid tag ID"
// @Failure      404 {string} string "Not found - tag not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, newDTO(t))
}

type updateRequest struct {
	TagType         *string  `json:"tag_type"`
	TagCategory     *string  `json:"tag_category"`
	TagValue        *string  `json:"tag_value"`
	ConfidenceScore *float64 `json:"confidence_score"`
	IsManual        *bool    `json:"is_manual"`
}

type UpdateHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ更新
// @Summary      タグ更新
// @Description  タグを部分更新します。エントリ・作成者・作成日時は変更できません。
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id  path int           true "タグID"
// @Param        tag body updateRequest true "更新内容"
// @Success      200 {object} DTO "更新後のタグ"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      404 {string} string "Not found - tag not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req updateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	t, err := h.Svc.Update(r.Context(), tagUC.UpdateInput{
		ID:              id,
		TagType:         req.TagType,
		TagCategory:     req.TagCategory,
		TagValue:        req.TagValue,
		ConfidenceScore: req.ConfidenceScore,
		IsManual:        req.IsManual,
	})
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, newDTO(t))
}

type DeleteHandler struct{ Svc *tagUC.Service }

// ServeHTTP タグ削除
// @Summary      タグ削除
// @Description  指定されたIDのタグを削除します
// @Tags         tags
// @Produce      json
// @Param        id path int true "タグID"
// @Success      200 {object} map[string]string "削除完了メッセージ"
// @Failure      400 {string} string "Bad request - invalid tag ID"
// @Failure      404 {string} string "Not found - tag not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/tags/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Tag deleted successfully"})
}
