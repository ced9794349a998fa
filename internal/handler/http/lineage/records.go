package lineage

import (
	"log/slog"
	"net/http"

	"geodata/internal/common/pagination"
	"geodata/internal/domain/entity"
	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	"geodata/internal/observability/logging"
	lineageUC "geodata/internal/usecase/lineage"
)

type ListHandler struct {
	Svc           *lineageUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP 系譜レコード一覧取得
// @Summary      系譜レコード一覧取得
// @Description  系譜レコードを新しい順に取得します。データエントリや検証状態で絞り込めます。
// @Tags         lineage
// @Produce      json
// @Param        data_entry_id     query string false "データエントリID"
// @Param        validation_status query string false "検証状態" Enums(pending, validated, failed)
// @Param        limit             query int    false "取得件数" default(50)
// @Param        offset            query int    false "開始位置" default(0)
// @Success      200 {object} ListResponse "系譜レコード一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()

	list, total, err := h.Svc.List(ctx, lineageUC.ListFilter{
		DataEntryID:      request.String(q, "data_entry_id"),
		ValidationStatus: request.String(q, "validation_status"),
		Offset:           params.Offset,
		Limit:            params.Limit,
	})
	if err != nil {
		code := errorStatus(err)
		if code >= http.StatusInternalServerError {
			logging.WithRequestID(ctx, h.Logger).Error("failed to list lineage", slog.Any("error", err))
		}
		respond.SafeError(w, code, err)
		return
	}
	pagination.RecordRequest("lineage", params)

	respond.JSON(w, http.StatusOK, ListResponse{
		Records:  newRecordDTOs(list),
		Metadata: pagination.NewMetadata(params, total),
	})
}

type createRequest struct {
	DataEntryID      string                   `json:"data_entry_id"`
	SourceChain      []entity.SourceChainStep `json:"source_chain"`
	QualityMetrics   map[string]*float64      `json:"quality_metrics"`
	ValidationStatus string                   `json:"validation_status"`
}

type CreateHandler struct{ Svc *lineageUC.Service }

// ServeHTTP 系譜レコード作成
// @Summary      系譜レコード作成
// @Description  データエントリの来歴と品質指標を記録します。source_chain は必須です（空配列は可）。
// @Tags         lineage
// @Accept       json
// @Produce      json
// @Param        record body createRequest true "系譜レコード"
// @Success      201 {object} RecordDTO "作成された系譜レコード"
// @Failure      400 {string} string "Bad request - missing or invalid fields"
// @Failure      404 {string} string "Not found - data entry not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	l, err := h.Svc.Create(r.Context(), lineageUC.CreateInput{
		DataEntryID:      req.DataEntryID,
		SourceChain:      req.SourceChain,
		QualityMetrics:   req.QualityMetrics,
		ValidationStatus: req.ValidationStatus,
	})
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusCreated, newRecordDTO(l))
}

type GetHandler struct{ Svc *lineageUC.Service }

// ServeHTTP 系譜レコード取得
// @Summary      系譜レコード取得
// @Description  指定されたIDの系譜レコードを取得します
// @Tags         lineage
// @Produce      json
// @Param        id path string true "系譜レコードID (UUID)"
// @Success      200 {object} RecordDTO "系譜レコード"
// @Failure      404 {string} string "Not found - lineage record not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	l, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, newRecordDTO(l))
}

type validateRequest struct {
	ValidationStatus string              `json:"validation_status"`
	QualityMetrics   map[string]*float64 `json:"quality_metrics"`
}

type ValidateHandler struct{ Svc *lineageUC.Service }

// ServeHTTP 系譜レコード検証
// @Summary      系譜レコード検証
// @Description  検証状態（既定は validated）と最終検証日時を更新します。指定された品質指標は既存の値にマージされます。本文は省略できます。
// @Tags         lineage
// @Accept       json
// @Produce      json
// @Param        id     path string          true  "系譜レコードID (UUID)"
// @Param        result body validateRequest false "検証結果"
// @Success      200 {object} RecordDTO "更新後の系譜レコード"
// @Failure      400 {string} string "Bad request - invalid status or metrics"
// @Failure      404 {string} string "Not found - lineage record not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/lineage/{id}/validate [post]
func (h ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req validateRequest
	if err := request.DecodeOptionalJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	l, err := h.Svc.Validate(r.Context(), lineageUC.ValidateInput{
		ID:               id,
		ValidationStatus: req.ValidationStatus,
		QualityMetrics:   req.QualityMetrics,
	})
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, newRecordDTO(l))
}
