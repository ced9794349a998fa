package data

import (
	"log/slog"
	"net/http"
	"time"

	"geodata/internal/common/pagination"
	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	"geodata/internal/observability/logging"
	"geodata/internal/repository"
	entryUC "geodata/internal/usecase/entry"
)

type ListEntriesHandler struct {
	Svc           *entryUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP データエントリ一覧取得
// @Summary      データエントリ一覧取得
// @Description  収集済みのデータエントリを新しい順に取得します。ソース・種別・処理状態で絞り込めます。
// @Tags         data
// @Produce      json
// @Param        source_id     query string false "ソースID"
// @Param        content_type  query string false "コンテンツ種別" Enums(article, profile, report, statistic)
// @Param        processed     query bool   false "処理済みかどうか"
// @Param        limit         query int    false "取得件数" default(50)
// @Param        offset        query int    false "開始位置" default(0)
// @Success      200 {object} EntryList "データエントリ一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/entries [get]
func (h ListEntriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	processed, err := request.OptionalBool(q, "processed")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	filter := repository.DataEntryFilter{
		SourceID:    request.String(q, "source_id"),
		ContentType: request.String(q, "content_type"),
		Processed:   processed,
		Offset:      params.Offset,
		Limit:       params.Limit,
	}
	list, total, err := h.Svc.List(ctx, filter)
	if err != nil {
		logger.Error("failed to list data entries", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	pagination.RecordRequest("data_entries", params)

	out := EntryList{Entries: make([]EntryDTO, 0, len(list)), Metadata: pagination.NewMetadata(params, total)}
	for _, e := range list {
		out.Entries = append(out.Entries, *NewEntryDTO(e))
	}
	respond.JSON(w, http.StatusOK, out)
}

type createEntryRequest struct {
	SourceID      string     `json:"source_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ContentType   string     `json:"content_type"`
	URL           string     `json:"url"`
	PublishedDate *time.Time `json:"published_date"`
}

type CreateEntryHandler struct{ Svc *entryUC.Service }

// ServeHTTP データエントリ登録
// @Summary      データエントリ登録
// @Description  既存ソースに紐づくデータエントリを登録します。コンテンツのハッシュはサーバー側で計算されます。
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        entry body createEntryRequest true "登録するエントリ"
// @Success      201 {object} EntryDTO "登録されたエントリ"
// @Failure      400 {string} string "Bad request - missing or invalid fields"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/entries [post]
func (h CreateEntryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	e, err := h.Svc.Create(r.Context(), entryUC.CreateInput{
		SourceID:      req.SourceID,
		Title:         req.Title,
		Content:       req.Content,
		ContentType:   req.ContentType,
		URL:           req.URL,
		PublishedDate: req.PublishedDate,
	})
	if err != nil {
		respond.SafeError(w, errorStatus(err, entryUC.ErrSourceNotFound), err)
		return
	}
	respond.JSON(w, http.StatusCreated, NewEntryDTO(e))
}

type GetEntryHandler struct{ Svc *entryUC.Service }

// ServeHTTP データエントリ取得
// @Summary      データエントリ取得
// @Description  指定されたIDのデータエントリを取得します
// @Tags         data
// @Produce      json
// @Param        id path string true "エントリID (UUID)"
// @Success      200 {object} EntryDTO "データエントリ"
// @Failure      400 {string} string "Bad request - invalid ID"
// @Failure      404 {string} string "Not found - data entry not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/entries/{id} [get]
func (h GetEntryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, errorStatus(err, entryUC.ErrDataEntryNotFound), err)
		return
	}
	respond.JSON(w, http.StatusOK, NewEntryDTO(e))
}

type ProcessEntryHandler struct{ Svc *entryUC.Service }

// ServeHTTP データエントリ処理済み化
// @Summary      データエントリを処理済みにする
// @Description  指定されたエントリを処理済みとしてマークします。繰り返し呼び出しても結果は変わりません。
// @Tags         data
// @Produce      json
// @Param        id path string true "エントリID (UUID)"
// @Success      200 {object} EntryDTO "更新後のデータエントリ"
// @Failure      400 {string} string "Bad request - invalid ID"
// @Failure      404 {string} string "Not found - data entry not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/entries/{id}/process [post]
func (h ProcessEntryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := h.Svc.MarkProcessed(r.Context(), id)
	if err != nil {
		respond.SafeError(w, errorStatus(err, entryUC.ErrDataEntryNotFound), err)
		return
	}
	respond.JSON(w, http.StatusOK, NewEntryDTO(e))
}
