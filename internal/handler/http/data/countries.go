package data

import (
	"log/slog"
	"net/http"

	"geodata/internal/common/pagination"
	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	"geodata/internal/observability/logging"
	"geodata/internal/repository"
	countryUC "geodata/internal/usecase/country"
)

type ListCountriesHandler struct {
	Svc           *countryUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP 国プロファイル一覧取得
// @Summary      国プロファイル一覧取得
// @Description  国プロファイルを名前順に取得します。地域で絞り込めます。
// @Tags         data
// @Produce      json
// @Param        region query string false "地域"
// @Param        limit  query int    false "取得件数" default(50)
// @Param        offset query int    false "開始位置" default(0)
// @Success      200 {object} CountryList "国プロファイル一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/countries [get]
func (h ListCountriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	filter := repository.CountryFilter{
		Region: request.String(r.URL.Query(), "region"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}
	list, total, err := h.Svc.List(ctx, filter)
	if err != nil {
		logging.WithRequestID(ctx, h.Logger).Error("failed to list countries", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	pagination.RecordRequest("countries", params)

	out := CountryList{Countries: make([]CountryDTO, 0, len(list)), Metadata: pagination.NewMetadata(params, total)}
	for _, c := range list {
		out.Countries = append(out.Countries, NewCountryDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}

type UpsertCountryHandler struct{ Svc *countryUC.Service }

// ServeHTTP 国プロファイル登録・更新
// @Summary      国プロファイル登録・更新
// @Description  国コードをキーに国プロファイルを登録します。既に存在する場合は内容を置き換えます。
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        country body CountryDTO true "国プロファイル"
// @Success      200 {object} CountryDTO "更新された国プロファイル"
// @Success      201 {object} CountryDTO "登録された国プロファイル"
// @Failure      400 {string} string "Bad request - missing or invalid fields"
// @Failure      404 {string} string "Not found - data source not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/countries [post]
func (h UpsertCountryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CountryDTO
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := req.entity()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.Svc.Upsert(r.Context(), c)
	if err != nil {
		respond.SafeError(w, errorStatus(err, countryUC.ErrSourceNotFound), err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	respond.JSON(w, code, NewCountryDTO(c))
}

type GetCountryHandler struct{ Svc *countryUC.Service }

// ServeHTTP 国プロファイル取得
// @Summary      国プロファイル取得
// @Description  国コードを指定して国プロファイルを取得します（大文字小文字は区別しません）
// @Tags         data
// @Produce      json
// @Param        code path string true "国コード"
// @Success      200 {object} CountryDTO "国プロファイル"
// @Failure      400 {string} string "Bad request - invalid code"
// @Failure      404 {string} string "Not found - country not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/data/countries/{code} [get]
func (h GetCountryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code, err := pathutil.PathValue(r, "code")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), code)
	if err != nil {
		respond.SafeError(w, errorStatus(err, countryUC.ErrCountryNotFound), err)
		return
	}
	respond.JSON(w, http.StatusOK, NewCountryDTO(c))
}
