package source

import (
	"net/http"

	"geodata/internal/handler/http/pathutil"
	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	srcUC "geodata/internal/usecase/source"
)

// updateRequest carries a partial update; absent fields stay unchanged.
type updateRequest struct {
	Name               *string  `json:"name"`
	Type               *string  `json:"type"`
	URL                *string  `json:"url"`
	FeedURL            *string  `json:"feed_url"`
	ReliabilityScore   *float64 `json:"reliability_score"`
	BiasRating         *string  `json:"bias_rating"`
	UpdateFrequency    *string  `json:"update_frequency"`
	Language           *string  `json:"language"`
	CountryFocus       []string `json:"country_focus"`
	TopicCoverage      []string `json:"topic_coverage"`
	APIAvailable       *bool    `json:"api_available"`
	VerificationStatus *string  `json:"verification_status"`
}

type UpdateHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース更新
// @Summary      ソース更新
// @Description  既存のソースを部分更新します。指定されなかった項目は変更されません。
// @Tags         sources
// @Accept       json
// @Produce      json
// @Param        id path string true "ソースID"
// @Param        source body updateRequest true "更新するソース情報"
// @Success      200 {object} DTO "更新後のソース"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      404 {string} string "Not found - source not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/sources/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathValue(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req updateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	src, err := h.Svc.Update(r.Context(), srcUC.UpdateInput{
		ID:                 id,
		Name:               req.Name,
		Type:               req.Type,
		URL:                req.URL,
		FeedURL:            req.FeedURL,
		ReliabilityScore:   req.ReliabilityScore,
		BiasRating:         req.BiasRating,
		UpdateFrequency:    req.UpdateFrequency,
		Language:           req.Language,
		CountryFocus:       req.CountryFocus,
		TopicCoverage:      req.TopicCoverage,
		APIAvailable:       req.APIAvailable,
		VerificationStatus: req.VerificationStatus,
	})
	if err != nil {
		respond.SafeError(w, errorStatus(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(src))
}
