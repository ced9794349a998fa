package source

import (
	"net/http"

	"geodata/internal/handler/http/request"
	"geodata/internal/handler/http/respond"
	srcUC "geodata/internal/usecase/source"
)

type createRequest struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	URL                string   `json:"url"`
	FeedURL            string   `json:"feed_url"`
	ReliabilityScore   *float64 `json:"reliability_score"`
	BiasRating         string   `json:"bias_rating"`
	UpdateFrequency    string   `json:"update_frequency"`
	Language           string   `json:"language"`
	CountryFocus       []string `json:"country_focus"`
	TopicCoverage      []string `json:"topic_coverage"`
	APIAvailable       bool     `json:"api_available"`
	VerificationStatus string   `json:"verification_status"`
}

type CreateHandler struct{ Svc *srcUC.Service }

// ServeHTTP ソース作成
// @Summary      ソース作成
// @Description  データソースを登録します。IDは呼び出し側が指定し、信頼度の既定値は5.0、言語は en、検証状態は pending です。
// @Tags         sources
// @Accept       json
// @Produce      json
// @Param        source body createRequest true "登録するソース"
// @Success      201 {object} DTO "作成されたソース"
// @Failure      400 {string} string "Bad request - missing or invalid fields"
// @Failure      409 {string} string "Conflict - source with this ID already exists"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /api/sources [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	src, err := h.Svc.Create(r.Context(), srcUC.CreateInput{
		ID:                 req.ID,
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
	respond.JSON(w, http.StatusCreated, NewDTO(src))
}
