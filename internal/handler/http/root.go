package http

import (
	"net/http"

	"geodata/internal/handler/http/respond"
)

// RootResponse is the API banner.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// RootHandler answers GET /api/ with the service banner.
type RootHandler struct {
	Version string
}

// ServeHTTP writes the banner.
//
// @Summary      API 情報
// @Description  サービス名とバージョンを返します
// @Tags         platform
// @Produce      json
// @Success      200 {object} RootResponse
// @Router       /api/ [get]
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, RootResponse{
		Message: "Geo-Political Data Platform API",
		Version: h.Version,
		Status:  "running",
	})
}
