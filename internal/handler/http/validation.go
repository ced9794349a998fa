package http

import (
	"mime"
	"net/http"

	"geodata/internal/handler/http/respond"
)

// Request limits enforced by InputValidation.
const (
	MaxPathLength  = 2048
	MaxQueryLength = 4096
	MaxBodyBytes   = 10 << 20
)

// InputValidation returns middleware that rejects oversized URLs and
// non-JSON request bodies and caps the body size. It enforces:
//   - URI path length (2KB) and query length (4KB): 414
//   - JSON content type for requests with a body: 415
//   - request body size (10MB)
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > MaxPathLength || len(r.URL.RawQuery) > MaxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
				return
			}

			if hasBody(r) && !isJSON(r.Header.Get("Content-Type")) {
				respond.JSON(w, http.StatusUnsupportedMediaType,
					map[string]string{"error": "content type must be application/json"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
