package server

import (
	"net/http"

	"github.com/thomas-vilte/matereview/internal/server/middleware"
)

func NewMux(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /review", h.HandleReview)
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return middleware.CORS(middleware.RequestID(mux))
}
