package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/version"
)

const maxBodyBytes = 64 << 10

type reviewer interface {
	Review(ctx context.Context, req models.ReviewRequest) (models.ReviewResult, error)
}

type Handler struct {
	reviewer       reviewer
	trans          *i18n.Translations
	requestTimeout time.Duration
}

func NewHandler(r reviewer, trans *i18n.Translations, requestTimeout time.Duration) *Handler {
	return &Handler{
		reviewer:       r,
		trans:          trans,
		requestTimeout: requestTimeout,
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok", Version: version.FullVersion()})
}

func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	var req models.ReviewRequest
	if err := readJSON(w, r, &req); err != nil {
		logger.Warn(ctx, "rejecting malformed request body", "error", err)
		writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Detail: h.trans.GetMessage("detail_invalid_request", 0, map[string]interface{}{
				"Reason": "request body must be a JSON object",
			}),
		})
		return
	}

	result, err := h.reviewer.Review(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	resp := h.classify(err)

	if resp.status >= http.StatusInternalServerError {
		logger.Error(ctx, "review failed", err, "status", resp.status)
	} else {
		logger.Info(ctx, "review rejected", "status", resp.status, "error", err)
	}

	if resp.retryAfter != "" {
		w.Header().Set("Retry-After", resp.retryAfter)
	}
	writeJSON(ctx, w, resp.status, errorResponse{Detail: resp.detail})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "error encoding response", err)
	}
}

// readJSON decodes exactly one JSON object from the body.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body has trailing data")
	}
	return nil
}
