package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/roomstay/bookings/internal/domain"
	"github.com/roomstay/bookings/pkg/logger"
)

// ErrorResponse is the JSON shape of every non-2xx reply.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Code   string         `json:"code,omitempty"`
	Issues []domain.Issue `json:"issues,omitempty"`
}

const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// Error renders a service error. Validation issues pass through
// verbatim; everything else gets a generic message, with full detail
// logged server-side only.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	e, ok := domain.AsError(err)
	if !ok {
		logger.ErrorContext(ctx, "Unclassified error", "error", err)
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternalError})
		return
	}

	switch e.Kind {
	case domain.KindValidation:
		JSON(w, http.StatusBadRequest, ErrorResponse{Error: e.Message, Code: CodeInvalidInput, Issues: e.Issues})
	case domain.KindConflict:
		JSON(w, http.StatusConflict, ErrorResponse{Error: e.Message, Code: CodeConflict})
	case domain.KindNotFound:
		JSON(w, http.StatusNotFound, ErrorResponse{Error: e.Message, Code: CodeNotFound})
	case domain.KindUnavailable:
		logger.ErrorContext(ctx, "Upstream unavailable", "error", e.Error())
		JSON(w, http.StatusBadGateway, ErrorResponse{Error: "upstream service unavailable", Code: CodeUpstreamUnavailable})
	default:
		logger.ErrorContext(ctx, "Internal error", "error", e.Error())
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternalError})
	}
}
