package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
)

// AttributionHandler handles HTTP requests for customer source tracking.
type AttributionHandler struct {
	service *service.AttributionService
	logger  *slog.Logger
}

// NewAttributionHandler creates a new attribution HTTP handler.
func NewAttributionHandler(svc *service.AttributionService, logger *slog.Logger) *AttributionHandler {
	return &AttributionHandler{
		service: svc,
		logger:  logger,
	}
}

// SourceResponse carries the resolved customer source for the session.
type SourceResponse struct {
	CustomerSource string `json:"customer_source"`
}

// Resolve handles POST /api/v1/attribution/resolve?utm_source=...
// The storefront calls this once per page load with whatever utm_source the
// landing URL carried, possibly empty.
func (h *AttributionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())
	rawUTM := r.URL.Query().Get("utm_source")

	source := h.service.Resolve(r.Context(), sessionID, rawUTM)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SourceResponse{
		CustomerSource: source.String(),
	}})
}

// Get handles GET /api/v1/attribution. Read-only: it never triggers detection.
func (h *AttributionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	source := h.service.CustomerSource(r.Context(), sessionID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SourceResponse{
		CustomerSource: source.String(),
	}})
}

// Clear handles DELETE /api/v1/attribution
func (h *AttributionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	h.service.Clear(r.Context(), sessionID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
