package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// PreorderHandler handles HTTP requests for the single-item pre-order cart.
type PreorderHandler struct {
	service *service.PreorderService
	logger  *slog.Logger
}

// NewPreorderHandler creates a new pre-order HTTP handler.
func NewPreorderHandler(svc *service.PreorderService, logger *slog.Logger) *PreorderHandler {
	return &PreorderHandler{
		service: svc,
		logger:  logger,
	}
}

// PreorderResponse is the pre-order cart payload with derived totals. The
// checkout URL tells the storefront where to redirect after the item is set.
type PreorderResponse struct {
	SessionID      string           `json:"session_id"`
	Item           *domain.CartItem `json:"item"`
	ItemCount      int              `json:"item_count"`
	Subtotal       int64            `json:"subtotal"`
	DiscountAmount int64            `json:"discount_amount"`
	GrandTotal     int64            `json:"grand_total"`
	IsOpen         bool             `json:"is_open"`
	CheckoutURL    string           `json:"checkout_url,omitempty"`
}

// GetCart handles GET /api/v1/preorder
func (h *PreorderHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart, "")
}

// SetItem handles PUT /api/v1/preorder/item
func (h *PreorderHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.SetItem(r.Context(), sessionID, service.AddItemInput{
		ProductID:     req.ProductID,
		VariantID:     req.VariantID,
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		MaxStock:      req.MaxStock,
		Currency:      req.Currency,
		ImageURL:      req.ImageURL,
		VariantValues: req.VariantValues,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart, h.service.CheckoutURL())
}

// UpdateQuantity handles PUT /api/v1/preorder/item/quantity
func (h *PreorderHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), sessionID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart, "")
}

// Clear handles DELETE /api/v1/preorder
func (h *PreorderHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// SetDiscount handles PUT /api/v1/preorder/discount
func (h *PreorderHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req SetDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	cart, err := h.service.SetDiscount(r.Context(), sessionID, req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart, "")
}

// SetVisibility handles PUT /api/v1/preorder/visibility
func (h *PreorderHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	var req SetVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if req.Open != nil {
		cart, err := h.service.SetOpen(r.Context(), sessionID, *req.Open)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		h.writeCart(w, cart, "")
		return
	}

	cart, err := h.service.ToggleOpen(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, cart, "")
}

func (h *PreorderHandler) writeCart(w http.ResponseWriter, cart *domain.PreorderCart, checkoutURL string) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: PreorderResponse{
		SessionID:      cart.SessionID,
		Item:           cart.Item,
		ItemCount:      cart.ItemCount(),
		Subtotal:       cart.Subtotal(),
		DiscountAmount: cart.DiscountAmount,
		GrandTotal:     cart.GrandTotal(),
		IsOpen:         cart.IsOpen,
		CheckoutURL:    checkoutURL,
	}})
}
