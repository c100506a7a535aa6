package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for the regular cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID     string   `json:"product_id" validate:"required"`
	VariantID     string   `json:"variant_id"`
	Name          string   `json:"name" validate:"required,min=1,max=500"`
	UnitPrice     int64    `json:"unit_price" validate:"gte=0"`
	Quantity      int      `json:"quantity" validate:"required,gte=1"`
	MaxStock      int      `json:"max_stock" validate:"gte=0"`
	Currency      string   `json:"currency"`
	ImageURL      string   `json:"image_url"`
	VariantValues []string `json:"variant_values"`
}

// UpdateQuantityRequest is the JSON request body for updating a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// SetDiscountRequest is the JSON request body for setting the discount amount.
type SetDiscountRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

// SetVisibilityRequest is the JSON request body for the cart drawer flag.
// A nil Open toggles the current state.
type SetVisibilityRequest struct {
	Open *bool `json:"open"`
}

// CartResponse is the cart payload with derived totals included.
type CartResponse struct {
	SessionID      string            `json:"session_id"`
	Items          []domain.CartItem `json:"items"`
	ItemCount      int               `json:"item_count"`
	Subtotal       int64             `json:"subtotal"`
	DiscountAmount int64             `json:"discount_amount"`
	GrandTotal     int64             `json:"grand_total"`
	IsOpen         bool              `json:"is_open"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
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

	cart, err := h.service.AddItem(r.Context(), sessionID, service.AddItemInput{
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

	h.writeCart(w, cart)
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId} and
// PUT /api/v1/cart/items/{productId}/{variantId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	variantID := chi.URLParam(r, "variantId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

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

	cart, err := h.service.UpdateItemQuantity(r.Context(), sessionID, productID, variantID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId} and
// DELETE /api/v1/cart/items/{productId}/{variantId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	variantID := chi.URLParam(r, "variantId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productId is required"},
		})
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), sessionID, productID, variantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeCart(w, cart)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// SetDiscount handles PUT /api/v1/cart/discount
func (h *CartHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
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

	h.writeCart(w, cart)
}

// SetVisibility handles PUT /api/v1/cart/visibility
func (h *CartHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
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
		h.writeCart(w, cart)
		return
	}

	cart, err := h.service.ToggleOpen(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, cart)
}

// writeCart writes the standard cart response with derived totals.
func (h *CartHandler) writeCart(w http.ResponseWriter, cart *domain.Cart) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{
		SessionID:      cart.SessionID,
		Items:          cart.Items,
		ItemCount:      cart.ItemCount(),
		Subtotal:       cart.Subtotal(),
		DiscountAmount: cart.DiscountAmount,
		GrandTotal:     cart.GrandTotal(),
		IsOpen:         cart.IsOpen,
	}})
}
