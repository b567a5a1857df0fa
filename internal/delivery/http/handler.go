package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/cart"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/pricing"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/selection"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/service"
)

// SessionHeader carries the shopping session id.
const SessionHeader = "X-Session-ID"

// Handler handles HTTP requests for the application.
type Handler struct {
	catalogSvc *service.CatalogService
	cartSvc    *service.CartService
	orderSvc   *service.OrderService
	labels     Labels
	format     pricing.Formatter
}

func NewHandler(catalogSvc *service.CatalogService, cartSvc *service.CartService, orderSvc *service.OrderService, labels Labels, format pricing.Formatter) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		labels:     labels,
		format:     format,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.handleGetProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("POST /api/products/{id}/selection", h.handleEvaluateSelection)
	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart/lines", h.handleCommitSelection)
	mux.HandleFunc("DELETE /api/cart/lines/{lineID}", h.handleRemoveLine)
	mux.HandleFunc("POST /api/checkout", h.handleCheckout)
	mux.HandleFunc("GET /api/favorites", h.handleGetFavorites)
	mux.HandleFunc("POST /api/favorites/{productID}", h.handleToggleFavorite)
	mux.HandleFunc("PUT /api/admin/products/{id}", h.handleSaveProduct)
	mux.HandleFunc("GET /api/admin/orders", h.handleRecentOrders)
}

type priceResponse struct {
	pricing.PriceResult
	FinalDisplay    string `json:"final_display"`
	OriginalDisplay string `json:"original_display"`
}

func (h *Handler) price(res pricing.PriceResult) priceResponse {
	final, original := h.format.FormatResult(res)
	return priceResponse{PriceResult: res, FinalDisplay: final, OriginalDisplay: original}
}

type productResponse struct {
	entity.Product
	Pricing priceResponse `json:"pricing"`
}

func (h *Handler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalogSvc.GetProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]productResponse, 0, len(views))
	for _, v := range views {
		out = append(out, productResponse{Product: v.Product, Pricing: h.price(v.Pricing)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.catalogSvc.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: view.Product, Pricing: h.price(view.Pricing)})
}

type ctaResponse struct {
	State   string `json:"state"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

type evaluationResponse struct {
	*service.Evaluation
	CTA      ctaResponse   `json:"cta"`
	Pricing  priceResponse `json:"pricing"`
	Problems []string      `json:"problems,omitempty"`
}

func (h *Handler) evaluation(e *service.Evaluation) evaluationResponse {
	resp := evaluationResponse{
		Evaluation: e,
		CTA: ctaResponse{
			State:   e.CTA.String(),
			Label:   h.labels.Label(e.CTA),
			Enabled: e.CTA.Enabled(),
		},
		Pricing: h.price(e.Pricing),
	}
	for _, p := range e.Problems {
		resp.Problems = append(resp.Problems, p.Error())
	}
	return resp
}

func (h *Handler) handleEvaluateSelection(w http.ResponseWriter, r *http.Request) {
	var in service.SelectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	eval, err := h.cartSvc.EvaluateSelection(r.Context(), r.Header.Get(SessionHeader), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.evaluation(eval))
}

type cartResponse struct {
	entity.Cart
	Subtotal        string `json:"subtotal"`
	SubtotalDisplay string `json:"subtotal_display"`
	LineID          string `json:"line_id,omitempty"`
	Action          string `json:"action,omitempty"`
}

func (h *Handler) cart(c entity.Cart) cartResponse {
	subtotal := c.Subtotal()
	return cartResponse{Cart: c, Subtotal: subtotal.StringFixed(2), SubtotalDisplay: h.format.Format(subtotal)}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartSvc.GetCart(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart(c))
}

type commitRequest struct {
	ProductID string `json:"product_id"`
	service.SelectionInput
}

func (h *Handler) handleCommitSelection(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	res, err := h.cartSvc.CommitSelection(r.Context(), r.Header.Get(SessionHeader), req.ProductID, req.SelectionInput)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := h.cart(res.Cart)
	resp.LineID, resp.Action = res.LineID, string(res.Action)
	status := http.StatusOK
	if res.Action == cart.Appended {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (h *Handler) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	res, err := h.cartSvc.RemoveLine(r.Context(), r.Header.Get(SessionHeader), r.PathValue("lineID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart(res.Cart))
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.orderSvc.Checkout(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"order_id": cmd.OrderID,
		"status":   entity.OrderStatusPlaced,
		"total":    h.format.Format(cmd.TotalPrice),
	})
}

func (h *Handler) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.cartSvc.GetFavorites(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"product_ids": ids})
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productID")
	member, err := h.cartSvc.ToggleFavorite(r.Context(), r.Header.Get(SessionHeader), productID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "favorite": member})
}

func (h *Handler) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	var p entity.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = r.PathValue("id")

	if err := h.catalogSvc.SaveProduct(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type orderResponse struct {
	entity.Order
	TotalDisplay string `json:"total_display"`
}

func (h *Handler) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	orders, err := h.orderSvc.RecentOrders(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{Order: o, TotalDisplay: h.format.Format(o.TotalPrice)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cart.ErrLineNotFound):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSessionMissing):
		status = http.StatusBadRequest
	case errors.Is(err, selection.ErrInvalidQuantity),
		errors.Is(err, selection.ErrColorRequired),
		errors.Is(err, selection.ErrNotPurchasable),
		errors.Is(err, selection.ErrProductMismatch),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, pricing.ErrInvalidPriceInput):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "err", err)
		http.Error(w, "internal server error", status)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "err", err)
	}
}

// EnableCORS is a middleware to allow the storefront frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
