package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/cart"
	delivery "github.com/egannguyen/go-kafka-ecommerce/storefront/internal/delivery/http"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging/pubsub"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/pricing"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/selection"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/service"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/session"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	products := &productStore{items: map[string]entity.Product{
		"tee-001": {
			ID: "tee-001", Name: "Logo Tee", InStock: true,
			Price:         decimal.NewNullDecimal(decimal.RequireFromString("80")),
			OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("100")),
			Variants: []entity.Variant{
				{Color: "red", Size: "M", Stock: 5},
				{Color: "red", Size: "L", Stock: 0},
			},
		},
	}}
	carts := &cartStore{items: map[string]entity.Cart{}}
	favs := &favoritesStore{items: map[string][]string{}}
	orders := &orderStore{items: []entity.Order{{
		ID: "order-1", SessionID: "s9", Status: entity.OrderStatusPlaced,
		TotalPrice: decimal.RequireFromString("1234.5"),
		Items:      []entity.OrderItem{{ProductID: "tee-001", Name: "Logo Tee", Color: "red", Size: "M", Price: decimal.RequireFromString("1234.5"), Quantity: 1}},
	}}}

	bus := pubsub.NewChannelBus(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	t.Cleanup(func() { _ = bus.Close() })

	registry := session.NewRegistry()
	reconciler := cart.NewReconciler()
	catalog := service.NewCatalogService(products, pricing.Resolver{})
	h := delivery.NewHandler(
		catalog,
		service.NewCartService(catalog, registry, carts, favs, reconciler, bus),
		service.NewOrderService(products, orders, registry, carts, favs, reconciler, bus),
		delivery.EnglishLabels,
		pricing.DefaultFormatter(),
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return delivery.EnableCORS(mux)
}

func do(t *testing.T, h http.Handler, method, path, sessionID, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(delivery.SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestGetProduct(t *testing.T) {
	h := setup(t)

	t.Run("Success", func(t *testing.T) {
		rec, body := do(t, h, http.MethodGet, "/api/products/tee-001", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		price := body["pricing"].(map[string]any)
		assert.Equal(t, "$80.00", price["final_display"])
		assert.Equal(t, "$100.00", price["original_display"])
		assert.Equal(t, float64(20), price["discount_percentage"])
	})

	t.Run("Fail on unknown product", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodGet, "/api/products/nope", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEvaluateSelection(t *testing.T) {
	h := setup(t)

	t.Run("Success", func(t *testing.T) {
		rec, body := do(t, h, http.MethodPost, "/api/products/tee-001/selection", "s1", `{"color":"red"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		cta := body["cta"].(map[string]any)
		assert.Equal(t, selection.NeedSize.String(), cta["state"])
		assert.Equal(t, "Select a size", cta["label"])
		assert.Equal(t, false, cta["enabled"])
		assert.Len(t, body["sizes"], 2)
	})

	t.Run("Success reports corrected input", func(t *testing.T) {
		rec, body := do(t, h, http.MethodPost, "/api/products/tee-001/selection", "s1", `{"color":"red","size":"M","quantity":0}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body["problems"], 1)
		assert.Equal(t, float64(1), body["state"].(map[string]any)["quantity"])
	})

	t.Run("Fail on malformed body", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPost, "/api/products/tee-001/selection", "s1", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartFlow(t *testing.T) {
	h := setup(t)

	rec, body := do(t, h, http.MethodPost, "/api/cart/lines", "s1", `{"product_id":"tee-001","color":"red","size":"M","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(cart.Appended), body["action"])
	assert.Equal(t, "$160.00", body["subtotal_display"])
	lineID := body["line_id"].(string)

	rec, body = do(t, h, http.MethodPost, "/api/cart/lines", "s1", `{"product_id":"tee-001","color":"red","size":"M","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(cart.Merged), body["action"])
	assert.Equal(t, lineID, body["line_id"])

	rec, _ = do(t, h, http.MethodPost, "/api/cart/lines", "s1", `{"product_id":"tee-001","color":"red","size":"L"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "out of stock variant")

	rec, body = do(t, h, http.MethodGet, "/api/cart", "s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "240.00", body["subtotal"])

	rec, body = do(t, h, http.MethodPost, "/api/checkout", "s1", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "$240.00", body["total"])
	assert.NotEmpty(t, body["order_id"])

	rec, _ = do(t, h, http.MethodPost, "/api/checkout", "s1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "cart is empty after checkout")

	rec, _ = do(t, h, http.MethodDelete, "/api/cart/lines/"+lineID, "s1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionRequired(t *testing.T) {
	h := setup(t)

	rec, _ := do(t, h, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavorites(t *testing.T) {
	h := setup(t)

	rec, body := do(t, h, http.MethodPost, "/api/favorites/tee-001", "s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["favorite"])

	rec, body = do(t, h, http.MethodGet, "/api/favorites", "s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"tee-001"}, body["product_ids"])

	rec, _ = do(t, h, http.MethodPost, "/api/favorites/nope", "s1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveProduct(t *testing.T) {
	h := setup(t)

	t.Run("Success", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPut, "/api/admin/products/cap-001", "", `{"name":"Cap","price":"15","in_stock":true,"variants":[{"color":"black","size":"","stock":true}]}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec, body := do(t, h, http.MethodGet, "/api/products/cap-001", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "$15.00", body["pricing"].(map[string]any)["final_display"])
	})

	t.Run("Fail on invalid discount", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPut, "/api/admin/products/cap-002", "", `{"name":"Cap","price":"15","original_price":"10"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestRecentOrders(t *testing.T) {
	h := setup(t)

	t.Run("Success", func(t *testing.T) {
		rec, body := do(t, h, http.MethodGet, "/api/admin/orders?limit=5", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		orders := body["orders"].([]any)
		require.Len(t, orders, 1)
		first := orders[0].(map[string]any)
		assert.Equal(t, "order-1", first["id"])
		assert.Equal(t, "$1,234.50", first["total_display"])
		assert.Len(t, first["items"], 1)
	})

	t.Run("Fail on invalid limit", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodGet, "/api/admin/orders?limit=abc", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	h := setup(t)

	rec, _ := do(t, h, http.MethodOptions, "/api/cart", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), delivery.SessionHeader)
}

type productStore struct {
	items map[string]entity.Product
}

func (s *productStore) FindAll(ctx context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	return out, nil
}

func (s *productStore) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, entity.ErrProductNotFound
	}
	return &p, nil
}

func (s *productStore) Save(ctx context.Context, p entity.Product) error {
	s.items[p.ID] = p
	return nil
}

func (s *productStore) Seed(ctx context.Context, products []entity.Product) error {
	for _, p := range products {
		s.items[p.ID] = p
	}
	return nil
}

type cartStore struct {
	items map[string]entity.Cart
}

func (s *cartStore) Load(ctx context.Context, id string) (entity.Cart, error) {
	if c, ok := s.items[id]; ok {
		return c.Clone(), nil
	}
	return entity.Cart{SessionID: id}, nil
}

func (s *cartStore) Save(ctx context.Context, c entity.Cart) error {
	s.items[c.SessionID] = c.Clone()
	return nil
}

type favoritesStore struct {
	items map[string][]string
}

func (s *favoritesStore) Load(ctx context.Context, id string) ([]string, error) {
	return s.items[id], nil
}

func (s *favoritesStore) Replace(ctx context.Context, id string, ids []string) error {
	s.items[id] = ids
	return nil
}

type orderStore struct {
	items []entity.Order
}

func (s *orderStore) PlaceOrder(ctx context.Context, cmd *entity.PlaceOrder) (bool, error) {
	for _, o := range s.items {
		if o.ID == cmd.OrderID {
			return false, nil
		}
	}
	s.items = append(s.items, entity.Order{ID: cmd.OrderID, SessionID: cmd.SessionID, Items: cmd.Items, TotalPrice: cmd.TotalPrice, Status: entity.OrderStatusPlaced})
	return true, nil
}

func (s *orderStore) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}
