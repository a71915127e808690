package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pakcuisine/internal/menu"
	"pakcuisine/internal/monitoring"
	"pakcuisine/internal/receipt"
	"pakcuisine/internal/session"
	"pakcuisine/internal/store"
)

var testMenu = menu.MustCatalog([]menu.Category{
	{Name: "Starters", Items: []menu.Item{{Name: "Samosa", Price: 80}}},
	{Name: "Main Course", Items: []menu.Item{{Name: "Biryani", Price: 320}}},
})

func newTestAPI(t *testing.T) *BillingAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	monitor := monitoring.NewMonitor()
	s, err := session.New(testMenu,
		store.NewSequence(store.NewJSONFile[store.Counter](filepath.Join(dir, store.CounterFile)), nil),
		store.NewHistory(store.NewIndentedJSONFile[[]store.Entry](filepath.Join(dir, store.HistoryFile)), nil),
		session.Options{
			Layout:  receipt.DefaultLayout(),
			Clock:   func() time.Time { return time.Date(2024, 3, 7, 19, 5, 9, 0, time.UTC) },
			Monitor: monitor,
		},
	)
	require.NoError(t, err)

	api := NewBillingAPI(s, monitor, nil)
	t.Cleanup(api.Hub.Close)
	return api
}

func do(t *testing.T, api *BillingAPI, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, target, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	api.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGetMenu(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cats := decode[[]menu.Category](t, w)
	require.Len(t, cats, 2)
	assert.Equal(t, "Starters", cats[0].Name)
	assert.Equal(t, 80, cats[0].Items[0].Price)
}

func TestOrderLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/order/items", ItemRequest{Category: "Starters", Item: "Samosa", Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[OrderView](t, w)
	assert.Equal(t, 1, view.OrderNumber)
	assert.Equal(t, []LineView{{Category: "Starters", Item: "Samosa", Quantity: 2}}, view.Lines)
	assert.Equal(t, 160.0, view.Subtotal)

	w = do(t, api, http.MethodGet, "/api/v1/order/breakdown?discount=10&tip=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	b := decode[map[string]float64](t, w)
	assert.Equal(t, 16.0, b["discount_amount"])
	assert.InDelta(t, 171.2, b["total"], 1e-9)

	w = do(t, api, http.MethodPost, "/api/v1/order/receipt", ReceiptRequest{Discount: 10, Tip: 20, CustomerName: "Sana"})
	require.Equal(t, http.StatusOK, w.Code)
	bill := decode[map[string]any](t, w)["receipt"].(string)
	assert.Contains(t, bill, "TOTAL:                              Rs.171.20")

	w = do(t, api, http.MethodPost, "/api/v1/order/save", SaveRequest{Bill: bill, CustomerName: "Sana"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, api, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]store.Entry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sana", entries[0].CustomerName)
	assert.Equal(t, map[string]int{"Starters:Samosa": 2}, entries[0].Items)

	w = do(t, api, http.MethodPost, "/api/v1/order/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[OrderView](t, w)
	assert.Equal(t, 2, view.OrderNumber)
	assert.Empty(t, view.Lines)
}

func TestRemoveAndClear(t *testing.T) {
	api := newTestAPI(t)
	do(t, api, http.MethodPost, "/api/v1/order/items", ItemRequest{Category: "Starters", Item: "Samosa", Quantity: 1})
	do(t, api, http.MethodPost, "/api/v1/order/items", ItemRequest{Category: "Main Course", Item: "Biryani", Quantity: 1})

	q := url.Values{"category": {"Starters"}, "item": {"Samosa"}}
	w := do(t, api, http.MethodDelete, "/api/v1/order/items?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[OrderView](t, w).Lines, 1)

	w = do(t, api, http.MethodPost, "/api/v1/order/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[OrderView](t, w)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 1, view.OrderNumber)
	assert.Equal(t, "No items selected", view.Summary)

	w = do(t, api, http.MethodDelete, "/api/v1/order/items", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemUnknownIsIgnored(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/order/items", ItemRequest{Category: "Starters", Item: "Ghost", Quantity: 1})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[OrderView](t, w).Lines)
}

func TestAddItemMissingFields(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/order/items", map[string]any{"quantity": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiptEmptyOrder(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/order/receipt", ReceiptRequest{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, receipt.EmptyOrderMessage, decode[map[string]string](t, w)["error"])
}

func TestAdjustmentsAreValidated(t *testing.T) {
	api := newTestAPI(t)
	do(t, api, http.MethodPost, "/api/v1/order/items", ItemRequest{Category: "Starters", Item: "Samosa", Quantity: 2})

	tests := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"discount above 100", http.MethodGet, "/api/v1/order/breakdown?discount=120", nil},
		{"negative discount", http.MethodGet, "/api/v1/order/breakdown?discount=-1", nil},
		{"non-numeric tip", http.MethodGet, "/api/v1/order/breakdown?tip=lots", nil},
		{"negative tip", http.MethodPost, "/api/v1/order/receipt", ReceiptRequest{Tip: -5}},
		{"NaN tip", http.MethodGet, "/api/v1/order/breakdown?tip=NaN", nil},
		{"infinite tip", http.MethodGet, "/api/v1/order/breakdown?tip=Inf", nil},
		{"negative infinite tip", http.MethodGet, "/api/v1/order/breakdown?tip=-Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, api, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestSaveWithoutBill(t *testing.T) {
	api := newTestAPI(t)

	w := do(t, api, http.MethodPost, "/api/v1/order/save", map[string]string{"bill": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, api, http.MethodPost, "/api/v1/order/save", SaveRequest{Bill: receipt.EmptyOrderMessage})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMetrics(t *testing.T) {
	api := newTestAPI(t)
	do(t, api, http.MethodPost, "/api/v1/order/items", ItemRequest{Category: "Starters", Item: "Samosa", Quantity: 3})

	w := do(t, api, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	metrics := decode[map[string]any](t, w)
	assert.Contains(t, metrics, "uptime_seconds")
	assert.Equal(t, float64(3), metrics["items_added"])
}
