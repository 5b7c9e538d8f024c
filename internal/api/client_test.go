package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanmalyshevv/weblarek/internal/model"
)

const cdn = "https://cdn.example/content/weblarek"

func newTestClient(t *testing.T, h http.Handler, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, CDNURL: cdn}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestProducts_RewritesImages(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/product", r.URL.Path)
		w.Write([]byte(`{"total":2,"items":[
			{"id":"a","image":"/5_Dots.svg","title":"HEX","category":"софт-скил","price":750},
			{"id":"b","image":"/Asterisk_2.svg","title":"Мамка-таймер","category":"другое","price":null}
		]}`))
	}))

	items, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, cdn+"/5_Dots.png", items[0].Image)
	assert.True(t, items[0].Price.Valid)
	assert.True(t, items[0].Price.Decimal.Equal(decimal.NewFromInt(750)))
	assert.False(t, items[1].ForSale())
}

func TestProduct_KeepsExtension(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/854cef69", r.URL.Path)
		w.Write([]byte(`{"id":"854cef69","image":"/Shell.svg","title":"HEX","price":null}`))
	}))

	p, err := c.Product(context.Background(), "854cef69")
	require.NoError(t, err)
	assert.Equal(t, cdn+"/Shell.svg", p.Image)
}

func TestSubmitOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/order", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "card", body["payment"])
		assert.Equal(t, []any{"a", "c"}, body["items"])
		assert.Equal(t, float64(760), body["total"])

		w.Write([]byte(`{"id":"28c57cb4-3002-4445-8aa1-2a06a5055ae5","total":760}`))
	}))

	res, err := c.SubmitOrder(context.Background(), model.OrderPayload{
		Payment: model.PaymentCard,
		Address: "Москва",
		Email:   "a@b",
		Phone:   "+7900",
		Items:   []string{"a", "c"},
		Total:   decimal.NewFromInt(760),
	})
	require.NoError(t, err)
	assert.Equal(t, "28c57cb4-3002-4445-8aa1-2a06a5055ae5", res.ID)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(760)))
}

func TestAPIError_Message(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Неверная сумма заказа"}`, "Неверная сумма заказа"},
		{"no field", http.StatusInternalServerError, `{"detail":"x"}`, "Internal Server Error"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Bad Gateway"},
		{"empty", http.StatusNotFound, ``, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := c.Products(context.Background())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, OpProducts, apiErr.Op)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.Product(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestAPIError_Temporary(t *testing.T) {
	assert.True(t, (&APIError{Status: 503}).Temporary())
	assert.True(t, (&APIError{Status: 429}).Temporary())
	assert.False(t, (&APIError{Status: 400}).Temporary())
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRateLimit_ContextCancelled(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"total":0,"items":[]}`))
	}), func(cfg *Config) {
		cfg.RateLimit = 0.001
		cfg.Burst = 1
	})

	_, err := c.Products(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Products(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestMetrics_Observed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0,"items":[]}`))
	}), func(cfg *Config) { cfg.Metrics = m })
	_, err := ok.Products(context.Background())
	require.NoError(t, err)

	bad := newTestClient(t, http.NotFoundHandler(), func(cfg *Config) { cfg.Metrics = m })
	_, err = bad.Product(context.Background(), "x")
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "weblarek_api_request_duration_seconds", families[0].GetName())

	outcomes := map[string]uint64{}
	for _, metric := range families[0].GetMetric() {
		var op, outcome string
		for _, l := range metric.GetLabel() {
			switch l.GetName() {
			case "op":
				op = l.GetValue()
			case "outcome":
				outcome = l.GetValue()
			}
		}
		outcomes[op+"/"+outcome] = metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, map[string]uint64{"products/ok": 1, "product/error": 1}, outcomes)
}
