package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/handi_point/internal/db"
	"github.com/Skotchmaster/handi_point/internal/menu"
	"github.com/Skotchmaster/handi_point/internal/middleware/session"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/repo"
	"github.com/Skotchmaster/handi_point/internal/service"
	"github.com/Skotchmaster/handi_point/internal/store"
	"github.com/Skotchmaster/handi_point/internal/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	e        *echo.Echo
	checkout *service.CheckoutService
	cookie   *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gdb) })

	kv, err := repo.NewGormRepo(gdb)
	require.NoError(t, err)

	catalog := menu.Default()
	cartSvc := service.NewCartService(&store.CartStore{KV: kv}, nil)
	checkoutSvc := service.NewCheckoutService(cartSvc, &store.OrderLog{KV: kv}, nil, service.CheckoutConfig{
		Delay: 5 * time.Millisecond,
	})
	t.Cleanup(checkoutSvc.Wait)

	e := echo.New()
	Register(e, &Deps{
		MenuHandler:       &MenuHTTP{Catalog: catalog},
		CartHandler:       &CartHTTP{Svc: cartSvc, Menu: catalog},
		CheckoutHandler:   &CheckoutHTTP{Svc: checkoutSvc},
		NewsletterHandler: &NewsletterHTTP{Svc: &service.NewsletterService{Subscribers: &store.Subscribers{KV: kv}}},
		Session:           session.New([]byte("test-secret"), time.Hour, false),
	})
	return &testEnv{e: e, checkout: checkoutSvc}
}

// do sends a JSON request carrying the session cookie from earlier responses.
func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if env.cookie != nil {
		req.AddCookie(env.cookie)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			env.cookie = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", "").Code)
}

func TestMenu(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]menu.Item](t, rec)
	assert.NotEmpty(t, items)

	rec = env.do(t, http.MethodGet, "/api/v1/menu/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mutton Handi", decode[menu.Item](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/menu/999", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/menu/abc", "").Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.cookie)
	view := decode[transport.CartResponse](t, rec)
	assert.Empty(t, view.Items)
	assert.False(t, view.BadgeVisible)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":1,"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[transport.CartResponse](t, rec)
	assert.Equal(t, 600, view.Total)
	assert.Equal(t, 2, view.ItemCount)
	assert.True(t, view.BadgeVisible)
	assert.Equal(t, []notify.Message{{Message: "Mutton Handi added to cart!", Kind: notify.Success}}, view.Notifications)

	rec = env.do(t, http.MethodPatch, "/api/v1/cart/items/1", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1500, decode[transport.CartResponse](t, rec).Total)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/api/v1/cart/items/1", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":404}`).Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[transport.CartResponse](t, rec)
	assert.Empty(t, view.Items)
	assert.Equal(t, "Item removed from cart!", view.Notifications[0].Message)

	env.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":5}`)
	rec = env.do(t, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart cleared!", decode[transport.CartResponse](t, rec).Notifications[0].Message)
}

func TestCartIsolatedPerSession(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":1}`)

	env.cookie = nil
	rec := env.do(t, http.MethodGet, "/api/v1/cart", "")
	assert.Empty(t, decode[transport.CartResponse](t, rec).Items)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decode[transport.ErrorResponse](t, rec)
	assert.Equal(t, "Your cart is empty!", errResp.Notifications[0].Message)

	env.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":1,"quantity":2}`)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit", `{}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[transport.CheckoutResponse](t, rec)
	assert.Equal(t, service.StateFormOpen, sum.State)
	assert.Equal(t, 600, sum.Total)
	require.Len(t, sum.Items, 1)
	assert.Equal(t, 600, sum.Items[0].LineTotal)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit", `{"customer_name":"Asha","customer_phone":"123"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp = decode[transport.ErrorResponse](t, rec)
	assert.Equal(t, "Please enter a valid phone number", errResp.Fields[service.FieldPhone])
	assert.Equal(t, "This field is required", errResp.Fields[service.FieldAddress])

	rec = env.do(t, http.MethodPost, "/api/v1/checkout/submit",
		`{"customer_name":"Asha","customer_phone":"9876543210","customer_address":"12 MG Road"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	conf := decode[transport.SubmitResponse](t, rec).Confirmation
	require.NotNil(t, conf)
	assert.Equal(t, 600, conf.Total)
	assert.Equal(t, "Asha", conf.CustomerName)
	assert.Equal(t, "30-45 minutes", conf.EstimatedDelivery)
	assert.True(t, strings.HasPrefix(conf.OrderID, "HP"))

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "")
	assert.Empty(t, decode[transport.CartResponse](t, rec).Items)

	rec = env.do(t, http.MethodGet, "/api/v1/checkout", "")
	assert.Equal(t, service.StateIdle, decode[transport.CheckoutResponse](t, rec).State)

	rec = env.do(t, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[transport.OrdersResponse](t, rec).Orders
	require.Len(t, orders, 1)
	assert.Equal(t, conf.OrderID, orders[0].OrderID)
	assert.Equal(t, 600, orders[0].Total)
}

func TestCheckoutCancel(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":3}`)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/v1/checkout", "").Code)

	rec := env.do(t, http.MethodDelete, "/api/v1/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StateIdle, decode[transport.CheckoutResponse](t, rec).State)
	assert.Len(t, decode[transport.CartResponse](t, env.do(t, http.MethodGet, "/api/v1/cart", "")).Items, 1)
}

func TestOrders_Empty(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orders":[],"page":1,"size":10,"total":0}`, rec.Body.String())
}

func TestNewsletter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/newsletter", `{"email":"bad"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please enter a valid email address!", decode[transport.ErrorResponse](t, rec).Notifications[0].Message)

	rec = env.do(t, http.MethodPost, "/api/v1/newsletter", `{"email":"guest@handi.in"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[transport.NewsletterResponse](t, rec)
	assert.True(t, resp.Subscribed)

	rec = env.do(t, http.MethodPost, "/api/v1/newsletter", `{"email":"guest@handi.in"}`)
	resp = decode[transport.NewsletterResponse](t, rec)
	assert.False(t, resp.Subscribed)
	assert.Equal(t, notify.Info, resp.Notifications[0].Kind)
}
