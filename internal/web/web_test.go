package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/checkout"
	mw "github.com/fooddash/api/internal/middleware"
	"github.com/fooddash/api/internal/notify"
	"github.com/fooddash/api/internal/order"
	"github.com/fooddash/api/internal/service"
	"github.com/fooddash/api/internal/tracking"
	"github.com/fooddash/api/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type site struct {
	router http.Handler
	carts  *cart.Store
	sid    uuid.UUID
}

func newSite(t *testing.T) *site {
	t.Helper()

	carts := cart.NewStore()
	tracker := tracking.NewTracker(time.Hour, nil)
	t.Cleanup(tracker.Close)
	svc := service.NewCheckoutService(carts, order.NewStore(), tracker, notify.NewLogPublisher(zap.NewNop()), zap.NewNop(),
		service.Delays{Redirect: 2 * time.Second})

	pages, err := web.New(catalog.Default(), carts, svc, zap.NewNop())
	require.NoError(t, err)

	sid := uuid.New()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.WithSession(r.Context(), sid)))
		})
	})
	pages.RegisterRoutes(r)
	r.NotFound(pages.NotFound)

	return &site{router: r, carts: carts, sid: sid}
}

func (s *site) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	return rr
}

func (s *site) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestHome(t *testing.T) {
	s := newSite(t)

	rr := s.get(t, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	for _, name := range []string{"Pizza Palace", "Burger Barn", "Sushi Central", "Taco Town"} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, `value="Indian"`)
}

func TestHome_Filters(t *testing.T) {
	s := newSite(t)

	body := s.get(t, "/?q=taco").Body.String()
	assert.Contains(t, body, "Taco Town")
	assert.NotContains(t, body, "Pizza Palace")

	body = s.get(t, "/?cuisine=Indian").Body.String()
	assert.Contains(t, body, "No restaurants found")
	assert.Contains(t, body, `value="Indian" checked`)
}

func TestRestaurantPage(t *testing.T) {
	s := newSite(t)

	rr := s.get(t, "/restaurant/1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Margherita Pizza")
	assert.Contains(t, body, "$12.99")
	assert.Contains(t, body, "Appetizers")
	assert.Contains(t, body, `action="/restaurant/1/items/m3"`)
	assert.Contains(t, body, catalog.PlaceholderImage)
}

func TestRestaurantPage_Unknown(t *testing.T) {
	s := newSite(t)

	rr := s.get(t, "/restaurant/999")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
}

func TestCatchAllNotFound(t *testing.T) {
	s := newSite(t)

	rr := s.get(t, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Return to Home")
}

func TestAddToCartFlow(t *testing.T) {
	s := newSite(t)

	rr := s.post(t, "/restaurant/1/items/m3", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/restaurant/1?added=m3", rr.Header().Get("Location"))

	s.post(t, "/restaurant/1/items/m1", url.Values{"quantity": {"2"}})

	body := s.get(t, "/restaurant/1?added=m3").Body.String()
	assert.Contains(t, body, "Margherita Pizza has been added to your cart")
	assert.Contains(t, body, "Cart (3)")

	body = s.get(t, "/cart").Body.String()
	assert.Contains(t, body, "$24.97")
	assert.Contains(t, body, "$5.00")
	assert.Contains(t, body, "$2.50")
	assert.Contains(t, body, "$32.47")
}

func TestAddToCart_ItemFromOtherRestaurant(t *testing.T) {
	s := newSite(t)

	rr := s.post(t, "/restaurant/2/items/m3", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, s.carts.Len())
}

func TestCartQuantityAndRemove(t *testing.T) {
	s := newSite(t)
	s.post(t, "/restaurant/1/items/m3", nil)
	s.post(t, "/restaurant/1/items/m1", nil)

	rr := s.post(t, "/cart/items/m1/quantity", url.Values{"delta": {"1"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/cart", rr.Header().Get("Location"))
	assert.Equal(t, 2, s.carts.Get(s.sid).Lines[1].Quantity)

	s.post(t, "/cart/items/m3/quantity", url.Values{"delta": {"-1"}})
	lines := s.carts.Get(s.sid).Lines
	require.Len(t, lines, 1)
	assert.Equal(t, "m1", lines[0].ItemID)

	s.post(t, "/cart/items/m1/quantity", url.Values{"quantity": {"5"}})
	assert.Equal(t, 5, s.carts.Get(s.sid).Lines[0].Quantity)

	s.post(t, "/cart/items/m1/remove", nil)
	assert.Empty(t, s.carts.Get(s.sid).Lines)

	body := s.get(t, "/cart").Body.String()
	assert.Contains(t, body, "Your cart is empty.")

	rr = s.post(t, "/cart/items/m1/quantity", url.Values{"delta": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCartQuantityLimit(t *testing.T) {
	s := newSite(t)

	rr := s.post(t, "/restaurant/1/items/m1", url.Values{"quantity": {"9223372036854775807"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, s.carts.Get(s.sid).Lines)

	s.post(t, "/restaurant/1/items/m1", url.Values{"quantity": {"99"}})
	rr = s.post(t, "/restaurant/1/items/m1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.post(t, "/cart/items/m1/quantity", url.Values{"delta": {"9223372036854775807"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = s.post(t, "/cart/items/m1/quantity", url.Values{"quantity": {"100"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, cart.MaxQuantity, s.carts.Get(s.sid).Lines[0].Quantity)
}

func TestSaveInstructions(t *testing.T) {
	s := newSite(t)
	s.post(t, "/restaurant/1/items/m3", nil)

	s.post(t, "/cart/instructions", url.Values{"instructions": {"  no onions "}})
	assert.Equal(t, "no onions", s.carts.Get(s.sid).Instructions)
	assert.Contains(t, s.get(t, "/cart").Body.String(), "no onions")
}

func TestCheckoutPage_Defaults(t *testing.T) {
	s := newSite(t)

	rr := s.get(t, "/checkout")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<option value="US" selected>`)
	assert.Contains(t, body, `value="card" checked`)
	assert.NotContains(t, body, `name="agree_terms" value="true" checked`)
}

func validForm() url.Values {
	return url.Values{
		"full_name":      {"Ada Lovelace"},
		"address":        {"123 Main St"},
		"city":           {"Anytown"},
		"postal_code":    {"12345"},
		"country":        {"CA"},
		"payment_method": {"card"},
		"card_number":    {"4242424242424242"},
		"agree_terms":    {"true"},
	}
}

func TestCheckout_ValidationErrorsAreShownInline(t *testing.T) {
	s := newSite(t)
	s.post(t, "/restaurant/1/items/m3", nil)

	form := validForm()
	form.Set("postal_code", "1234")
	form.Del("agree_terms")

	rr := s.post(t, "/checkout", form)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Invalid postal code format.")
	assert.Contains(t, body, "You must agree to the terms.")
	assert.Contains(t, body, `value="Ada Lovelace"`)
	assert.Contains(t, body, `<option value="CA" selected>`)
	assert.Len(t, s.carts.Get(s.sid).Lines, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newSite(t)

	rr := s.post(t, "/checkout", validForm())
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your cart is empty")
}

func TestCheckout_PlacesOrderAndTracks(t *testing.T) {
	s := newSite(t)
	s.post(t, "/restaurant/1/items/m3", nil)

	rr := s.post(t, "/checkout", validForm())
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Order Placed Successfully!")
	assert.Contains(t, body, `http-equiv="refresh" content="2;url=/order-tracking/`)
	assert.Empty(t, s.carts.Get(s.sid).Lines)

	start := strings.Index(body, `href="/order-tracking/`)
	require.GreaterOrEqual(t, start, 0)
	rest := body[start+len(`href="`):]
	path := rest[:strings.Index(rest, `"`)]

	rr = s.get(t, path)
	require.Equal(t, http.StatusOK, rr.Code)
	page := rr.Body.String()
	assert.Contains(t, page, "Order Confirmed")
	assert.Contains(t, page, `data-stage="confirmed" class=" current"`)
	assert.Contains(t, page, "Margherita Pizza")
	assert.Contains(t, page, "/ws/orders/")
}

func TestTracking_UnknownOrder(t *testing.T) {
	s := newSite(t)

	rr := s.get(t, "/order-tracking/doesnotexist")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// untrackedOrders knows an order but has no progress for it.
type untrackedOrders struct{}

func (untrackedOrders) PlaceOrder(context.Context, uuid.UUID, checkout.Submission) (*service.PlaceOrderResult, error) {
	return nil, errors.New("not supported")
}

func (untrackedOrders) Order(id string) (order.Order, error) {
	return order.Order{ID: id, FullName: "Ada Lovelace"}, nil
}

func (untrackedOrders) Progress(string) (tracking.Progress, error) {
	return tracking.Progress{}, tracking.ErrNotTracked
}

func TestTracking_MissingProgressIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pages, err := web.New(catalog.Default(), cart.NewStore(), untrackedOrders{}, zap.New(core))
	require.NoError(t, err)

	r := chi.NewRouter()
	pages.RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/order-tracking/abc", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-stage="confirmed" class=" current"`)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["order_id"])
}
