// Package web renders the storefront pages and handles their form posts.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/fooddash/api/internal/cart"
	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/checkout"
	"github.com/fooddash/api/internal/order"
	"github.com/fooddash/api/internal/service"
	"github.com/fooddash/api/internal/tracking"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "restaurant", "cart", "checkout", "placed", "tracking", "notfound"}

// Catalog defines the catalog reads the pages need.
// Satisfied by *catalog.Catalog.
type Catalog interface {
	Filter(query string, cuisines []string) []catalog.Restaurant
	Get(id string) (catalog.Restaurant, error)
	Item(itemID string) (catalog.MenuItem, string, error)
}

// CartStore defines the cart access the pages need. Satisfied by *cart.Store.
type CartStore interface {
	Get(sessionID uuid.UUID) cart.Snapshot
	Update(sessionID uuid.UUID, fn func(c *cart.Cart) error) (cart.Snapshot, error)
}

// Orders places and reads orders. Satisfied by *service.CheckoutService.
type Orders interface {
	PlaceOrder(ctx context.Context, sessionID uuid.UUID, sub checkout.Submission) (*service.PlaceOrderResult, error)
	Order(id string) (order.Order, error)
	Progress(id string) (tracking.Progress, error)
}

// Pages serves the HTML storefront.
type Pages struct {
	catalog Catalog
	carts   CartStore
	orders  Orders
	logger  *zap.Logger
	tmpl    map[string]*template.Template
}

// New parses the page templates.
func New(c Catalog, carts CartStore, orders Orders, logger *zap.Logger) (*Pages, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	tmpl := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		tmpl[name] = t
	}

	return &Pages{catalog: c, carts: carts, orders: orders, logger: logger, tmpl: tmpl}, nil
}

// RegisterRoutes registers page and form routes at the site root.
func (p *Pages) RegisterRoutes(r chi.Router) {
	r.Get("/", p.Home)
	r.Get("/restaurant/{id}", p.Restaurant)
	r.Post("/restaurant/{id}/items/{itemID}", p.AddToCart)
	r.Get("/cart", p.Cart)
	r.Post("/cart/items/{itemID}/quantity", p.ChangeQuantity)
	r.Post("/cart/items/{itemID}/remove", p.RemoveFromCart)
	r.Post("/cart/instructions", p.SaveInstructions)
	r.Get("/checkout", p.Checkout)
	r.Post("/checkout", p.PlaceOrder)
	r.Get("/order-tracking/{orderId}", p.Tracking)
}

var funcs = template.FuncMap{
	"money":       func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"rating":      func(d decimal.Decimal) string { return d.StringFixed(1) },
	"clock":       func(t time.Time) string { return t.Local().Format("3:04 PM") },
	"placeholder": func() string { return catalog.PlaceholderImage },
}

// layout holds what every page shows around its content.
type layout struct {
	Title          string
	CartCount      int
	RefreshContent string
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := p.tmpl[name]
	if !ok {
		p.logger.Error("unknown template", zap.String("name", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.Error("render page", zap.String("name", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
