package handler

import (
	"errors"
	"net/http"

	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog defines the catalog reads needed by restaurant handlers.
// Satisfied by *catalog.Catalog.
type Catalog interface {
	Filter(query string, cuisines []string) []catalog.Restaurant
	Get(id string) (catalog.Restaurant, error)
	Cuisines() []string
}

// RestaurantHandler serves the restaurant listing and menus.
type RestaurantHandler struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(c Catalog, logger *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{catalog: c, logger: logger}
}

// RegisterRoutes registers restaurant endpoints. Expected mount: /api/restaurants
func (h *RestaurantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Response types ---

type restaurantSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ImageURL     string   `json:"image_url"`
	CuisineTypes []string `json:"cuisine_types"`
	Rating       string   `json:"rating"`
	DeliveryTime string   `json:"delivery_time"`
	Address      string   `json:"address"`
}

type menuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

type menuCategoryResponse struct {
	Name  string             `json:"name"`
	Items []menuItemResponse `json:"items"`
}

type restaurantDetail struct {
	restaurantSummary
	Menu []menuCategoryResponse `json:"menu"`
}

type cuisinesResponse struct {
	Filters   []string `json:"filters"`
	Available []string `json:"available"`
}

func toRestaurantSummary(r catalog.Restaurant) restaurantSummary {
	return restaurantSummary{
		ID:           r.ID,
		Name:         r.Name,
		ImageURL:     r.Image(),
		CuisineTypes: r.CuisineTypes,
		Rating:       r.Rating.StringFixed(1),
		DeliveryTime: r.DeliveryTime,
		Address:      r.Address,
	}
}

func toRestaurantDetail(r catalog.Restaurant) restaurantDetail {
	menu := make([]menuCategoryResponse, len(r.Menu))
	for i, c := range r.Menu {
		items := make([]menuItemResponse, len(c.Items))
		for j, it := range c.Items {
			items[j] = menuItemResponse{
				ID:          it.ID,
				Name:        it.Name,
				Description: it.Description,
				Price:       money(it.Price),
				ImageURL:    it.Image(),
			}
		}
		menu[i] = menuCategoryResponse{Name: c.Name, Items: items}
	}
	return restaurantDetail{restaurantSummary: toRestaurantSummary(r), Menu: menu}
}

// --- Handlers ---

// List returns restaurants matching ?q= and any of the ?cuisine= tags.
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	restaurants := h.catalog.Filter(q.Get("q"), splitList(q["cuisine"]))

	resp := make([]restaurantSummary, len(restaurants))
	for i, rest := range restaurants {
		resp[i] = toRestaurantSummary(rest)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one restaurant with its menu.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	rest, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrRestaurantNotFound) {
			writeError(w, http.StatusNotFound, "restaurant not found")
			return
		}
		writeInternalError(w, h.logger, "get restaurant", err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantDetail(rest))
}

// Cuisines lists the listing toggles and the tags present in the catalog.
func (h *RestaurantHandler) Cuisines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cuisinesResponse{
		Filters:   enum.CuisineFilters,
		Available: h.catalog.Cuisines(),
	})
}
