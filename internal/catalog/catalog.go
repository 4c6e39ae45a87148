// Package catalog holds the read-only restaurant and menu data the storefront
// renders, and the in-memory filtering applied to the restaurant listing.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown whenever a restaurant or menu item has no image,
// or its image fails to load in the browser.
const PlaceholderImage = "https://via.placeholder.com/300x200?text=FoodDash"

// Errors returned by catalog lookups and construction.
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrDuplicateID        = errors.New("duplicate id in catalog")
	ErrNegativePrice      = errors.New("price must be >= 0")
)

// MenuItem is a single dish on a restaurant menu.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

// Image returns the item image, falling back to the placeholder.
func (m MenuItem) Image() string {
	if m.ImageURL == "" {
		return PlaceholderImage
	}
	return m.ImageURL
}

// MenuCategory groups menu items under a heading such as "Appetizers".
type MenuCategory struct {
	Name  string
	Items []MenuItem
}

// Restaurant is a listing entry together with its full menu.
type Restaurant struct {
	ID           string
	Name         string
	ImageURL     string
	CuisineTypes []string
	Rating       decimal.Decimal
	DeliveryTime string
	Address      string
	Menu         []MenuCategory
}

// Image returns the restaurant image, falling back to the placeholder.
func (r Restaurant) Image() string {
	if r.ImageURL == "" {
		return PlaceholderImage
	}
	return r.ImageURL
}

// HasCuisine reports whether the restaurant is tagged with the given cuisine.
// Tags match exactly.
func (r Restaurant) HasCuisine(cuisine string) bool {
	for _, c := range r.CuisineTypes {
		if c == cuisine {
			return true
		}
	}
	return false
}

// itemRef locates a menu item inside the catalog.
type itemRef struct {
	restaurant int
	category   int
	item       int
}

// Catalog is an immutable, ordered set of restaurants. Safe for concurrent use.
type Catalog struct {
	restaurants []Restaurant
	byID        map[string]int
	items       map[string]itemRef
}

// New builds a Catalog, rejecting duplicate restaurant or menu item ids and
// negative prices. Item ids must be unique across the whole catalog because
// cart lines are keyed by item id.
func New(restaurants []Restaurant) (*Catalog, error) {
	c := &Catalog{
		restaurants: make([]Restaurant, len(restaurants)),
		byID:        make(map[string]int, len(restaurants)),
		items:       make(map[string]itemRef),
	}
	copy(c.restaurants, restaurants)

	for ri, r := range c.restaurants {
		if _, ok := c.byID[r.ID]; ok {
			return nil, fmt.Errorf("restaurant %q: %w", r.ID, ErrDuplicateID)
		}
		c.byID[r.ID] = ri

		for ci, cat := range r.Menu {
			for ii, item := range cat.Items {
				if _, ok := c.items[item.ID]; ok {
					return nil, fmt.Errorf("menu item %q: %w", item.ID, ErrDuplicateID)
				}
				if item.Price.IsNegative() {
					return nil, fmt.Errorf("menu item %q: %w", item.ID, ErrNegativePrice)
				}
				c.items[item.ID] = itemRef{restaurant: ri, category: ci, item: ii}
			}
		}
	}
	return c, nil
}

// List returns every restaurant in catalog order.
func (c *Catalog) List() []Restaurant {
	out := make([]Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// Get returns the restaurant with the given id.
func (c *Catalog) Get(id string) (Restaurant, error) {
	i, ok := c.byID[id]
	if !ok {
		return Restaurant{}, ErrRestaurantNotFound
	}
	return c.restaurants[i], nil
}

// Item returns a menu item by id along with the id of the restaurant serving it.
func (c *Catalog) Item(itemID string) (MenuItem, string, error) {
	ref, ok := c.items[itemID]
	if !ok {
		return MenuItem{}, "", ErrMenuItemNotFound
	}
	r := c.restaurants[ref.restaurant]
	return r.Menu[ref.category].Items[ref.item], r.ID, nil
}

// Filter returns the restaurants whose name contains query (case-insensitive)
// and, when cuisines is non-empty, that carry at least one of the cuisines.
// An empty query and no cuisines return the full list.
func (c *Catalog) Filter(query string, cuisines []string) []Restaurant {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Restaurant, 0, len(c.restaurants))
	for _, r := range c.restaurants {
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) {
			continue
		}
		if len(cuisines) > 0 && !anyCuisine(r, cuisines) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Cuisines returns every distinct cuisine tag in first-seen order.
func (c *Catalog) Cuisines() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.restaurants {
		for _, t := range r.CuisineTypes {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func anyCuisine(r Restaurant, cuisines []string) bool {
	for _, want := range cuisines {
		if r.HasCuisine(want) {
			return true
		}
	}
	return false
}
