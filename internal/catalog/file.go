package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog files are YAML. Money is written as quoted strings so no precision
// is lost to float parsing.

type fileCatalog struct {
	Restaurants []fileRestaurant `yaml:"restaurants"`
}

type fileRestaurant struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	ImageURL     string         `yaml:"image_url,omitempty"`
	Cuisines     []string       `yaml:"cuisines"`
	Rating       string         `yaml:"rating"`
	DeliveryTime string         `yaml:"delivery_time"`
	Address      string         `yaml:"address"`
	Menu         []fileCategory `yaml:"menu"`
}

type fileCategory struct {
	Name  string     `yaml:"name"`
	Items []fileItem `yaml:"items"`
}

type fileItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"image_url,omitempty"`
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes a YAML catalog.
func Read(r io.Reader) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	restaurants := make([]Restaurant, 0, len(fc.Restaurants))
	for i, fr := range fc.Restaurants {
		r, err := fr.toRestaurant()
		if err != nil {
			return nil, fmt.Errorf("restaurants[%d]: %w", i, err)
		}
		restaurants = append(restaurants, r)
	}
	return New(restaurants)
}

// Write encodes restaurants as a YAML catalog.
func Write(w io.Writer, restaurants []Restaurant) error {
	fc := fileCatalog{Restaurants: make([]fileRestaurant, len(restaurants))}
	for i, r := range restaurants {
		fc.Restaurants[i] = fromRestaurant(r)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

func (fr fileRestaurant) toRestaurant() (Restaurant, error) {
	rating := decimal.Zero
	if fr.Rating != "" {
		d, err := decimal.NewFromString(fr.Rating)
		if err != nil {
			return Restaurant{}, fmt.Errorf("invalid rating %q", fr.Rating)
		}
		rating = d
	}

	r := Restaurant{
		ID:           fr.ID,
		Name:         fr.Name,
		ImageURL:     fr.ImageURL,
		CuisineTypes: fr.Cuisines,
		Rating:       rating,
		DeliveryTime: fr.DeliveryTime,
		Address:      fr.Address,
		Menu:         make([]MenuCategory, len(fr.Menu)),
	}
	for ci, fcat := range fr.Menu {
		cat := MenuCategory{Name: fcat.Name, Items: make([]MenuItem, len(fcat.Items))}
		for ii, fi := range fcat.Items {
			p, err := decimal.NewFromString(fi.Price)
			if err != nil {
				return Restaurant{}, fmt.Errorf("menu item %q: invalid price %q", fi.ID, fi.Price)
			}
			cat.Items[ii] = MenuItem{
				ID:          fi.ID,
				Name:        fi.Name,
				Description: fi.Description,
				Price:       p,
				ImageURL:    fi.ImageURL,
			}
		}
		r.Menu[ci] = cat
	}
	return r, nil
}

func fromRestaurant(r Restaurant) fileRestaurant {
	fr := fileRestaurant{
		ID:           r.ID,
		Name:         r.Name,
		ImageURL:     r.ImageURL,
		Cuisines:     r.CuisineTypes,
		Rating:       r.Rating.StringFixed(1),
		DeliveryTime: r.DeliveryTime,
		Address:      r.Address,
		Menu:         make([]fileCategory, len(r.Menu)),
	}
	for ci, cat := range r.Menu {
		fcat := fileCategory{Name: cat.Name, Items: make([]fileItem, len(cat.Items))}
		for ii, item := range cat.Items {
			fcat.Items[ii] = fileItem{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price.StringFixed(2),
				ImageURL:    item.ImageURL,
			}
		}
		fr.Menu[ci] = fcat
	}
	return fr
}
