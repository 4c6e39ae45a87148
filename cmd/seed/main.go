// Command seed generates a random restaurant catalog file the server can load
// with --catalog-file.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/fooddash/api/internal/catalog"
	"github.com/fooddash/api/internal/enum"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	restaurantCount int
	itemsPerCourse  int
	outPath         string
	seed            int64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generates a random FoodDash catalog as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restaurantCount < 1 || itemsPerCourse < 1 {
			return fmt.Errorf("--restaurants and --items must be >= 1")
		}

		fake := faker.New()
		if seed != 0 {
			fake = faker.NewWithSeed(rand.NewSource(seed))
		}

		bar := progressbar.NewOptions(restaurantCount,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating restaurants"),
			progressbar.OptionClearOnFinish(),
		)
		restaurants := generate(fake, restaurantCount, itemsPerCourse, func() { _ = bar.Add(1) })
		_ = bar.Finish()

		if _, err := catalog.New(restaurants); err != nil {
			return fmt.Errorf("generated catalog invalid: %w", err)
		}

		var w io.Writer = os.Stdout
		if outPath != "" && outPath != "-" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := catalog.Write(w, restaurants); err != nil {
			return err
		}
		if w != os.Stdout {
			fmt.Fprintf(os.Stderr, "wrote %d restaurants to %s\n", len(restaurants), outPath)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().IntVar(&restaurantCount, "restaurants", 12, "Number of restaurants")
	rootCmd.Flags().IntVar(&itemsPerCourse, "items", 3, "Menu items per course")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "catalog.yaml", "Output file (- for stdout)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for generated content (random if 0)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var courses = []string{"Appetizers", "Mains", "Desserts", "Drinks"}

var dishes = map[string][]string{
	"Appetizers": {"Garlic Bread", "Spring Rolls", "Nachos", "Edamame", "Bruschetta", "Dumplings", "Onion Rings"},
	"Mains":      {"Margherita Pizza", "Beef Burrito", "Kung Pao Chicken", "Butter Chicken", "Pad Thai", "Ramen", "Cheeseburger", "Lasagna"},
	"Desserts":   {"Tiramisu", "Churros", "Mochi", "Cheesecake", "Gulab Jamun", "Brownie"},
	"Drinks":     {"Lemonade", "Iced Tea", "Mango Lassi", "Cola", "Horchata", "Green Tea"},
}

var deliveryWindows = []string{"15-25 min", "20-30 min", "25-35 min", "30-40 min", "35-45 min"}

// generate builds n restaurants with itemsPerCourse dishes in every course.
// tick is called once per restaurant.
func generate(fake faker.Faker, n, itemsPerCourse int, tick func()) []catalog.Restaurant {
	restaurants := make([]catalog.Restaurant, 0, n)
	for i := 0; i < n; i++ {
		r := catalog.Restaurant{
			ID:           cuid.Slug(),
			Name:         fake.Company().Name(),
			CuisineTypes: pickCuisines(fake),
			Rating:       decimal.NewFromFloat(fake.Float64(1, 3, 5)).Round(1),
			DeliveryTime: fake.RandomStringElement(deliveryWindows),
			Address:      fmt.Sprintf("%s, %s", fake.Address().StreetAddress(), fake.Address().City()),
		}
		for _, course := range courses {
			cat := catalog.MenuCategory{Name: course}
			for j := 0; j < itemsPerCourse; j++ {
				cat.Items = append(cat.Items, catalog.MenuItem{
					ID:          cuid.New(),
					Name:        fake.RandomStringElement(dishes[course]),
					Description: fake.Lorem().Sentence(8),
					Price:       decimal.NewFromFloat(fake.Float64(2, 2, 30)).Round(2),
				})
			}
			r.Menu = append(r.Menu, cat)
		}
		restaurants = append(restaurants, r)
		tick()
	}
	return restaurants
}

func pickCuisines(fake faker.Faker) []string {
	first := fake.RandomStringElement(enum.CuisineFilters)
	if !fake.Bool() {
		return []string{first}
	}
	second := fake.RandomStringElement(enum.CuisineFilters)
	if second == first {
		return []string{first}
	}
	return []string{first, second}
}
