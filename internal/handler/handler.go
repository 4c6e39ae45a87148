// Package handler implements the JSON API under /api.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fooddash/api/internal/cart"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeInternalError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// splitList reads a repeated or comma-separated query parameter.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// --- Shared response types ---

type lineResponse struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	ImageURL  string `json:"image_url,omitempty"`
}

type totalsResponse struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
	ItemCount   int    `json:"item_count"`
}

func toLineResponses(lines []cart.Line) []lineResponse {
	resp := make([]lineResponse, len(lines))
	for i, l := range lines {
		resp[i] = lineResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: money(l.LineTotal()),
			ImageURL:  l.ImageURL,
		}
	}
	return resp
}

func toTotalsResponse(t cart.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:    money(t.Subtotal),
		DeliveryFee: money(t.DeliveryFee),
		Tax:         money(t.Tax),
		Total:       money(t.Total),
		ItemCount:   t.ItemCount,
	}
}
