package cart

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pizza() Line {
	return Line{ItemID: "m3", Name: "Margherita Pizza", UnitPrice: dec("12.99")}
}

func garlicBread() Line {
	return Line{ItemID: "m1", Name: "Garlic Bread", UnitPrice: dec("5.99")}
}

func TestComputeTotals_Example(t *testing.T) {
	lines := []Line{
		{ItemID: "m3", UnitPrice: dec("12.99"), Quantity: 1},
		{ItemID: "m1", UnitPrice: dec("5.99"), Quantity: 2},
	}

	got := ComputeTotals(lines)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", got.Subtotal, "24.97"},
		{"delivery fee", got.DeliveryFee, "5.00"},
		{"tax", got.Tax, "2.497"},
		{"total", got.Total, "32.467"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.ItemCount != 3 {
		t.Errorf("item count: got %d, want 3", got.ItemCount)
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil)
	if !got.Subtotal.IsZero() || !got.DeliveryFee.IsZero() || !got.Tax.IsZero() || !got.Total.IsZero() {
		t.Errorf("expected all-zero totals, got %+v", got)
	}
	if got.ItemCount != 0 {
		t.Errorf("item count: got %d, want 0", got.ItemCount)
	}
}

func TestComputeTotals_TotalIdentity(t *testing.T) {
	lines := []Line{
		{ItemID: "a", UnitPrice: dec("0.01"), Quantity: 7},
		{ItemID: "b", UnitPrice: dec("99.99"), Quantity: 3},
		{ItemID: "c", UnitPrice: dec("0"), Quantity: 1},
	}
	got := ComputeTotals(lines)

	if !got.Tax.Equal(got.Subtotal.Mul(dec("0.10"))) {
		t.Errorf("tax %s is not 10%% of subtotal %s", got.Tax, got.Subtotal)
	}
	want := got.Subtotal.Add(got.DeliveryFee).Add(got.Tax)
	if !got.Total.Equal(want) {
		t.Errorf("total: got %s, want %s", got.Total, want)
	}
}

func TestCart_AddMergesSameItem(t *testing.T) {
	var c Cart
	if err := c.Add(pizza(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(garlicBread(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(pizza(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ItemID != "m3" || lines[0].Quantity != 2 {
		t.Errorf("first line: got %s x%d, want m3 x2", lines[0].ItemID, lines[0].Quantity)
	}
	if lines[1].ItemID != "m1" || lines[1].Quantity != 1 {
		t.Errorf("second line: got %s x%d, want m1 x1", lines[1].ItemID, lines[1].Quantity)
	}
}

func TestCart_AddRejectsBadInput(t *testing.T) {
	var c Cart
	if err := c.Add(pizza(), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: got %v, want ErrInvalidQuantity", err)
	}
	if err := c.Add(Line{Name: "no id"}, 1); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("missing id: got %v, want ErrInvalidItem", err)
	}
	if c.Len() != 0 {
		t.Errorf("cart should still be empty, has %d lines", c.Len())
	}
}

func TestCart_AddRejectsQuantityOverLimit(t *testing.T) {
	var c Cart
	if err := c.Add(pizza(), math.MaxInt); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("MaxInt: got %v, want ErrInvalidQuantity", err)
	}
	if c.Len() != 0 {
		t.Fatalf("rejected add must not create a line")
	}

	if err := c.Add(pizza(), MaxQuantity-1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(pizza(), 1); err != nil {
		t.Fatalf("add up to the limit: %v", err)
	}
	for _, qty := range []int{1, 2, math.MaxInt} {
		if err := c.Add(pizza(), qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("add %d past the limit: got %v, want ErrInvalidQuantity", qty, err)
		}
	}

	line := c.Lines()[0]
	if line.Quantity != MaxQuantity {
		t.Errorf("quantity: got %d, want %d", line.Quantity, MaxQuantity)
	}
	if c.Totals().Total.IsNegative() {
		t.Errorf("total went negative: %s", c.Totals().Total)
	}
}

func TestCart_AdjustAndSetRejectQuantityOverLimit(t *testing.T) {
	var c Cart
	_ = c.Add(garlicBread(), 2)

	for _, delta := range []int{MaxQuantity, math.MaxInt} {
		if err := c.Adjust("m1", delta); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("adjust %d: got %v, want ErrInvalidQuantity", delta, err)
		}
	}
	if err := c.SetQuantity("m1", MaxQuantity+1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("set over limit: got %v, want ErrInvalidQuantity", err)
	}
	if got := c.Lines()[0].Quantity; got != 2 {
		t.Fatalf("quantity changed by rejected update: got %d, want 2", got)
	}

	if err := c.Adjust("m1", math.MinInt); err != nil {
		t.Fatalf("adjust MinInt: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("large negative delta should remove the line")
	}
}

func TestCart_QuantityZeroRemovesLine(t *testing.T) {
	var c Cart
	_ = c.Add(pizza(), 1)
	_ = c.Add(garlicBread(), 2)

	if err := c.SetQuantity("m3", 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 1 || lines[0].ItemID != "m1" {
		t.Fatalf("expected only m1 left, got %+v", lines)
	}
}

func TestCart_AdjustDownToZeroRemovesLine(t *testing.T) {
	var c Cart
	_ = c.Add(garlicBread(), 2)

	if err := c.Adjust("m1", -1); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("quantity: got %d, want 1", got)
	}
	if err := c.Adjust("m1", -1); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cart, got %d lines", c.Len())
	}
	if !c.Totals().DeliveryFee.IsZero() {
		t.Errorf("empty cart should not be charged delivery")
	}
}

func TestCart_UnknownLine(t *testing.T) {
	var c Cart
	if err := c.SetQuantity("ghost", 3); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("set quantity: got %v, want ErrLineNotFound", err)
	}
	if err := c.Adjust("ghost", 1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("adjust: got %v, want ErrLineNotFound", err)
	}
	if err := c.Remove("ghost"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("remove: got %v, want ErrLineNotFound", err)
	}
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	var c Cart
	_ = c.Add(pizza(), 1)

	lines := c.Lines()
	lines[0].Quantity = 99

	if got := c.Lines()[0].Quantity; got != 1 {
		t.Errorf("mutating the returned slice changed the cart: quantity %d", got)
	}
}

func TestCart_Clear(t *testing.T) {
	var c Cart
	_ = c.Add(pizza(), 1)
	c.SetInstructions("no onions")
	c.Clear()

	if c.Len() != 0 || c.Instructions() != "" {
		t.Errorf("expected cleared cart, got %d lines, instructions %q", c.Len(), c.Instructions())
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore()
	a, b := uuid.New(), uuid.New()

	if _, err := s.Update(a, func(c *Cart) error { return c.Add(pizza(), 1) }); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := s.Get(a); len(got.Lines) != 1 {
		t.Errorf("session a: expected 1 line, got %d", len(got.Lines))
	}
	if got := s.Get(b); len(got.Lines) != 0 {
		t.Errorf("session b: expected empty cart, got %d lines", len(got.Lines))
	}
}

func TestStore_UpdateErrorIsReturned(t *testing.T) {
	s := NewStore()
	id := uuid.New()

	_, err := s.Update(id, func(c *Cart) error { return c.SetQuantity("m3", 2) })
	if !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("got %v, want ErrLineNotFound", err)
	}
}

func TestStore_EmptyCartsAreDropped(t *testing.T) {
	s := NewStore()
	id := uuid.New()

	_, _ = s.Update(id, func(c *Cart) error { return c.Add(pizza(), 1) })
	if s.Len() != 1 {
		t.Fatalf("expected 1 cart, got %d", s.Len())
	}
	_, _ = s.Update(id, func(c *Cart) error { return c.Remove("m3") })
	if s.Len() != 0 {
		t.Errorf("expected empty carts to be dropped, got %d", s.Len())
	}
}

func TestStore_Take(t *testing.T) {
	s := NewStore()
	id := uuid.New()
	_, _ = s.Update(id, func(c *Cart) error {
		c.SetInstructions("ring twice")
		return c.Add(garlicBread(), 2)
	})

	snap := s.Take(id)
	if len(snap.Lines) != 1 || snap.Instructions != "ring twice" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.Totals.Subtotal.Equal(dec("11.98")) {
		t.Errorf("subtotal: got %s, want 11.98", snap.Totals.Subtotal)
	}
	if got := s.Get(id); len(got.Lines) != 0 {
		t.Errorf("cart should be empty after Take, has %d lines", len(got.Lines))
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(id, func(c *Cart) error { return c.Add(pizza(), 1) })
		}()
	}
	wg.Wait()

	got := s.Get(id)
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 50 {
		t.Errorf("expected one line with quantity 50, got %+v", got.Lines)
	}
}
