package booking

import (
	"math"
	"testing"
)

func TestTotalAppliesTaxOnce(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ServiceID: 1, Quantity: 2, Price: 50},  // 100
		{ServiceID: 2, Quantity: 1, Price: 200}, // 200
	}

	if got, want := Subtotal(items), 300.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Subtotal: got %v, want %v", got, want)
	}

	if got, want := Total(items), 330.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Total: got %v, want %v", got, want)
	}
}

func TestTotalEmptyItems(t *testing.T) {
	t.Parallel()

	if got := Total(nil); got != 0 {
		t.Errorf("Total(nil): got %v, want 0", got)
	}
}
