package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToSubunit(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"10.00", "USD", 1000},
		{"10.005", "USD", 1001},
		{"10.004", "USD", 1000},
		{"500", "JPY", 500},
		{"500.4", "JPY", 500},
		{"0.01", "THB", 1},
		{"99.99", "gbp", 9999},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("bad test amount %s: %v", tc.amount, err)
		}
		got, err := ToSubunit(amount, tc.currency)
		if err != nil {
			t.Fatalf("ToSubunit(%s, %s) failed: %v", tc.amount, tc.currency, err)
		}
		if got != tc.want {
			t.Fatalf("ToSubunit(%s, %s) = %d, want %d", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestToSubunitUnsupportedCurrency(t *testing.T) {
	_, err := ToSubunit(decimal.NewFromInt(10), "BTC")
	if !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
}

func TestFromSubunitRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("123.45")
	sub, err := ToSubunit(amount, "SGD")
	if err != nil {
		t.Fatalf("ToSubunit failed: %v", err)
	}
	back, err := FromSubunit(sub, "SGD")
	if err != nil {
		t.Fatalf("FromSubunit failed: %v", err)
	}
	if !back.Equal(amount) {
		t.Fatalf("round trip mismatch: got %s, want %s", back, amount)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("usd") {
		t.Fatal("expected usd to be supported")
	}
	if IsSupported("XYZ") {
		t.Fatal("expected XYZ to be unsupported")
	}
}
