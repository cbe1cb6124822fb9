package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyOrder means there is nothing to total. An empty order never totals to zero.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidItem covers a non-positive quantity or a negative price.
	ErrInvalidItem = errors.New("order item is invalid")
)

// Item is one catalogue line of a WhatsApp order message.
type Item struct {
	ProductID string          `json:"product_retailer_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"item_price" swaggertype:"number"`
	Currency  string          `json:"currency"`
}

// Subtotal is quantity x unit price.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

func (i Item) validate(idx int) error {
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: item %d (%s) has quantity %d", ErrInvalidItem, idx, i.ProductID, i.Quantity)
	}
	if i.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: item %d (%s) has negative price %s", ErrInvalidItem, idx, i.ProductID, i.UnitPrice)
	}
	return nil
}

// Validate checks every item and rejects an empty sequence.
func Validate(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for idx, item := range items {
		if err := item.validate(idx); err != nil {
			return err
		}
	}
	return nil
}

// Total sums quantity x unit price over all items.
func Total(items []Item) (decimal.Decimal, error) {
	if err := Validate(items); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total, nil
}

// Currency is the currency the order total is reported in: the first item's,
// falling back to USD when the catalogue did not set one.
func Currency(items []Item) string {
	if len(items) > 0 && items[0].Currency != "" {
		return items[0].Currency
	}
	return "USD"
}

// zeroDecimal lists the currencies Stripe charges in whole units.
var zeroDecimal = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true,
	"JPY": true, "KMF": true, "KRW": true, "MGA": true,
	"PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// Exponent is the number of decimal places in currency's minor unit.
func Exponent(currency string) int32 {
	if zeroDecimal[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

// MinorUnits converts a price to the integer amount payment providers expect
// (pence, cents, whole yen). Rounds half away from zero.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(Exponent(currency)).Round(0).IntPart()
}

// FromMinorUnits is the inverse of MinorUnits.
func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	return decimal.New(minor, -Exponent(currency))
}
