// Package pricing computes cart totals. All arithmetic is decimal;
// rounding to two places happens only when a value is formatted for
// display, never between steps.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/NisseBoman/EdgeShop/internal/cart"
	"github.com/NisseBoman/EdgeShop/internal/catalog"
)

// VATRate is the flat 25% rate applied to the subtotal. There are no
// per-item tax classes.
var VATRate = decimal.NewFromFloat(0.25)

// ShippingPolicy decides the shipping fee for a given subtotal. Exactly
// one policy is active at a time, chosen in configuration.
type ShippingPolicy interface {
	Fee(subtotal decimal.Decimal) decimal.Decimal
	Name() string
}

// FlatShipping charges the same fee regardless of subtotal.
type FlatShipping struct {
	Amount decimal.Decimal
}

func (s FlatShipping) Fee(decimal.Decimal) decimal.Decimal { return s.Amount }
func (s FlatShipping) Name() string                        { return "flat" }

// ThresholdShipping waives the fee at or above FreeAtOrAbove. This is the
// storefront's default: $10, free from $500.
type ThresholdShipping struct {
	Amount        decimal.Decimal
	FreeAtOrAbove decimal.Decimal
}

func (s ThresholdShipping) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(s.FreeAtOrAbove) {
		return decimal.Zero
	}
	return s.Amount
}

func (s ThresholdShipping) Name() string { return "threshold" }

// DefaultShipping returns the reference policy.
func DefaultShipping() ShippingPolicy {
	return ThresholdShipping{
		Amount:        decimal.NewFromInt(10),
		FreeAtOrAbove: decimal.NewFromInt(500),
	}
}

// Totals carries the computed amounts, unrounded.
type Totals struct {
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// FreeShipping reports whether the active policy charged nothing.
func (t Totals) FreeShipping() bool { return t.Shipping.IsZero() }

// Compute sums price*qty over the cart. A cart entry whose id is not in the
// catalog contributes nothing — it is skipped, not an error.
func Compute(c cart.Cart, cat catalog.Catalog, shipping ShippingPolicy) Totals {
	subtotal := decimal.Zero
	for key, qty := range c {
		id, ok := cart.ProductID(key)
		if !ok {
			continue
		}
		p, ok := cat.Find(id)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	vat := subtotal.Mul(VATRate)
	fee := shipping.Fee(subtotal)

	return Totals{
		Subtotal: subtotal,
		VAT:      vat,
		Shipping: fee,
		Total:    subtotal.Add(vat).Add(fee),
	}
}

// Formatted is Totals rendered as two-decimal strings for page templates
// and the cart API.
type Formatted struct {
	Subtotal string `json:"subtotal"`
	VAT      string `json:"vat"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

func (t Totals) Format() Formatted {
	return Formatted{
		Subtotal: t.Subtotal.StringFixed(2),
		VAT:      t.VAT.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	}
}
