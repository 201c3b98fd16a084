package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PolicyFromStrings builds the configured shipping policy. policy must be
// "flat" or "threshold"; fee and freeAtOrAbove are decimal strings
// (freeAtOrAbove is ignored for flat).
func PolicyFromStrings(policy, fee, freeAtOrAbove string) (ShippingPolicy, error) {
	amount, err := decimal.NewFromString(fee)
	if err != nil {
		return nil, fmt.Errorf("shipping fee %q: %w", fee, err)
	}

	switch policy {
	case "flat":
		return FlatShipping{Amount: amount}, nil
	case "threshold":
		limit, err := decimal.NewFromString(freeAtOrAbove)
		if err != nil {
			return nil, fmt.Errorf("shipping free_at_or_above %q: %w", freeAtOrAbove, err)
		}
		return ThresholdShipping{Amount: amount, FreeAtOrAbove: limit}, nil
	default:
		return nil, fmt.Errorf("unknown shipping policy %q", policy)
	}
}
