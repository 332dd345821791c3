package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Breakdown entry types.
const (
	EntryCombo   = "combo"
	EntryRegular = "regular"
)

var hundred = decimal.NewFromInt(100)

// ComboTier is a fixed total price for a bundle of exactly MinQuantity units.
type ComboTier struct {
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
}

// PriceBreakdownEntry is one slice of an order priced either as a combo bundle or at the regular unit price.
type PriceBreakdownEntry struct {
	Type     string          `json:"type"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ComboPriceResult groups the breakdown and totals of a combo price calculation.
type ComboPriceResult struct {
	Breakdown     []PriceBreakdownEntry `json:"breakdown"`
	FinalPrice    decimal.Decimal       `json:"final_price"`
	OriginalPrice decimal.Decimal       `json:"original_price"`
	Savings       decimal.Decimal       `json:"savings"`
}

// ComputeComboPrice prices quantity units of a product, filling the largest combo bundles first
// and charging the discounted unit price for whatever is left over.
//
// OriginalPrice is always quantity × basePrice, independent of combos and discount.
// Tiers are not required to be sorted; discountPercent is clamped into [0, 100].
func ComputeComboPrice(quantity int, basePrice decimal.Decimal, tiers []ComboTier, discountPercent decimal.Decimal) ComboPriceResult {
	result := ComboPriceResult{Breakdown: []PriceBreakdownEntry{}}
	if quantity <= 0 || !basePrice.IsPositive() {
		return result
	}

	remaining := quantity
	finalPrice := decimal.Zero
	for _, tier := range sortTiers(tiers) {
		for remaining >= tier.MinQuantity {
			result.Breakdown = append(result.Breakdown, PriceBreakdownEntry{
				Type:     EntryCombo,
				Quantity: tier.MinQuantity,
				Price:    tier.Price,
			})
			remaining -= tier.MinQuantity
			finalPrice = finalPrice.Add(tier.Price)
		}
	}

	if remaining > 0 {
		unitPrice := basePrice.Mul(decimal.NewFromInt(1).Sub(clampPercent(discountPercent).Div(hundred)))
		regular := unitPrice.Mul(decimal.NewFromInt(int64(remaining)))
		result.Breakdown = append(result.Breakdown, PriceBreakdownEntry{
			Type:     EntryRegular,
			Quantity: remaining,
			Price:    regular,
		})
		finalPrice = finalPrice.Add(regular)
	}

	result.FinalPrice = finalPrice
	result.OriginalPrice = basePrice.Mul(decimal.NewFromInt(int64(quantity)))
	result.Savings = result.OriginalPrice.Sub(finalPrice)
	return result
}

// sortTiers returns the usable tiers ordered largest bundle first, cheapest first among equal sizes.
// The caller's slice is left untouched.
func sortTiers(tiers []ComboTier) []ComboTier {
	sorted := make([]ComboTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.MinQuantity < 1 {
			continue
		}
		if tier.Price.IsNegative() {
			tier.Price = decimal.Zero
		}
		sorted = append(sorted, tier)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MinQuantity != sorted[j].MinQuantity {
			return sorted[i].MinQuantity > sorted[j].MinQuantity
		}
		return sorted[i].Price.LessThan(sorted[j].Price)
	})
	return sorted
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
