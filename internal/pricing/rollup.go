package pricing

import "github.com/shopspring/decimal"

// CostCategory is one named cost component of an operation.
type CostCategory struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// Operation is a production step with its cost categories, an optional commission
// and an optional manual round-off that replaces the computed total.
type Operation struct {
	OperationName     string           `json:"operation_name"`
	Categories        []CostCategory   `json:"categories"`
	CommissionPercent decimal.Decimal  `json:"commission_percent"`
	RoundOff          *decimal.Decimal `json:"round_off"`
}

// OperationSummary holds the derived totals of a single operation.
type OperationSummary struct {
	OperationName     string           `json:"operation_name"`
	CategoriesTotal   decimal.Decimal  `json:"categories_total"`
	CommissionPercent decimal.Decimal  `json:"commission_percent"`
	CommissionAmount  decimal.Decimal  `json:"commission_amount"`
	CalculatedTotal   decimal.Decimal  `json:"calculated_total"`
	RoundOff          *decimal.Decimal `json:"round_off"`
	Adjustment        decimal.Decimal  `json:"adjustment"`
	FinalTotal        decimal.Decimal  `json:"final_total"`
}

// GroupTotal is the summed final total of the operations sharing one group key.
type GroupTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// RollupResult aggregates operation summaries. Groups keep first-seen order.
type RollupResult struct {
	TotalCost decimal.Decimal    `json:"total_cost"`
	Groups    []GroupTotal       `json:"groups"`
	Summaries []OperationSummary `json:"summaries"`
}

// Group returns the total for key and whether the key was seen.
func (r RollupResult) Group(key string) (decimal.Decimal, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g.Total, true
		}
	}
	return decimal.Zero, false
}

// Profitability compares the operations cost against the per-piece rate.
type Profitability struct {
	CompanyProfit decimal.Decimal `json:"company_profit"`
	ProfitPercent decimal.Decimal `json:"profit_percent"`
}

// SummarizeOperation derives commission, round-off adjustment and final total for op.
func SummarizeOperation(op Operation) OperationSummary {
	categoriesTotal := decimal.Zero
	for _, c := range op.Categories {
		categoriesTotal = categoriesTotal.Add(c.Rate)
	}

	commissionAmount := categoriesTotal.Mul(op.CommissionPercent).Div(hundred)
	calculatedTotal := categoriesTotal.Add(commissionAmount)

	summary := OperationSummary{
		OperationName:     op.OperationName,
		CategoriesTotal:   categoriesTotal,
		CommissionPercent: op.CommissionPercent,
		CommissionAmount:  commissionAmount,
		CalculatedTotal:   calculatedTotal,
		Adjustment:        decimal.Zero,
		FinalTotal:        calculatedTotal,
	}

	if op.RoundOff != nil {
		roundOff := *op.RoundOff
		summary.RoundOff = &roundOff
		summary.Adjustment = roundOff.Sub(calculatedTotal)
		summary.FinalTotal = roundOff
	}

	return summary
}

// RollupOperations summarizes every operation and sums their final totals.
// When groupKey is non-nil the totals are also accumulated per key.
func RollupOperations(ops []Operation, groupKey func(Operation) string) RollupResult {
	result := RollupResult{
		TotalCost: decimal.Zero,
		Groups:    []GroupTotal{},
		Summaries: make([]OperationSummary, 0, len(ops)),
	}

	index := make(map[string]int)
	for _, op := range ops {
		summary := SummarizeOperation(op)
		result.Summaries = append(result.Summaries, summary)
		result.TotalCost = result.TotalCost.Add(summary.FinalTotal)

		if groupKey == nil {
			continue
		}
		key := groupKey(op)
		i, ok := index[key]
		if !ok {
			i = len(result.Groups)
			index[key] = i
			result.Groups = append(result.Groups, GroupTotal{Key: key, Total: decimal.Zero})
		}
		result.Groups[i].Total = result.Groups[i].Total.Add(summary.FinalTotal)
	}

	return result
}

// ComputeProfitability returns the profit per piece and its share of the rate.
// A non-positive rate yields a zero percentage.
func ComputeProfitability(totalOperationsCost, ratePerPiece decimal.Decimal) Profitability {
	profit := ratePerPiece.Sub(totalOperationsCost)
	percent := decimal.Zero
	if ratePerPiece.IsPositive() {
		percent = profit.Div(ratePerPiece).Mul(hundred)
	}
	return Profitability{CompanyProfit: profit, ProfitPercent: percent}
}
