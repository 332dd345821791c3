// Package ratecard converts persisted rate card records into pricing inputs and
// derives the operations cost, department split and profitability shown on every
// rate card and CMT quotation surface.
package ratecard

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/stitchworks/internal/money"
	"github.com/Simplici0/stitchworks/internal/pricing"
)

// Department buckets used to split the operations cost.
const (
	DepartmentSinger    = "Stitching (Singer)"
	DepartmentPowerLine = "Stitching (Power Table) - Overlock/Flatlock"
	DepartmentOther     = "Other"
)

// CategoryRecord is a cost category as stored. Older records name the category
// through customName or job_name instead of name.
type CategoryRecord struct {
	Name       string `json:"name,omitempty"`
	CustomName string `json:"customName,omitempty"`
	JobName    string `json:"job_name,omitempty"`
	Rate       any    `json:"rate"`
}

// OperationRecord is an operation line as stored in a rate card.
type OperationRecord struct {
	OperationName     string           `json:"operation_name"`
	Categories        []CategoryRecord `json:"categories"`
	CommissionPercent any              `json:"commission_percent,omitempty"`
	RoundOff          any              `json:"round_off"`
}

// Record is a rate card: a style, its per-piece rate and its operations.
type Record struct {
	ID           int64             `json:"id,omitempty"`
	StyleName    string            `json:"style_name"`
	RatePerPiece any               `json:"rate_per_piece"`
	Notes        string            `json:"notes,omitempty"`
	Operations   []OperationRecord `json:"operations"`
	CreatedAt    string            `json:"created_at,omitempty"`
}

// Summary is the derived view of a rate card.
type Summary struct {
	StyleName    string                     `json:"style_name"`
	RatePerPiece decimal.Decimal            `json:"rate_per_piece"`
	Operations   []pricing.OperationSummary `json:"operations"`
	Departments  []pricing.GroupTotal       `json:"departments"`
	TotalCost    decimal.Decimal            `json:"total_cost"`
	pricing.Profitability
}

// Label returns the first non-empty category name.
func (c CategoryRecord) Label() string {
	for _, name := range []string{c.Name, c.CustomName, c.JobName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return ""
}

// Operation converts the stored line into a fully populated pricing.Operation.
func (o OperationRecord) Operation() pricing.Operation {
	op := pricing.Operation{
		OperationName:     strings.TrimSpace(o.OperationName),
		Categories:        make([]pricing.CostCategory, 0, len(o.Categories)),
		CommissionPercent: money.Coerce(o.CommissionPercent),
		RoundOff:          roundOff(o.RoundOff),
	}
	for _, c := range o.Categories {
		op.Categories = append(op.Categories, pricing.CostCategory{
			Name: c.Label(),
			Rate: money.Coerce(c.Rate),
		})
	}
	return op
}

// PricingOperations converts every stored operation line.
func (r Record) PricingOperations() []pricing.Operation {
	ops := make([]pricing.Operation, 0, len(r.Operations))
	for _, o := range r.Operations {
		ops = append(ops, o.Operation())
	}
	return ops
}

// roundOff treats null and blank values as "no override".
func roundOff(v any) *decimal.Decimal {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(s) == "" {
			return nil
		}
	case *decimal.Decimal:
		if s == nil {
			return nil
		}
	}
	value := money.Coerce(v)
	return &value
}

// Department classifies an operation by its name.
func Department(op pricing.Operation) string {
	name := strings.ToLower(op.OperationName)
	switch {
	case strings.Contains(name, "power table"),
		strings.Contains(name, "overlock"),
		strings.Contains(name, "flatlock"):
		return DepartmentPowerLine
	case strings.Contains(name, "singer"),
		strings.Contains(name, "stitch"):
		return DepartmentSinger
	}
	return DepartmentOther
}

// Summarize rolls up the record's operations by department and compares the
// total against the per-piece rate.
func Summarize(r Record) Summary {
	rollup := pricing.RollupOperations(r.PricingOperations(), Department)
	rate := money.Coerce(r.RatePerPiece)

	return Summary{
		StyleName:     strings.TrimSpace(r.StyleName),
		RatePerPiece:  rate,
		Operations:    rollup.Summaries,
		Departments:   rollup.Groups,
		TotalCost:     rollup.TotalCost,
		Profitability: pricing.ComputeProfitability(rollup.TotalCost, rate),
	}
}
