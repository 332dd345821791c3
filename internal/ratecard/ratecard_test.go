package ratecard

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/stitchworks/internal/pricing"
)

func decEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s = %s, want %s", name, got, want)
}

const sampleCard = `{
	"style_name": "Crew neck tee",
	"rate_per_piece": "40",
	"operations": [
		{
			"operation_name": "Singer shoulder join",
			"categories": [{"name": "Join", "rate": 4}, {"customName": "Tape", "rate": "1.5"}],
			"commission_percent": 10,
			"round_off": null
		},
		{
			"operation_name": "Overlock side seam",
			"categories": [{"job_name": "Side seam", "rate": 6}],
			"round_off": 7
		},
		{
			"operation_name": "Power Table hemming",
			"categories": [{"rate": null}, {"name": "Hem", "rate": "abc"}, {"name": "Bottom", "rate": 3}]
		},
		{
			"operation_name": "Checking & packing",
			"categories": [{"name": "QC", "rate": 2.25}],
			"commission_percent": "",
			"round_off": ""
		}
	]
}`

func TestSummarize_SampleCard(t *testing.T) {
	rec, err := Decode(strings.NewReader(sampleCard))
	require.NoError(t, err)

	summary := Summarize(rec)

	require.Len(t, summary.Operations, 4)
	decEqual(t, "singer final", summary.Operations[0].FinalTotal, "6.05")
	decEqual(t, "overlock final", summary.Operations[1].FinalTotal, "7")
	decEqual(t, "overlock adjustment", summary.Operations[1].Adjustment, "1")
	decEqual(t, "power table final", summary.Operations[2].FinalTotal, "3")
	decEqual(t, "checking final", summary.Operations[3].FinalTotal, "2.25")
	assert.Nil(t, summary.Operations[3].RoundOff)

	decEqual(t, "totalCost", summary.TotalCost, "18.3")
	decEqual(t, "ratePerPiece", summary.RatePerPiece, "40")
	decEqual(t, "companyProfit", summary.CompanyProfit, "21.7")
	decEqual(t, "profitPercent", summary.ProfitPercent, "54.25")

	require.Len(t, summary.Departments, 3)
	assert.Equal(t, DepartmentSinger, summary.Departments[0].Key)
	decEqual(t, "singer dept", summary.Departments[0].Total, "6.05")
	assert.Equal(t, DepartmentPowerLine, summary.Departments[1].Key)
	decEqual(t, "power line dept", summary.Departments[1].Total, "10")
	assert.Equal(t, DepartmentOther, summary.Departments[2].Key)
	decEqual(t, "other dept", summary.Departments[2].Total, "2.25")
}

func TestOperationRecord_Defaults(t *testing.T) {
	op := OperationRecord{
		OperationName: "  Button hole  ",
		Categories: []CategoryRecord{
			{Name: " ", CustomName: "Custom", JobName: "Job", Rate: 2},
			{JobName: "Job only", Rate: json.Number("1.25")},
			{},
		},
	}.Operation()

	assert.Equal(t, "Button hole", op.OperationName)
	require.Len(t, op.Categories, 3)
	assert.Equal(t, "Custom", op.Categories[0].Name)
	assert.Equal(t, "Job only", op.Categories[1].Name)
	assert.Equal(t, "", op.Categories[2].Name)
	decEqual(t, "empty rate", op.Categories[2].Rate, "0")
	decEqual(t, "commission", op.CommissionPercent, "0")
	assert.Nil(t, op.RoundOff)
}

func TestOperationRecord_RoundOff(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"number", json.Number("12.5"), "12.5"},
		{"float", 9.0, "9"},
		{"string", "15", "15"},
		{"zero is an override", 0, "0"},
		{"garbage becomes zero override", "n/a", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := OperationRecord{RoundOff: tt.in}.Operation()
			require.NotNil(t, op.RoundOff)
			decEqual(t, "roundOff", *op.RoundOff, tt.want)
		})
	}
}

func TestDepartment(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Singer collar", DepartmentSinger},
		{"Stitching (Singer) - sleeve", DepartmentSinger},
		{"Stitching (Power Table) - Overlock/Flatlock", DepartmentPowerLine},
		{"FLATLOCK bottom hem", DepartmentPowerLine},
		{"overlock armhole", DepartmentPowerLine},
		{"Cutting", DepartmentOther},
		{"", DepartmentOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Department(pricing.Operation{OperationName: tt.name}))
		})
	}
}

func TestSummarize_ZeroRate(t *testing.T) {
	summary := Summarize(Record{
		StyleName: "Sample",
		Operations: []OperationRecord{
			{OperationName: "Cutting", Categories: []CategoryRecord{{Name: "Cut", Rate: 5}}},
		},
	})

	decEqual(t, "totalCost", summary.TotalCost, "5")
	decEqual(t, "companyProfit", summary.CompanyProfit, "-5")
	decEqual(t, "profitPercent", summary.ProfitPercent, "0")
}

func TestDecode_RejectsMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"style_name": `))
	assert.Error(t, err)
}
