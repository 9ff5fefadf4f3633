package calculation

import (
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/shopspring/decimal"
)

// BlendedReturn weights each asset class's expected return by its allocation
// percentage. The result is an annual percentage.
func BlendedReturn(allocations []domain.Allocation, returns map[domain.AssetClass]domain.AssetReturn) (decimal.Decimal, error) {
	total := decimalZero
	for _, a := range allocations {
		if a.Percentage == 0 {
			continue
		}
		ar, ok := returns[a.AssetClass]
		if !ok {
			return decimalZero, domain.NewInvalidInput("blended_return", "asset_class",
				fmt.Sprintf("no expected return for %s", a.AssetClass))
		}
		total = total.Add(ar.Return.Mul(decimal.NewFromInt(int64(a.Percentage))))
	}
	return total.Div(decimalHundred), nil
}

// BlendedRisk is the allocation-weighted risk score, on the same scale as AssetReturn.Risk
func BlendedRisk(allocations []domain.Allocation, returns map[domain.AssetClass]domain.AssetReturn) decimal.Decimal {
	total := decimalZero
	for _, a := range allocations {
		if ar, ok := returns[a.AssetClass]; ok {
			total = total.Add(ar.Risk.Mul(decimal.NewFromInt(int64(a.Percentage))))
		}
	}
	return total.Div(decimalHundred)
}
