package product

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// maxPrice is the first value that no longer fits NUMERIC(12,2).
	maxPrice = decimal.New(1, 10)
)

// FinalPrice returns price reduced by discount percent, rounded to cents.
func FinalPrice(price, discount decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discount.Div(hundred))
	return price.Mul(factor).Round(2)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}
