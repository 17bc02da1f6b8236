// Package pricing derives the stored price fields of a product.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice returns price - price*discount/100 rounded to two decimals.
func FinalPrice(price, discount float64) float64 {
	p := decimal.NewFromFloat(price)
	d := decimal.NewFromFloat(discount)
	f, _ := p.Sub(p.Mul(d).Div(hundred)).Round(2).Float64()
	return f
}

// Profit returns finalPrice - cost rounded to two decimals.
func Profit(finalPrice, cost float64) float64 {
	f, _ := decimal.NewFromFloat(finalPrice).Sub(decimal.NewFromFloat(cost)).Round(2).Float64()
	return f
}

// LineTotal returns unitPrice*quantity rounded to two decimals.
func LineTotal(unitPrice float64, quantity int) float64 {
	f, _ := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2).Float64()
	return f
}

// Equal reports whether two amounts match to the paisa.
func Equal(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
