package pesapal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Channel maps a buyer-selected payment method onto the gateway's channel
// code.
func Channel(method string) string {
	switch strings.ToLower(method) {
	case "mpesa":
		return "MPESA"
	case "card":
		return "CREDITCARD"
	case "bank":
		return "BANK"
	default:
		return "ALL"
	}
}

// SettlementCurrency: M-Pesa settles in KES, everything else in USD.
func SettlementCurrency(method string) string {
	if strings.ToLower(method) == "mpesa" {
		return "KES"
	}
	return "USD"
}

// ConvertForChannel converts a USD total into the channel's settlement
// currency using the given USD→KES rate. KES has no subunit in practice,
// so KES amounts round to whole shillings; USD amounts pass through
// rounded to cents.
func ConvertForChannel(amountUSD float64, method string, rate float64) (float64, string) {
	if SettlementCurrency(method) == "KES" {
		kes, _ := decimal.NewFromFloat(amountUSD).Mul(decimal.NewFromFloat(rate)).Round(0).Float64()
		return kes, "KES"
	}
	return Round2(amountUSD), "USD"
}

// Round2 rounds to two decimal places, the storefront's money precision.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
