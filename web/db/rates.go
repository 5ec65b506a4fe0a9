package db

const (
	USDKESPair        = "USD_KES"
	DefaultUSDKESRate = 130.00
)

// ActiveExchangeRate returns the admin-maintained USD→KES rate, falling
// back to the default when no row exists. Read fresh on every call, never
// cached: checkout must always see the latest admin update.
func ActiveExchangeRate() (rate float64, source string) {
	var row ExchangeRate
	err := DB.Where("currency = ? AND is_active = ?", USDKESPair, true).First(&row).Error
	if err != nil {
		return DefaultUSDKESRate, "default"
	}
	return row.Rate, row.Source
}
