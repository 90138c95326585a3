package menu

import (
	"strconv"
	"strings"
)

// Currency is a selectable board currency
type Currency struct {
	Code   string `json:"value"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// Currencies lists the supported currencies in display order
var Currencies = []Currency{
	{Code: "KRW", Label: "🇰🇷 KRW - Korean Won", Symbol: "₩"},
	{Code: "JPY", Label: "🇯🇵 JPY - Japanese Yen", Symbol: "¥"},
	{Code: "USD", Label: "🇺🇸 USD - US Dollar", Symbol: "$"},
	{Code: "EUR", Label: "🇪🇺 EUR - Euro", Symbol: "€"},
	{Code: "CNY", Label: "🇨🇳 CNY - Chinese Yuan", Symbol: "¥"},
	{Code: "GBP", Label: "🇬🇧 GBP - British Pound", Symbol: "£"},
}

func lookupCurrency(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// CurrencySymbol returns the symbol for code, or code itself when unknown
func CurrencySymbol(code string) string {
	if c, ok := lookupCurrency(code); ok {
		return c.Symbol
	}
	return code
}

// CurrencyLabel returns the display label for code, or code itself when unknown
func CurrencyLabel(code string) string {
	if c, ok := lookupCurrency(code); ok {
		return c.Label
	}
	return code
}

// FormatPrice renders a whole-unit amount with thousands separators.
// Known currencies are prefixed with their symbol; unknown codes are appended.
func FormatPrice(code string, amount int64) string {
	if code == "" {
		code = DefaultCurrency
	}
	n := group(amount)
	if c, ok := lookupCurrency(code); ok {
		return c.Symbol + n
	}
	return n + " " + code
}

func group(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
