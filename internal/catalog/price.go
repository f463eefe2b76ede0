package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/unicornstore/prebook/internal/domain"
)

var indianEnglish = language.MustParse("en-IN")

// Quote is the price breakdown shown next to a resolved variant
type Quote struct {
	Variant        domain.Variant `json:"variant"`
	DisplayPrice   int64          `json:"displayPrice"`
	FormattedPrice string         `json:"formattedPrice"`
	FormattedMRP   string         `json:"formattedMrp"`
	Discount       int64          `json:"discount"`
	ShowDiscount   bool           `json:"showDiscount"`
}

// QuoteFor derives the display price of a variant
func QuoteFor(v domain.Variant) Quote {
	price := v.DisplayPrice()
	return Quote{
		Variant:        v,
		DisplayPrice:   price,
		FormattedPrice: FormatINR(price),
		FormattedMRP:   FormatINR(v.MRP),
		Discount:       v.Discount,
		ShowDiscount:   v.HasDiscount(),
	}
}

// FormatINR renders a rupee amount with locale digit grouping
func FormatINR(amount int64) string {
	return message.NewPrinter(indianEnglish).Sprintf("₹%d", amount)
}
