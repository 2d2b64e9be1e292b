// Package report turns an estimate into the metric table shown to users.
package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Simplici0/ledwall/internal/estimator"
)

var printer = message.NewPrinter(language.English)

// Row is one Metric/Value line of the detail table.
type Row struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// notAvailable stands in for amounts that cannot be shown.
const notAvailable = "n/a"

// Money formats an amount as whole dollars with thousands separators, e.g. $25,500.
// Amounts beyond the int64 range keep their magnitude; NaN and infinities print as n/a.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}

	whole := decimal.NewFromFloat(v).Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}
	return sign + "$" + printer.Sprint(number.Decimal(whole.InexactFloat64(), number.MaxFractionDigits(0)))
}

// Meters formats a length or area with two decimals.
func Meters(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Percent formats a percentage without trailing zeros, e.g. 15%.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Rows builds the detail table. Base rate, hardware, controller and markup
// figures are included only when the result allows detail to be revealed.
func Rows(res estimator.Result) []Row {
	b := res.Breakdown

	rows := []Row{
		{"Width (m)", Meters(b.Width)},
		{"Height (m)", Meters(b.Height)},
		{"Area (m²)", Meters(b.Area)},
		{"Cabinets", strconv.Itoa(b.Cabinets)},
	}

	if res.Variant == estimator.Masked {
		rows = append(rows, Row{"Project Tier", res.Tier.Name})
	}

	if res.RevealDetail {
		rows = append(rows,
			Row{"Per-m² base price", Money(b.BaseRate)},
			Row{"Panels base $", Money(b.BaseHardware)},
			Row{"Controller $", Money(b.ControllerTotal)},
		)
		switch res.Variant {
		case estimator.Transparent:
			rows = append(rows,
				Row{"Extras $", Money(b.ExtrasTotal)},
				Row{"Shipping/Duty %", Percent(b.ShippingPct)},
				Row{"Shipping/Duty $", Money(b.ShippingAmount)},
			)
		case estimator.Masked:
			rows = append(rows,
				Row{"Markup %", Percent(b.MarkupPct)},
				Row{"Markup $", Money(b.MarkupAmount)},
			)
		}
	}

	rows = append(rows,
		Row{"Total per screen $", Money(b.GrandTotal)},
		Row{"Per m² all-in $", Money(b.PerArea)},
		Row{"Per cabinet all-in $", Money(b.PerCabinet)},
		Row{"Order qty", strconv.Itoa(b.Quantity)},
		Row{"Order total $", Money(b.OrderTotal)},
	)

	return rows
}
