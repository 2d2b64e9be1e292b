package report

import (
	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
)

// Breakdown mirrors pricing.Breakdown. Pointer fields are left nil,
// and so dropped from the JSON, when the caller may not see them.
type Breakdown struct {
	Columns         int             `json:"columns"`
	Rows            int             `json:"rows"`
	Width           float64         `json:"width_m"`
	Height          float64         `json:"height_m"`
	Area            float64         `json:"area_m2"`
	Cabinets        int             `json:"cabinets"`
	BaseRate        *float64        `json:"base_price_m2,omitempty"`
	BaseHardware    *float64        `json:"base_hardware,omitempty"`
	ControllerTotal *float64        `json:"controller_total,omitempty"`
	Extras          []pricing.Extra `json:"extras,omitempty"`
	ExtrasTotal     *float64        `json:"extras_total,omitempty"`
	Subtotal        *float64        `json:"subtotal,omitempty"`
	ShippingPct     *float64        `json:"shipping_pct,omitempty"`
	ShippingAmount  *float64        `json:"shipping_amount,omitempty"`
	MarkupPct       *float64        `json:"markup_pct,omitempty"`
	MarkupAmount    *float64        `json:"markup_amount,omitempty"`
	GrandTotal      float64         `json:"grand_total"`
	PerArea         float64         `json:"per_m2"`
	PerCabinet      float64         `json:"per_cabinet"`
	Quantity        int             `json:"quantity"`
	OrderTotal      float64         `json:"order_total"`
}

// Estimate is the machine-readable form of a result.
type Estimate struct {
	Variant       estimator.Variant `json:"variant"`
	Level         string            `json:"level"`
	RevealDetail  bool              `json:"reveal_detail"`
	CanSelectTier bool              `json:"can_select_tier"`
	Tier          string            `json:"tier,omitempty"`
	Breakdown     Breakdown         `json:"breakdown"`
	Rows          []Row             `json:"rows"`
}

// NewEstimate builds the redacted view of res.
func NewEstimate(res estimator.Result) Estimate {
	b := res.Breakdown
	out := Breakdown{
		Columns:    b.Columns,
		Rows:       b.Rows,
		Width:      b.Width,
		Height:     b.Height,
		Area:       b.Area,
		Cabinets:   b.Cabinets,
		GrandTotal: b.GrandTotal,
		PerArea:    b.PerArea,
		PerCabinet: b.PerCabinet,
		Quantity:   b.Quantity,
		OrderTotal: b.OrderTotal,
	}

	if res.RevealDetail {
		out.BaseRate = ptr(b.BaseRate)
		out.BaseHardware = ptr(b.BaseHardware)
		out.ControllerTotal = ptr(b.ControllerTotal)
		out.Subtotal = ptr(b.Subtotal)
		if res.Variant == estimator.Masked {
			out.MarkupPct = ptr(b.MarkupPct)
			out.MarkupAmount = ptr(b.MarkupAmount)
		}
	}
	if res.Variant == estimator.Transparent {
		out.Extras = b.Extras
		out.ExtrasTotal = ptr(b.ExtrasTotal)
		out.ShippingPct = ptr(b.ShippingPct)
		out.ShippingAmount = ptr(b.ShippingAmount)
	}

	return Estimate{
		Variant:       res.Variant,
		Level:         res.Level.String(),
		RevealDetail:  res.RevealDetail,
		CanSelectTier: res.CanSelectTier,
		Tier:          res.Tier.Name,
		Breakdown:     out,
		Rows:          Rows(res),
	}
}

func ptr(v float64) *float64 {
	return &v
}
