package pricing

import (
	"fmt"
	"strings"
)

// Mode selects how the per-m² base rate is obtained.
type Mode string

const (
	// ModeTiered derives the rate from the order quantity.
	ModeTiered Mode = "tiered"
	// ModeCustom uses a rate supplied by the caller.
	ModeCustom Mode = "custom"
)

// ParseMode accepts "tiered" or "custom" in any case.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeTiered, "":
		return ModeTiered, nil
	case ModeCustom:
		return ModeCustom, nil
	default:
		return "", fmt.Errorf("unknown pricing mode %q", raw)
	}
}

// Input represents the screen-level inputs shared by both roll-up policies.
type Input struct {
	Wall           WallSpec
	Quantity       int
	Mode           Mode
	CustomRate     float64
	ControllerCost float64
}

// Breakdown contains all intermediate and line-item values of one computation.
// Shipping fields are set by the transparent roll-up and markup fields by the masked one.
type Breakdown struct {
	Columns         int     `json:"columns"`
	Rows            int     `json:"rows"`
	Width           float64 `json:"width_m"`
	Height          float64 `json:"height_m"`
	Area            float64 `json:"area_m2"`
	Cabinets        int     `json:"cabinets"`
	BaseRate        float64 `json:"base_price_m2"`
	BaseHardware    float64 `json:"base_hardware"`
	ControllerTotal float64 `json:"controller_total"`
	Extras          []Extra `json:"extras,omitempty"`
	ExtrasTotal     float64 `json:"extras_total"`
	Subtotal        float64 `json:"subtotal"`
	ShippingPct     float64 `json:"shipping_pct"`
	ShippingAmount  float64 `json:"shipping_amount"`
	MarkupPct       float64 `json:"markup_pct"`
	MarkupAmount    float64 `json:"markup_amount"`
	GrandTotal      float64 `json:"grand_total"`
	PerArea         float64 `json:"per_m2"`
	PerCabinet      float64 `json:"per_cabinet"`
	Quantity        int     `json:"quantity"`
	OrderTotal      float64 `json:"order_total"`
}

// Config holds the static tables injected into an Engine.
type Config struct {
	Calibration Calibration
	Tiers       TierTable
}

// DefaultConfig returns the stock calibration and tier table.
func DefaultConfig() Config {
	return Config{Calibration: DefaultCalibration(), Tiers: DefaultTiers()}
}

// Engine computes cost breakdowns. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rates *Interpolator
	tiers TierTable
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	rates, err := NewInterpolator(cfg.Calibration)
	if err != nil {
		return nil, fmt.Errorf("build interpolator: %w", err)
	}
	if len(cfg.Tiers.Tiers()) == 0 {
		return nil, fmt.Errorf("tier table is empty")
	}
	return &Engine{rates: rates, tiers: cfg.Tiers}, nil
}

// Tiers returns the tier table the engine was built with.
func (e *Engine) Tiers() TierTable {
	return e.tiers
}

// Calibration returns the interpolation points the engine was built with.
func (e *Engine) Calibration() Calibration {
	return e.rates.Calibration()
}

// BaseRate resolves the per-m² rate for the input's pricing mode.
func (e *Engine) BaseRate(in Input) float64 {
	if in.Mode == ModeCustom {
		return in.CustomRate
	}
	return e.rates.Rate(in.Quantity)
}

// Transparent itemizes extras and shipping/duty on top of the hardware subtotal.
func (e *Engine) Transparent(in Input, shippingPct float64, extras []Extra) Breakdown {
	b := e.base(in)

	b.Extras = append([]Extra(nil), extras...)
	b.ExtrasTotal = ExtrasTotal(extras)
	b.Subtotal = b.BaseHardware + b.ControllerTotal + b.ExtrasTotal
	b.ShippingPct = shippingPct
	b.ShippingAmount = b.Subtotal * shippingPct / 100.0
	b.GrandTotal = b.Subtotal + b.ShippingAmount

	finish(&b)
	return b
}

// Masked applies a single markup percentage and omits extras.
func (e *Engine) Masked(in Input, markupPct float64) Breakdown {
	b := e.base(in)

	b.Subtotal = b.BaseHardware + b.ControllerTotal
	b.MarkupPct = markupPct
	b.MarkupAmount = b.Subtotal * markupPct / 100.0
	b.GrandTotal = b.Subtotal + b.MarkupAmount

	finish(&b)
	return b
}

func (e *Engine) base(in Input) Breakdown {
	rate := e.BaseRate(in)
	area := in.Wall.Area()

	return Breakdown{
		Columns:         in.Wall.Columns,
		Rows:            in.Wall.Rows,
		Width:           in.Wall.Width(),
		Height:          in.Wall.Height(),
		Area:            area,
		Cabinets:        in.Wall.Cabinets(),
		BaseRate:        rate,
		BaseHardware:    area * rate,
		ControllerTotal: in.ControllerCost,
		Quantity:        in.Quantity,
	}
}

func finish(b *Breakdown) {
	if b.Area > 0 {
		b.PerArea = b.GrandTotal / b.Area
	}
	if b.Cabinets > 0 {
		b.PerCabinet = b.GrandTotal / float64(b.Cabinets)
	}
	b.OrderTotal = b.GrandTotal * float64(b.Quantity)
}
