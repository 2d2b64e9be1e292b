// Package estimator is the call boundary used by the web and CLI front ends.
// It validates a request, resolves access and tier, and runs the pricing engine.
package estimator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/ledwall/internal/access"
	"github.com/Simplici0/ledwall/internal/pricing"
)

var (
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidRate      = errors.New("invalid rate")
	ErrInvalidShipping  = errors.New("invalid shipping percentage")
)

// Variant selects how costs beyond hardware are presented.
type Variant string

const (
	// Transparent itemizes extras and shipping/duty and always shows every figure.
	Transparent Variant = "transparent"
	// Masked folds a tier markup into the totals and hides base figures from standard viewers.
	Masked Variant = "masked"
)

// ParseVariant accepts "transparent" or "masked" in any case.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(raw))) {
	case Transparent:
		return Transparent, nil
	case Masked:
		return Masked, nil
	default:
		return "", fmt.Errorf("unknown pricing policy %q", raw)
	}
}

// Limits bounds the inputs accepted at the boundary.
type Limits struct {
	MaxColumns     int
	MaxRows        int
	MaxQuantity    int
	MaxShippingPct float64
}

// DefaultLimits matches the estimator's slider ranges.
func DefaultLimits() Limits {
	return Limits{MaxColumns: 40, MaxRows: 20, MaxQuantity: 10000, MaxShippingPct: 40}
}

// Request holds everything a front end collects for one recomputation.
type Request struct {
	Columns        int             `json:"columns"`
	Rows           int             `json:"rows"`
	Quantity       int             `json:"quantity"`
	Mode           pricing.Mode    `json:"mode"`
	CustomRate     float64         `json:"custom_rate"`
	ControllerCost float64         `json:"controller_cost"`
	ShippingPct    float64         `json:"shipping_pct"`
	Extras         []pricing.Extra `json:"extras,omitempty"`
	Tier           string          `json:"tier,omitempty"`
	Credential     string          `json:"admin_key,omitempty"`
}

// Result is the breakdown plus what the front end needs to decide what to show.
type Result struct {
	Variant       Variant
	Breakdown     pricing.Breakdown
	Level         access.Level
	Tier          pricing.Tier
	RevealDetail  bool
	CanSelectTier bool
}

// Estimator is immutable after construction and safe for concurrent use.
type Estimator struct {
	engine  *pricing.Engine
	auth    access.Authenticator
	policy  *access.Policy
	variant Variant
	limits  Limits
}

// New returns an Estimator for the given variant.
func New(engine *pricing.Engine, auth access.Authenticator, policy *access.Policy, variant Variant, limits Limits) *Estimator {
	return &Estimator{
		engine:  engine,
		auth:    auth,
		policy:  policy,
		variant: variant,
		limits:  limits,
	}
}

// Variant returns the configured variant.
func (e *Estimator) Variant() Variant {
	return e.variant
}

// Limits returns the configured input limits.
func (e *Estimator) Limits() Limits {
	return e.limits
}

// Tiers returns the tier table offered to privileged callers.
func (e *Estimator) Tiers() []pricing.Tier {
	return e.policy.Tiers().Tiers()
}

// Calibration returns the volume discount curve in use.
func (e *Estimator) Calibration() pricing.Calibration {
	return e.engine.Calibration()
}

// Authenticate resolves a credential to an access level.
func (e *Estimator) Authenticate(credential string) access.Level {
	return e.auth.Authenticate(credential)
}

// Estimate authenticates req.Credential and computes the quote.
func (e *Estimator) Estimate(req Request) (Result, error) {
	return e.EstimateFor(e.auth.Authenticate(req.Credential), req)
}

// EstimateFor computes the quote for a caller whose level is already known.
func (e *Estimator) EstimateFor(level access.Level, req Request) (Result, error) {
	if err := e.Validate(req); err != nil {
		return Result{}, err
	}

	in := pricing.Input{
		Wall:           pricing.WallSpec{Columns: req.Columns, Rows: req.Rows},
		Quantity:       req.Quantity,
		Mode:           req.Mode,
		CustomRate:     req.CustomRate,
		ControllerCost: req.ControllerCost,
	}

	var result Result
	if e.variant == Transparent {
		result = Result{
			Variant:      Transparent,
			Breakdown:    e.engine.Transparent(in, req.ShippingPct, req.Extras),
			Level:        level,
			RevealDetail: true,
		}
	} else {
		res := e.policy.Resolve(level, req.Tier)
		result = Result{
			Variant:       Masked,
			Breakdown:     e.engine.Masked(in, res.Tier.MarkupPct),
			Level:         level,
			Tier:          res.Tier,
			RevealDetail:  res.RevealDetail,
			CanSelectTier: e.policy.CanSelectTier(level),
		}
	}

	// Each input is finite on its own but their products can still overflow.
	b := result.Breakdown
	if !finite(b.GrandTotal) || !finite(b.OrderTotal) || !finite(b.PerArea) {
		return Result{}, fmt.Errorf("%w: totals are out of range", ErrInvalidRate)
	}
	return result, nil
}

// Validate rejects requests the engine must never see.
func (e *Estimator) Validate(req Request) error {
	if req.Columns < 1 || req.Columns > e.limits.MaxColumns {
		return fmt.Errorf("%w: columns must be between 1 and %d, got %d", ErrInvalidDimension, e.limits.MaxColumns, req.Columns)
	}
	if req.Rows < 1 || req.Rows > e.limits.MaxRows {
		return fmt.Errorf("%w: rows must be between 1 and %d, got %d", ErrInvalidDimension, e.limits.MaxRows, req.Rows)
	}
	if req.Quantity < 1 || req.Quantity > e.limits.MaxQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d, got %d", ErrInvalidQuantity, e.limits.MaxQuantity, req.Quantity)
	}
	if req.Mode != pricing.ModeTiered && req.Mode != pricing.ModeCustom {
		return fmt.Errorf("%w: unknown pricing mode %q", ErrInvalidRate, req.Mode)
	}
	if req.Mode == pricing.ModeCustom && !nonNegative(req.CustomRate) {
		return fmt.Errorf("%w: custom rate must be non-negative", ErrInvalidRate)
	}
	if !nonNegative(req.ControllerCost) {
		return fmt.Errorf("%w: controller cost must be non-negative", ErrInvalidRate)
	}
	for _, extra := range req.Extras {
		if !nonNegative(extra.Cost) {
			return fmt.Errorf("%w: extra %q has negative cost", ErrInvalidRate, extra.Label)
		}
	}
	if e.variant == Transparent && !(req.ShippingPct >= 0 && req.ShippingPct <= e.limits.MaxShippingPct) {
		return fmt.Errorf("%w: must be between 0 and %v, got %v", ErrInvalidShipping, e.limits.MaxShippingPct, req.ShippingPct)
	}
	return nil
}

// nonNegative is false for NaN and +Inf as well as negative values.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
