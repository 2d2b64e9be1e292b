package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
)

// formValues is the estimator form as the user typed it, so a rejected
// submission can be shown back unchanged.
type formValues struct {
	Columns        string
	Rows           string
	Quantity       string
	Mode           string
	CustomRate     string
	ControllerCost string
	ShippingPct    string
	Extras         string
	Tier           string
}

func formValuesFromRequest(req estimator.Request, extrasText, tier string) formValues {
	return formValues{
		Columns:        strconv.Itoa(req.Columns),
		Rows:           strconv.Itoa(req.Rows),
		Quantity:       strconv.Itoa(req.Quantity),
		Mode:           string(req.Mode),
		CustomRate:     formatNumber(req.CustomRate),
		ControllerCost: formatNumber(req.ControllerCost),
		ShippingPct:    formatNumber(req.ShippingPct),
		Extras:         extrasText,
		Tier:           tier,
	}
}

func formValuesFromForm(r *http.Request, fallback formValues) formValues {
	v := fallback
	set := func(dst *string, key string) {
		if _, ok := r.Form[key]; ok {
			*dst = r.FormValue(key)
		}
	}
	set(&v.Columns, "columns")
	set(&v.Rows, "rows")
	set(&v.Quantity, "quantity")
	set(&v.Mode, "mode")
	set(&v.CustomRate, "custom_rate")
	set(&v.ControllerCost, "controller_cost")
	set(&v.ShippingPct, "shipping_pct")
	set(&v.Extras, "extras")
	set(&v.Tier, "tier")
	return v
}

// parseEstimateForm reads the estimator form on top of previous. Fields the
// page did not render keep their previous value. Range checks are left to the
// estimator; this only rejects values that are not numbers.
func parseEstimateForm(r *http.Request, previous estimator.Request, previousExtras string) (estimator.Request, string, error) {
	req := previous
	extrasText := previousExtras

	var err error
	if req.Columns, err = parseOptionalInt(r, "columns", req.Columns); err != nil {
		return req, extrasText, err
	}
	if req.Rows, err = parseOptionalInt(r, "rows", req.Rows); err != nil {
		return req, extrasText, err
	}
	if req.Quantity, err = parseOptionalInt(r, "quantity", req.Quantity); err != nil {
		return req, extrasText, err
	}
	if raw, ok := formField(r, "mode"); ok {
		if req.Mode, err = pricing.ParseMode(raw); err != nil {
			return req, extrasText, fmt.Errorf("mode must be tiered or custom")
		}
	}
	if raw, ok := formField(r, "custom_rate"); ok {
		if req.CustomRate, err = parseNonNegativeFloat(raw, "custom_rate"); err != nil {
			return req, extrasText, err
		}
	}
	if raw, ok := formField(r, "controller_cost"); ok {
		if req.ControllerCost, err = parseNonNegativeFloat(raw, "controller_cost"); err != nil {
			return req, extrasText, err
		}
	}
	if raw, ok := formField(r, "shipping_pct"); ok {
		if req.ShippingPct, err = parsePercent(raw, "shipping_pct"); err != nil {
			return req, extrasText, err
		}
	}
	if raw, ok := formField(r, "extras"); ok {
		extrasText = strings.ReplaceAll(raw, "\r\n", "\n")
		req.Extras = pricing.ParseExtras(extrasText)
	}
	if raw, ok := formField(r, "tier"); ok {
		req.Tier = strings.TrimSpace(raw)
	}

	return req, extrasText, nil
}

func formField(r *http.Request, key string) (string, bool) {
	if _, ok := r.Form[key]; !ok {
		return "", false
	}
	return r.FormValue(key), true
}

func parseOptionalInt(r *http.Request, key string, fallback int) (int, error) {
	raw, ok := formField(r, key)
	if !ok {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return value, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value > 100 {
		return 0, fmt.Errorf("%s must be between 0 and 100", field)
	}
	return value, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
