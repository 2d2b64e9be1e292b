package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/ledwall/internal/estimator"
)

func jsonKeys(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestNewEstimate_MaskedStandardOmitsDetail(t *testing.T) {
	res := estimate(t, estimator.Masked, "")

	got := NewEstimate(res)
	breakdown := jsonKeys(t, got.Breakdown)

	assert.False(t, got.RevealDetail)
	assert.Equal(t, "standard", got.Level)
	assert.Equal(t, "Level B", got.Tier)
	for _, key := range []string{"base_price_m2", "base_hardware", "controller_total", "subtotal", "markup_pct", "markup_amount", "shipping_pct", "extras"} {
		assert.NotContains(t, breakdown, key)
	}
	assert.Contains(t, breakdown, "grand_total")
	assert.Equal(t, Rows(res), got.Rows)
}

func TestNewEstimate_MaskedPrivilegedIncludesMarkup(t *testing.T) {
	res := estimate(t, estimator.Masked, "TNX")

	got := NewEstimate(res)

	require.NotNil(t, got.Breakdown.MarkupPct)
	assert.Equal(t, 30.0, *got.Breakdown.MarkupPct)
	require.NotNil(t, got.Breakdown.BaseRate)
	// Two screens sit one step along the 1..25 discount curve.
	assert.InDelta(t, 3400-680.0/24, *got.Breakdown.BaseRate, 1e-9)
	assert.Equal(t, res.Breakdown.BaseRate, *got.Breakdown.BaseRate)
	assert.Nil(t, got.Breakdown.ShippingPct)
	assert.Empty(t, got.Breakdown.Extras)
}

func TestNewEstimate_TransparentItemizes(t *testing.T) {
	res := estimate(t, estimator.Transparent, "")

	got := NewEstimate(res)

	assert.True(t, got.RevealDetail)
	assert.Empty(t, got.Tier)
	assert.Len(t, got.Breakdown.Extras, 3)
	require.NotNil(t, got.Breakdown.ExtrasTotal)
	assert.Equal(t, 750.0, *got.Breakdown.ExtrasTotal)
	require.NotNil(t, got.Breakdown.ShippingPct)
	assert.Equal(t, 15.0, *got.Breakdown.ShippingPct)
	assert.Nil(t, got.Breakdown.MarkupPct)
}
