package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/ledwall/internal/access"
	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
)

func metrics(rows []Row) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Metric] = r.Value
	}
	return out
}

func estimate(t *testing.T, variant estimator.Variant, credential string) estimator.Result {
	t.Helper()

	engine, err := pricing.NewEngine(pricing.DefaultConfig())
	require.NoError(t, err)
	est := estimator.New(engine, access.NewStaticKey("TNX"), access.NewPolicy(pricing.DefaultTiers()), variant, estimator.DefaultLimits())

	res, err := est.Estimate(estimator.Request{
		Columns:        10,
		Rows:           3,
		Quantity:       2,
		Mode:           pricing.ModeTiered,
		ControllerCost: 325,
		ShippingPct:    15,
		Extras:         pricing.ParseExtras(pricing.DefaultExtrasText),
		Tier:           "Level C",
		Credential:     credential,
	})
	require.NoError(t, err)
	return res
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$25,500", Money(25500))
	assert.Equal(t, "$0", Money(0))
	assert.Equal(t, "$7,274", Money(7273.75))
	assert.Equal(t, "$1,234,567", Money(1234566.6))
	assert.Equal(t, "$909", Money(909.21875))
	assert.Equal(t, "-$25,500", Money(-25500))
	assert.Equal(t, "$0", Money(-0.4))
}

func TestMoney_BeyondInt64KeepsMagnitude(t *testing.T) {
	assert.Equal(t, "$10,000,000,000,000,000,000", Money(1e19))
	assert.Equal(t, "$22,000,000,000,000,000,000", Money(2.2e19))
	assert.Equal(t, "-$10,000,000,000,000,000,000", Money(-1e19))
}

func TestMoney_NonFiniteIsNotAvailable(t *testing.T) {
	assert.Equal(t, "n/a", Money(math.Inf(1)))
	assert.Equal(t, "n/a", Money(math.Inf(-1)))
	assert.Equal(t, "n/a", Money(math.NaN()))
}

func TestPercentAndMeters(t *testing.T) {
	assert.Equal(t, "15%", Percent(15))
	assert.Equal(t, "12.5%", Percent(12.5))
	assert.Equal(t, "7.50", Meters(7.5))
}

func TestRows_TransparentShowsEverything(t *testing.T) {
	rows := Rows(estimate(t, estimator.Transparent, ""))
	m := metrics(rows)

	assert.Len(t, rows, 15)
	assert.Equal(t, "5.00", m["Width (m)"])
	assert.Equal(t, "1.50", m["Height (m)"])
	assert.Equal(t, "7.50", m["Area (m²)"])
	assert.Equal(t, "30", m["Cabinets"])
	assert.Equal(t, "$3,372", m["Per-m² base price"])
	assert.Equal(t, "$325", m["Controller $"])
	assert.Equal(t, "$750", m["Extras $"])
	assert.Equal(t, "15%", m["Shipping/Duty %"])
	assert.Equal(t, "2", m["Order qty"])
	assert.NotContains(t, m, "Project Tier")
}

func TestRows_MaskedStandardIsRedacted(t *testing.T) {
	rows := Rows(estimate(t, estimator.Masked, ""))
	m := metrics(rows)

	assert.Len(t, rows, 10)
	assert.Equal(t, "Level B", m["Project Tier"])
	for _, hidden := range []string{"Per-m² base price", "Panels base $", "Controller $", "Markup %", "Markup $", "Extras $", "Shipping/Duty $"} {
		assert.NotContains(t, m, hidden)
	}
	assert.Contains(t, m, "Total per screen $")
	assert.Contains(t, m, "Order total $")
}

func TestRows_MaskedPrivilegedShowsMarkup(t *testing.T) {
	m := metrics(Rows(estimate(t, estimator.Masked, "TNX")))

	assert.Equal(t, "Level C", m["Project Tier"])
	assert.Equal(t, "30%", m["Markup %"])
	assert.Contains(t, m, "Per-m² base price")
	assert.NotContains(t, m, "Shipping/Duty %")
}

func TestXLSX_WritesRows(t *testing.T) {
	rows := Rows(estimate(t, estimator.Masked, ""))

	data, err := XLSX(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Metric", header)

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, len(rows)+1)
	assert.Equal(t, []string{rows[0].Metric, rows[0].Value}, got[1])
	assert.Equal(t, []string{"Project Tier", "Level B"}, got[5])
}
