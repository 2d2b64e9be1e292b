package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/pricing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.IsDev())

	variant, err := cfg.Pricing.Variant()
	require.NoError(t, err)
	assert.Equal(t, estimator.Masked, variant)

	assert.Equal(t, pricing.DefaultCalibration(), cfg.Pricing.Calibration())
	assert.Equal(t, estimator.DefaultLimits(), cfg.Pricing.Limits())

	tiers, err := cfg.Pricing.TierTable()
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultTiers().Tiers(), tiers.Tiers())
	assert.Equal(t, "Level B", tiers.Default().Name)

	req := cfg.Defaults.Request()
	assert.Equal(t, 10, req.Columns)
	assert.Equal(t, 3, req.Rows)
	assert.Equal(t, pricing.ModeTiered, req.Mode)
	assert.Equal(t, 325.0, req.ControllerCost)
	assert.Len(t, req.Extras, 3)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PRICING_POLICY", "transparent")
	t.Setenv("PRICE_LOW_QTY", "2")
	t.Setenv("PRICE_HIGH_QTY", "10")
	t.Setenv("PRICE_LOW", "5000")
	t.Setenv("PRICE_HIGH", "4000")
	t.Setenv("TIER_MARKUPS", "Gold:5,Silver:15")
	t.Setenv("DEFAULT_TIER", "Silver")
	t.Setenv("DEFAULT_EXTRAS", "Spares:100;Rails:50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, pricing.Calibration{LowQty: 2, LowPrice: 5000, HighQty: 10, HighPrice: 4000}, cfg.Pricing.Calibration())

	tiers, err := cfg.Pricing.TierTable()
	require.NoError(t, err)
	assert.Equal(t, "Silver", tiers.Default().Name)
	assert.Equal(t, 15.0, tiers.Default().MarkupPct)

	assert.Equal(t, "Spares:100\nRails:50", cfg.Defaults.ExtrasText())
	assert.Contains(t, cfg.Warnings(), "ADMIN_KEY uses the built-in value")
}

func TestLoad_RejectsDegenerateCalibration(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PRICE_LOW_QTY", "25")
	t.Setenv("PRICE_HIGH_QTY", "25")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownPolicy(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PRICING_POLICY", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsMissingDefaultTier(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DEFAULT_TIER", "Level Z")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
env: dev
admin_key: open-sesame
pricing:
  policy: transparent
  max_columns: 12
defaults:
  columns: 6
  rows: 2
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "open-sesame", cfg.AdminKey)
	assert.Equal(t, 12, cfg.Pricing.MaxColumns)
	assert.Equal(t, 6, cfg.Defaults.Columns)
	assert.Equal(t, "Level B", cfg.Pricing.DefaultTier)
}

func TestWarnings_MissingSecret(t *testing.T) {
	cfg := &Config{Env: envLocal, AdminKey: builtinAdminKey}

	warnings := cfg.Warnings()

	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "SESSION_SECRET")
}

func TestNewEstimator_UsesConfiguredPolicy(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PRICING_POLICY", "masked")
	t.Setenv("PRICING_OPEN_TIER_SELECTION", "true")
	t.Setenv("ADMIN_KEY", "letmein")

	cfg, err := Load()
	require.NoError(t, err)

	est, err := cfg.NewEstimator()
	require.NoError(t, err)
	assert.Equal(t, estimator.Masked, est.Variant())

	req := cfg.Defaults.Request()
	req.Tier = "Level A"
	res, err := est.Estimate(req)
	require.NoError(t, err)
	assert.Equal(t, "Level A", res.Tier.Name)
	assert.False(t, res.RevealDetail)

	req.Credential = "letmein"
	res, err = est.Estimate(req)
	require.NoError(t, err)
	assert.True(t, res.RevealDetail)
}

func TestNewEstimator_TierTableComesFromEngine(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PRICING_POLICY", "masked")
	t.Setenv("TIER_MARKUPS", "Gold:5,Silver:15")
	t.Setenv("DEFAULT_TIER", "Silver")

	cfg, err := Load()
	require.NoError(t, err)

	est, err := cfg.NewEstimator()
	require.NoError(t, err)

	tiers, err := cfg.Pricing.TierTable()
	require.NoError(t, err)
	assert.Equal(t, tiers.Tiers(), est.Tiers())
	assert.Equal(t, cfg.Pricing.Calibration(), est.Calibration())

	res, err := est.Estimate(cfg.Defaults.Request())
	require.NoError(t, err)
	assert.Equal(t, "Silver", res.Tier.Name)
	assert.Equal(t, 15.0, res.Breakdown.MarkupPct)
}

func TestLoad_RejectsDefaultQuantityAboveMax(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("MAX_QUANTITY", "50")
	t.Setenv("DEFAULT_QUANTITY", "51")

	_, err := Load()
	assert.ErrorContains(t, err, "default quantity")
}
