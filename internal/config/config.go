package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Simplici0/ledwall/internal/access"
	"github.com/Simplici0/ledwall/internal/estimator"
	"github.com/Simplici0/ledwall/internal/logging"
	"github.com/Simplici0/ledwall/internal/pricing"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	builtinAdminKey = "TNX"
)

// Config holds application configuration sourced from environment variables
// and, when CONFIG_PATH is set, a YAML file.
type Config struct {
	Env        string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Session    SessionConfig  `yaml:"session"`
	Redis      RedisConfig    `yaml:"redis"`
	Pricing    PricingConfig  `yaml:"pricing"`
	Defaults   FormDefaults   `yaml:"defaults"`
	Logging    logging.Config `yaml:"logging"`

	// AdminKey is the shared key that unlocks the tier selector. It is not an authentication system.
	AdminKey string `yaml:"admin_key" env:"ADMIN_KEY" env-default:"TNX"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout         time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret" env:"SESSION_SECRET"`
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	SecureCookie bool          `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE"`
}

// RedisConfig enables the shared session store when Addr is set.
type RedisConfig struct {
	Addr           string        `yaml:"addr" env:"REDIS_ADDR"`
	Password       string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"REDIS_CONNECT_TIMEOUT" env-default:"30s"`
}

type PricingConfig struct {
	Policy            string             `yaml:"policy" env:"PRICING_POLICY" env-default:"masked"`
	OpenTierSelection bool               `yaml:"open_tier_selection" env:"PRICING_OPEN_TIER_SELECTION"`
	LowQty            int                `yaml:"low_qty" env:"PRICE_LOW_QTY" env-default:"1"`
	LowPrice          float64            `yaml:"low_price" env:"PRICE_LOW" env-default:"3400"`
	HighQty           int                `yaml:"high_qty" env:"PRICE_HIGH_QTY" env-default:"25"`
	HighPrice         float64            `yaml:"high_price" env:"PRICE_HIGH" env-default:"2720"`
	TierMarkups       map[string]float64 `yaml:"tier_markups" env:"TIER_MARKUPS" env-default:"Level A:10,Level B:20,Level C:30"`
	DefaultTier       string             `yaml:"default_tier" env:"DEFAULT_TIER" env-default:"Level B"`
	MaxColumns        int                `yaml:"max_columns" env:"MAX_COLUMNS" env-default:"40"`
	MaxRows           int                `yaml:"max_rows" env:"MAX_ROWS" env-default:"20"`
	MaxQuantity       int                `yaml:"max_quantity" env:"MAX_QUANTITY" env-default:"10000"`
	MaxShippingPct    float64            `yaml:"max_shipping_pct" env:"MAX_SHIPPING_PCT" env-default:"40"`
}

// FormDefaults are the values a new session starts with.
type FormDefaults struct {
	Columns        int     `yaml:"columns" env:"DEFAULT_COLUMNS" env-default:"10"`
	Rows           int     `yaml:"rows" env:"DEFAULT_ROWS" env-default:"3"`
	Quantity       int     `yaml:"quantity" env:"DEFAULT_QUANTITY" env-default:"1"`
	Mode           string  `yaml:"mode" env:"DEFAULT_MODE" env-default:"tiered"`
	CustomRate     float64 `yaml:"custom_rate" env:"DEFAULT_CUSTOM_RATE" env-default:"3400"`
	ControllerCost float64 `yaml:"controller_cost" env:"DEFAULT_CONTROLLER_COST" env-default:"325"`
	ShippingPct    float64 `yaml:"shipping_pct" env:"DEFAULT_SHIPPING_PCT" env-default:"15"`
	// Extras uses ';' between items, e.g. "Spares:300;Rails:200".
	Extras string `yaml:"extras" env:"DEFAULT_EXTRAS"`
}

// Load reads .env (without overriding the environment), then the environment
// or CONFIG_PATH, and validates the result.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the pricing tables and defaults so that bad deployments fail at startup.
func (c *Config) Validate() error {
	if _, err := c.Pricing.Variant(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := pricing.NewInterpolator(c.Pricing.Calibration()); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Pricing.TierTable(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Pricing.MaxColumns < 1 || c.Pricing.MaxRows < 1 {
		return fmt.Errorf("invalid config: max columns and rows must be at least 1")
	}
	if c.Pricing.MaxQuantity < 1 {
		return fmt.Errorf("invalid config: max quantity must be at least 1")
	}
	if c.Pricing.MaxShippingPct < 0 {
		return fmt.Errorf("invalid config: max shipping percentage must be non-negative")
	}
	if c.Defaults.Columns < 1 || c.Defaults.Columns > c.Pricing.MaxColumns ||
		c.Defaults.Rows < 1 || c.Defaults.Rows > c.Pricing.MaxRows {
		return fmt.Errorf("invalid config: default wall %dx%d is outside the allowed range", c.Defaults.Columns, c.Defaults.Rows)
	}
	if c.Defaults.Quantity < 1 || c.Defaults.Quantity > c.Pricing.MaxQuantity {
		return fmt.Errorf("invalid config: default quantity %d is outside 1..%d", c.Defaults.Quantity, c.Pricing.MaxQuantity)
	}
	if _, err := pricing.ParseMode(c.Defaults.Mode); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid config: session ttl must be positive")
	}
	return nil
}

// Warnings lists settings that work but should be changed outside local development.
func (c *Config) Warnings() []string {
	var out []string
	if c.Session.Secret == "" {
		out = append(out, "SESSION_SECRET is not set; sessions will not survive a restart")
	}
	if c.AdminKey == "" {
		out = append(out, "ADMIN_KEY is empty; the tier selector cannot be unlocked")
	}
	if c.AdminKey == builtinAdminKey && !c.IsDev() {
		out = append(out, "ADMIN_KEY uses the built-in value")
	}
	return out
}

// IsDev reports whether the app runs in a local or development environment.
func (c *Config) IsDev() bool {
	return c.Env == envLocal || c.Env == envDev
}

// IsProd reports whether the app runs in production.
func (c *Config) IsProd() bool {
	return c.Env == envProd
}

// NewEstimator wires the pricing engine, the admin key check and the tier
// policy described by the configuration.
func (c *Config) NewEstimator() (*estimator.Estimator, error) {
	variant, err := c.Pricing.Variant()
	if err != nil {
		return nil, err
	}
	tiers, err := c.Pricing.TierTable()
	if err != nil {
		return nil, err
	}
	engine, err := pricing.NewEngine(pricing.Config{
		Calibration: c.Pricing.Calibration(),
		Tiers:       tiers,
	})
	if err != nil {
		return nil, fmt.Errorf("build pricing engine: %w", err)
	}

	policy := access.NewPolicy(engine.Tiers())
	policy.OpenTierSelection = c.Pricing.OpenTierSelection

	return estimator.New(engine, access.NewStaticKey(c.AdminKey), policy, variant, c.Pricing.Limits()), nil
}

// Variant returns the configured pricing policy.
func (p PricingConfig) Variant() (estimator.Variant, error) {
	return estimator.ParseVariant(p.Policy)
}

// Calibration returns the volume discount curve.
func (p PricingConfig) Calibration() pricing.Calibration {
	return pricing.Calibration{
		LowQty:    p.LowQty,
		LowPrice:  p.LowPrice,
		HighQty:   p.HighQty,
		HighPrice: p.HighPrice,
	}
}

// TierTable builds the tier-to-markup table.
func (p PricingConfig) TierTable() (pricing.TierTable, error) {
	markups := make(map[string]float64, len(p.TierMarkups))
	for name, pct := range p.TierMarkups {
		markups[strings.TrimSpace(name)] = pct
	}
	return pricing.NewTierTable(markups, strings.TrimSpace(p.DefaultTier))
}

// Limits returns the input bounds enforced by the estimator.
func (p PricingConfig) Limits() estimator.Limits {
	return estimator.Limits{
		MaxColumns:     p.MaxColumns,
		MaxRows:        p.MaxRows,
		MaxQuantity:    p.MaxQuantity,
		MaxShippingPct: p.MaxShippingPct,
	}
}

// ExtrasText returns the default extras in "Label:Cost" lines.
func (d FormDefaults) ExtrasText() string {
	if strings.TrimSpace(d.Extras) == "" {
		return pricing.DefaultExtrasText
	}
	return strings.ReplaceAll(d.Extras, ";", "\n")
}

// Request returns the starting request for a new session.
func (d FormDefaults) Request() estimator.Request {
	mode, err := pricing.ParseMode(d.Mode)
	if err != nil {
		mode = pricing.ModeTiered
	}
	return estimator.Request{
		Columns:        d.Columns,
		Rows:           d.Rows,
		Quantity:       d.Quantity,
		Mode:           mode,
		CustomRate:     d.CustomRate,
		ControllerCost: d.ControllerCost,
		ShippingPct:    d.ShippingPct,
		Extras:         pricing.ParseExtras(d.ExtrasText()),
	}
}
