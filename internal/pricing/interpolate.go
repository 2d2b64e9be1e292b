package pricing

import "fmt"

// Calibration holds the two quantity/price points of the volume discount curve.
type Calibration struct {
	LowQty    int     `json:"low_qty" yaml:"low_qty"`
	LowPrice  float64 `json:"low_price" yaml:"low_price"`
	HighQty   int     `json:"high_qty" yaml:"high_qty"`
	HighPrice float64 `json:"high_price" yaml:"high_price"`
}

// DefaultCalibration returns the vendor curve: 3400 per m² for one screen, 2720 per m² from 25 screens.
func DefaultCalibration() Calibration {
	return Calibration{LowQty: 1, LowPrice: 3400, HighQty: 25, HighPrice: 2720}
}

// Interpolator maps an order quantity to a per-m² price.
type Interpolator struct {
	cal Calibration
}

// NewInterpolator validates the calibration points and returns an Interpolator.
func NewInterpolator(cal Calibration) (*Interpolator, error) {
	if cal.LowQty >= cal.HighQty {
		return nil, fmt.Errorf("invalid calibration: low_qty %d must be less than high_qty %d", cal.LowQty, cal.HighQty)
	}
	if cal.LowPrice < 0 || cal.HighPrice < 0 {
		return nil, fmt.Errorf("invalid calibration: prices must be non-negative")
	}
	return &Interpolator{cal: cal}, nil
}

// Calibration returns the points the interpolator was built with.
func (i *Interpolator) Calibration() Calibration {
	return i.cal
}

// Rate interpolates linearly between the calibration points and clamps outside them.
func (i *Interpolator) Rate(qty int) float64 {
	c := i.cal
	if qty <= c.LowQty {
		return c.LowPrice
	}
	if qty >= c.HighQty {
		return c.HighPrice
	}
	frac := float64(qty-c.LowQty) / float64(c.HighQty-c.LowQty)
	return c.LowPrice + frac*(c.HighPrice-c.LowPrice)
}
