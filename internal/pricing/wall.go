package pricing

const (
	// CabinetWidth and CabinetHeight are the fixed module size in meters.
	CabinetWidth  = 0.5
	CabinetHeight = 0.5
	// CabinetArea is the area of one cabinet in square meters.
	CabinetArea = CabinetWidth * CabinetHeight
)

// WallSpec describes a wall as a grid of cabinets.
type WallSpec struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// Cabinets returns the number of cabinets in the wall.
func (w WallSpec) Cabinets() int {
	return w.Columns * w.Rows
}

// Width returns the wall width in meters.
func (w WallSpec) Width() float64 {
	return float64(w.Columns) * CabinetWidth
}

// Height returns the wall height in meters.
func (w WallSpec) Height() float64 {
	return float64(w.Rows) * CabinetHeight
}

// Area returns the wall area in square meters. It is always a multiple of CabinetArea.
func (w WallSpec) Area() float64 {
	return float64(w.Cabinets()) * CabinetArea
}
