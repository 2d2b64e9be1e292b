package pricing

import "testing"

func TestInterpolator_ClampsOutsideCalibration(t *testing.T) {
	rates, err := NewInterpolator(DefaultCalibration())
	if err != nil {
		t.Fatalf("NewInterpolator: %v", err)
	}

	for _, qty := range []int{-5, 0, 1} {
		if got := rates.Rate(qty); got != 3400 {
			t.Fatalf("Rate(%d) = %v, want 3400", qty, got)
		}
	}
	for _, qty := range []int{25, 26, 100, 1 << 20} {
		if got := rates.Rate(qty); got != 2720 {
			t.Fatalf("Rate(%d) = %v, want 2720", qty, got)
		}
	}
}

func TestInterpolator_MidpointIsAverage(t *testing.T) {
	cal := Calibration{LowQty: 10, LowPrice: 500, HighQty: 30, HighPrice: 100}
	rates, err := NewInterpolator(cal)
	if err != nil {
		t.Fatalf("NewInterpolator: %v", err)
	}

	nearlyEqual(t, "Rate(20)", rates.Rate(20), 300)
	nearlyEqual(t, "Rate(15)", rates.Rate(15), 400)
}

func TestInterpolator_StrictlyDecreasingBetweenEndpoints(t *testing.T) {
	rates, err := NewInterpolator(DefaultCalibration())
	if err != nil {
		t.Fatalf("NewInterpolator: %v", err)
	}

	prev := rates.Rate(1)
	for qty := 2; qty <= 25; qty++ {
		got := rates.Rate(qty)
		if got >= prev {
			t.Fatalf("Rate(%d) = %v, not below Rate(%d) = %v", qty, got, qty-1, prev)
		}
		prev = got
	}
}

func TestNewInterpolator_RejectsBadBounds(t *testing.T) {
	cases := map[string]Calibration{
		"equal":    {LowQty: 5, LowPrice: 100, HighQty: 5, HighPrice: 90},
		"inverted": {LowQty: 25, LowPrice: 100, HighQty: 1, HighPrice: 90},
		"negative": {LowQty: 1, LowPrice: -1, HighQty: 25, HighPrice: 90},
	}
	for name, cal := range cases {
		if _, err := NewInterpolator(cal); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
