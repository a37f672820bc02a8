package forecast

import (
	"math"
	"testing"
)

func TestDifference(t *testing.T) {
	values := []float64{1, 3, 6, 10}

	first := difference(values, 1)
	want := []float64{2, 3, 4}
	if len(first) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(first))
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("first difference[%d]: expected %v, got %v", i, want[i], first[i])
		}
	}

	second := difference(values, 2)
	if len(second) != 2 || second[0] != 1 || second[1] != 1 {
		t.Errorf("second difference: expected [1 1], got %v", second)
	}
}

func TestSeasonalDifference(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	out := seasonalDifference(values, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 values, got %d", len(out))
	}
	for i, v := range out {
		if v != 3 {
			t.Errorf("seasonal difference[%d]: expected 3, got %v", i, v)
		}
	}
}

func TestAutocorrelation_PeriodicSeries(t *testing.T) {
	// Strong period-4 signal.
	var values []float64
	for i := 0; i < 40; i++ {
		values = append(values, math.Sin(2*math.Pi*float64(i)/4))
	}

	atPeriod := autocorrelation(values, 4)
	if atPeriod < 0.8 {
		t.Errorf("expected strong autocorrelation at the period, got %v", atPeriod)
	}

	atHalf := autocorrelation(values, 2)
	if atHalf > -0.8 {
		t.Errorf("expected strong negative autocorrelation at half period, got %v", atHalf)
	}
}

func TestSolveLinearSystem(t *testing.T) {
	// 2x + y = 5, x + 3y = 10 -> x = 1, y = 3
	a := [][]float64{{2, 1}, {1, 3}}
	b := []float64{5, 10}

	x, err := solveLinearSystem(a, b)
	if err != nil {
		t.Fatalf("solveLinearSystem failed: %v", err)
	}
	if math.Abs(x[0]-1) > 1e-9 || math.Abs(x[1]-3) > 1e-9 {
		t.Errorf("expected [1 3], got %v", x)
	}
}

func TestSolveLinearSystem_Singular(t *testing.T) {
	a := [][]float64{{1, 2}, {2, 4}}
	b := []float64{3, 6}
	if _, err := solveLinearSystem(a, b); err == nil {
		t.Error("expected error for singular system")
	}
}

func TestOLSFit_RecoversLine(t *testing.T) {
	// y = 1 + 2x, exactly.
	var design [][]float64
	var response []float64
	for i := 0; i < 20; i++ {
		x := float64(i)
		design = append(design, []float64{1, x})
		response = append(response, 1+2*x)
	}

	coeffs, rss, err := olsFit(design, response)
	if err != nil {
		t.Fatalf("olsFit failed: %v", err)
	}
	if math.Abs(coeffs[0]-1) > 1e-6 || math.Abs(coeffs[1]-2) > 1e-6 {
		t.Errorf("expected coefficients [1 2], got %v", coeffs)
	}
	if rss > 1e-6 {
		t.Errorf("expected near-zero residuals, got rss %v", rss)
	}
}

func TestNormalQuantile(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0.975, 1.959964},
		{0.5, 0},
		{0.025, -1.959964},
	}
	for _, tt := range tests {
		got := normalQuantile(tt.p)
		if math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("normalQuantile(%v): expected %v, got %v", tt.p, tt.want, got)
		}
	}

	if !math.IsNaN(normalQuantile(0)) || !math.IsNaN(normalQuantile(1)) {
		t.Error("expected NaN outside (0,1)")
	}
}
