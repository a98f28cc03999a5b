package mathutil

import (
	"math"
	"testing"
)

func TestSafeLog(t *testing.T) {
	if got, want := SafeLog(math.E), 1.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("SafeLog(e) = %f, want %f", got, want)
	}
	if got := SafeLog(1); got != 0 {
		t.Errorf("SafeLog(1) = %f, want 0", got)
	}
}

func TestSafeLogNonPositive(t *testing.T) {
	for _, p := range []float64{0, -1, math.NaN()} {
		if got := SafeLog(p); got != LogZero {
			t.Errorf("SafeLog(%v) = %f, want LogZero", p, got)
		}
	}
}

func TestLogInvE(t *testing.T) {
	if got := math.Log(1 / math.E); math.Abs(got-LogInvE) > 1e-12 {
		t.Errorf("log(1/e) = %f, want %f", got, LogInvE)
	}
}
