package mathutil

import "math"

// LogZero represents log(0), used as negative infinity in log-domain arithmetic.
const LogZero = -1e30

// LogInvE is log(1/e), the per-unit cost of the phrase and word penalties.
const LogInvE = -1.0

// SafeLog returns the natural log of p, or LogZero when p is not positive.
// Keeping scores finite lets hypotheses with unseen events still be ordered.
func SafeLog(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return LogZero
	}
	lp := math.Log(p)
	if lp < LogZero {
		return LogZero
	}
	return lp
}
