package finance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Bracket searched by IRR. IRRCeiling is the largest rate it can report.
const (
	irrLow     = -0.99
	irrHigh    = 10.0
	IRRCeiling = irrHigh
)

// Level builds a cash-flow series: -investment at year 0 followed by years
// equal inflows.
func Level(investment, inflow float64, years int) []float64 {
	if years < 0 {
		years = 0
	}
	flows := make([]float64, years+1)
	flows[0] = -investment
	for i := 1; i <= years; i++ {
		flows[i] = inflow
	}
	return flows
}

// NPV discounts flows[i] by (1+rate)^i.
func NPV(rate float64, flows []float64) float64 {
	if rate <= -1 {
		return math.NaN()
	}
	discounted := make([]float64, len(flows))
	for i, f := range flows {
		discounted[i] = f / math.Pow(1+rate, float64(i))
	}
	return floats.Sum(discounted)
}

// Undiscounted sums every inflow after year 0.
func Undiscounted(flows []float64) float64 {
	if len(flows) < 2 {
		return 0
	}
	return floats.Sum(flows[1:])
}

// AboveCeiling reports whether flows still have a positive NPV at IRRCeiling,
// meaning the IRR exists but lies beyond the searched bracket.
func AboveCeiling(flows []float64) bool {
	return len(flows) >= 2 && NPV(irrHigh, flows) > 0
}

// IRR finds the rate where NPV is zero by bisection over [-0.99, 10]. It
// reports ok=false when the bracket holds no sign change or the interval is
// still wider than tol after maxIter halvings.
func IRR(flows []float64, tol float64, maxIter int) (float64, bool) {
	if len(flows) < 2 || tol <= 0 || maxIter <= 0 {
		return 0, false
	}
	lo, hi := irrLow, irrHigh
	fLo, fHi := NPV(lo, flows), NPV(hi, flows)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return 0, false
	}
	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, flows)
		if fMid == 0 || (hi-lo)/2 < tol {
			return mid, true
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, false
}

// MonthlyPayment is the level payment of an amortizing loan. A zero rate
// spreads principal evenly.
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 || principal <= 0 {
		return 0
	}
	if annualRate <= 0 {
		return principal / float64(months)
	}
	r := annualRate / 12
	factor := math.Pow(1+r, float64(months))
	return principal * r * factor / (factor - 1)
}
