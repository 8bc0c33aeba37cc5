package feasibility

import "math"

const (
	// irrMaxIterations bounds the IRR root search; the solver never loops
	// past it regardless of cash-flow shape.
	irrMaxIterations = 200
	irrTolerance     = 1e-9
	// irrRateFloor keeps the search inside the domain of (1+r)^t.
	irrRateFloor = -0.999999
	irrRateCeil  = 1e3
)

// NPV discounts the cash-flow vector at the given rate, index 0 included.
func NPV(flows []float64, rate float64) float64 {
	var npv float64
	for t, cf := range flows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// DiscountedFlows returns the per-period discounted cash-flow vector.
func DiscountedFlows(flows []float64, rate float64) []float64 {
	discounted := make([]float64, len(flows))
	for t, cf := range flows {
		discounted[t] = cf / math.Pow(1+rate, float64(t))
	}
	return discounted
}

// CumulativeFlows returns the running undiscounted sum of the vector.
func CumulativeFlows(flows []float64) []float64 {
	cumulative := make([]float64, len(flows))
	var sum float64
	for t, cf := range flows {
		sum += cf
		cumulative[t] = sum
	}
	return cumulative
}

// IRR solves NPV(flows, r) = 0 for r. It returns nil when the vector has no
// sign change, when no bracket exists inside the search range, or when the
// bounded solver fails to converge to a finite root.
//
// The solver brackets a sign change of NPV over a coarse rate grid, then
// narrows it with a Newton step falling back to bisection whenever Newton
// leaves the bracket or stalls. This survives adversarial shapes (multiple
// sign changes, positive-then-negative vectors) that break pure Newton.
func IRR(flows []float64) *float64 {
	hasNegative := false
	hasPositive := false
	for _, cf := range flows {
		if cf < 0 {
			hasNegative = true
		}
		if cf > 0 {
			hasPositive = true
		}
	}
	if !hasNegative || !hasPositive {
		return nil
	}

	lo, hi, ok := bracketIRR(flows)
	if !ok {
		return nil
	}

	// Convergence is judged relative to the magnitude of the flows, so the
	// same shape converges identically whether stated in units or millions.
	scale := 0.0
	for _, cf := range flows {
		if abs := math.Abs(cf); abs > scale {
			scale = abs
		}
	}
	tolerance := irrTolerance * scale

	fLo := NPV(flows, lo)
	root := lo
	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		if d := npvDerivative(flows, root); d != 0 {
			newton := root - NPV(flows, root)/d
			if newton > lo && newton < hi {
				mid = newton
			}
		}
		fMid := NPV(flows, mid)
		if math.IsNaN(fMid) || math.IsInf(fMid, 0) {
			return nil
		}
		if math.Abs(fMid) < tolerance || hi-lo < irrTolerance {
			root = mid
			break
		}
		if (fLo < 0) == (fMid < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
		root = mid
	}

	if math.IsNaN(root) || math.IsInf(root, 0) {
		return nil
	}
	if math.Abs(NPV(flows, root)) > 1e-6*scale {
		return nil
	}
	return &root
}

// bracketIRR scans an expanding rate grid for a sign change of NPV.
func bracketIRR(flows []float64) (lo, hi float64, ok bool) {
	grid := []float64{irrRateFloor, -0.99, -0.9, -0.75, -0.5, -0.25, -0.1, 0,
		0.1, 0.25, 0.5, 1, 2, 5, 10, 100, irrRateCeil}
	prevRate := grid[0]
	prevNPV := NPV(flows, prevRate)
	for _, rate := range grid[1:] {
		cur := NPV(flows, rate)
		if !math.IsNaN(prevNPV) && !math.IsNaN(cur) && (prevNPV < 0) != (cur < 0) {
			return prevRate, rate, true
		}
		prevRate, prevNPV = rate, cur
	}
	return 0, 0, false
}

func npvDerivative(flows []float64, rate float64) float64 {
	var d float64
	for t := 1; t < len(flows); t++ {
		d -= float64(t) * flows[t] / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// MIRR computes the modified internal rate of return: positive flows are
// compounded forward to the final year at the reinvestment rate, negative
// flows discounted to present at the discount rate, and the ratio
// annualized over the horizon. Returns 0 when either side has no flow, or
// when the computation degenerates.
func MIRR(flows []float64, discountRate, reinvestmentRate float64) float64 {
	if len(flows) < 2 {
		return 0
	}
	horizon := len(flows) - 1

	var terminalValue, pvNegative float64
	for t, cf := range flows {
		if cf > 0 {
			terminalValue += cf * math.Pow(1+reinvestmentRate, float64(horizon-t))
		}
		if cf < 0 {
			pvNegative += -cf / math.Pow(1+discountRate, float64(t))
		}
	}
	if terminalValue <= 0 || pvNegative <= 0 {
		return 0
	}

	mirr := math.Pow(terminalValue/pvNegative, 1/float64(horizon)) - 1
	if math.IsNaN(mirr) || math.IsInf(mirr, 0) {
		return 0
	}
	return mirr
}

// PaybackPeriod returns the fractional year at which the running cumulative
// sum of the vector first reaches zero, nil when it never does within the
// vector. The fraction interpolates linearly inside the crossing year.
func PaybackPeriod(flows []float64) *float64 {
	var cumulative float64
	for i, cf := range flows {
		cumulative += cf
		if cumulative >= 0 {
			period := float64(i)
			if i > 0 && cf != 0 {
				fraction := -(cumulative - cf) / cf
				period = float64(i-1) + fraction
			}
			if math.IsNaN(period) || math.IsInf(period, 0) {
				return nil
			}
			return &period
		}
	}
	return nil
}

// DiscountedPaybackPeriod applies the payback algorithm to the discounted
// cash-flow vector.
func DiscountedPaybackPeriod(flows []float64, discountRate float64) *float64 {
	return PaybackPeriod(DiscountedFlows(flows, discountRate))
}
