package savings

import (
	"fmt"

	"Caldera/internal/calc/finance"
	"Caldera/internal/calc/units"
)

// Creating Shared Value rubric weights; they sum to 1.
const (
	weightWater       = 0.2
	weightReliability = 0.2
	weightInnovation  = 0.2
	weightFinancial   = 0.4
)

func enterprise(t units.Table, in EnterpriseInputs, fin *Financials) *EnterpriseROI {
	years := t.HorizonYears
	flows := finance.Level(fin.TotalCost, fin.AnnualSavings, years)
	npv := finance.NPV(in.DiscountRate, flows)
	irr, ok := finance.IRR(flows, t.IRRTolerance, t.IRRMaxIterations)
	roi := units.SafeDiv(finance.Undiscounted(flows), fin.TotalCost)
	// Savings with nothing invested: ROI has no finite value and scores full marks.
	unbounded := fin.TotalCost <= 0 && fin.AnnualSavings > 0
	financial := units.Clamp(5*roi, 0, 10)
	if unbounded {
		financial = 10
	}

	breakdown := CSVBreakdown{
		Water:       qualitative(in.WaterScore),
		Reliability: qualitative(in.ReliabilityScore),
		Innovation:  qualitative(in.InnovationScore),
		Financial:   financial,
	}
	score := CSVScore(breakdown)
	multiplier := 1 + (score-5)/50

	out := &EnterpriseROI{
		HorizonYears:          years,
		DiscountRate:          in.DiscountRate,
		CashFlows:             flows,
		NPV:                   npv,
		IRRDetermined:         ok,
		SimpleROI:             roi,
		ROIUnbounded:          unbounded,
		PaybackYears:          fin.PaybackYears,
		PaybackViable:         fin.PaybackViable,
		SavingsShareOfRevenue: units.SafeDiv(fin.AnnualSavings, in.FacilityRevenue),
		CSVScore:              score,
		CSVBreakdown:          breakdown,
		StrategicMultiplier:   multiplier,
		StrategicNPV:          npv * multiplier,
		PositiveNPV:           npv > 0,
		StrategicFit:          score >= t.StrategicMinScore,
	}
	switch {
	case ok:
		out.IRR = irr
		out.MeetsHurdle = irr >= t.HurdleRate
	case finance.AboveCeiling(flows):
		out.IRRAboveRange = true
		out.MeetsHurdle = true
	}
	out.Viable = out.PositiveNPV && out.MeetsHurdle && out.StrategicFit
	out.Recommendation = recommendation(t, out)
	return out
}

// CSVScore is the weighted 0–10 shared-value score.
func CSVScore(b CSVBreakdown) float64 {
	return weightWater*b.Water + weightReliability*b.Reliability + weightInnovation*b.Innovation + weightFinancial*b.Financial
}

// qualitative clamps a 1–10 score; unset scores count as neutral.
func qualitative(v float64) float64 {
	if v <= 0 {
		return 5
	}
	return units.Clamp(v, 1, 10)
}

func recommendation(t units.Table, r *EnterpriseROI) string {
	hurdle := fmt.Sprintf("%.0f%%", t.HurdleRate*100)
	switch {
	case r.Viable:
		return fmt.Sprintf("Proceed: positive NPV, IRR above the %s hurdle and a strong shared-value score.", hurdle)
	case r.PositiveNPV && r.MeetsHurdle:
		return fmt.Sprintf("Financially sound; strengthen the shared-value case (score below %.1f).", t.StrategicMinScore)
	case r.PositiveNPV:
		return fmt.Sprintf("Marginal: NPV is positive but IRR does not reach the %s hurdle.", hurdle)
	case r.StrategicFit:
		return "Strategic case only: consider incentives or financing to reach a positive NPV."
	default:
		return "Not recommended under current assumptions."
	}
}
