package domain

// CurveSummary describes one trader's synthesized equity curve.
type CurveSummary struct {
	TraderID  string
	Label     string
	Archetype string
	Points    int
	Start     float64
	End       float64
	Min       float64
	Max       float64
	Target    float64
}

// SummarizeCurve computes the summary of a non-empty curve.
func SummarizeCurve(t Trader, curve []float64, target float64) CurveSummary {
	s := CurveSummary{
		TraderID:  t.ID,
		Label:     t.Label,
		Archetype: t.Archetype.Name,
		Points:    len(curve),
		Target:    target,
	}
	if len(curve) == 0 {
		return s
	}
	s.Start, s.End = curve[0], curve[len(curve)-1]
	s.Min, s.Max = curve[0], curve[0]
	for _, v := range curve[1:] {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	return s
}

// ReturnPct is the start-to-end return in percent.
func (s CurveSummary) ReturnPct() float64 {
	if s.Start == 0 {
		return 0
	}
	return (s.End/s.Start - 1) * 100
}

// MaxDrawdownPct is the deepest peak-to-trough fall of the curve, in percent.
func MaxDrawdownPct(curve []float64) float64 {
	var peak, worst float64
	for i, v := range curve {
		if i == 0 || v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak * 100; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// TraderResult tallies what the run produced for one trader.
type TraderResult struct {
	TraderID     string
	Label        string
	Dir          string
	Records      int
	Cleared      int
	Actions      map[Action]int
	MaxDrawdown  float64
	FinalBalance float64
}

// RunSummary is the outcome of one generation run.
type RunSummary struct {
	RunID   string
	Seed    uint64
	Points  int
	Traders []TraderResult
}

// Records is the total number of snapshots written.
func (r RunSummary) Records() int {
	var n int
	for _, t := range r.Traders {
		n += t.Records
	}
	return n
}

// TraderStats aggregates a trader's stored snapshots.
type TraderStats struct {
	TraderID     string
	Records      int
	MinBalance   float64
	MaxBalance   float64
	AvgMarginPct float64
	AvgPositions float64
	Opens        int
	Closes       int
}
