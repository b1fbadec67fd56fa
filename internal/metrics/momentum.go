package metrics

import "math"

// Trend classifies how recent XP compares with the days before.
type Trend string

const (
	TrendStarting     Trend = "starting"
	TrendAccelerating Trend = "accelerating"
	TrendGrowing      Trend = "growing"
	TrendSteady       Trend = "steady"
	TrendDeclining    Trend = "declining"
)

// Recommendation texts, selected by score band.
const (
	RecBeginJourney     = "Begin your journey: log your first activities today to start building momentum."
	RecLegendary        = "Legendary momentum! You are operating at superstar level. Protect this rhythm and consider raising your intensity."
	RecStrong           = "Strong momentum! Keep the daily consistency and push for breakthrough days above 200 XP."
	RecBuildConsistency = "Good energy, but consistency is the gap. Hit 160 XP every single day to lock in your streak."
	RecBreakPlateau     = "Solid base, but growth has stalled. Add one scary task tomorrow to break the plateau."
	RecRebalance        = "Good momentum, but your domains are unbalanced. Give your weakest domain focused attention tomorrow."
	RecPushIntensity    = "Good momentum. Push intensity: schedule at least one 200+ XP day this week."
	RecBuilding         = "Building momentum. Focus on reaching 160 XP daily to establish a streak."
	RecLow              = "Momentum is low. Start small: complete one critical task and log XP in every domain today."
)

// Factors are the four 0–100 components of the momentum score.
type Factors struct {
	Consistency int `json:"consistency"`
	Growth      int `json:"growth"`
	Balance     int `json:"balance"`
	Intensity   int `json:"intensity"`
}

// Momentum is the weighted composite score over the trailing window.
type Momentum struct {
	Score          int     `json:"score"`
	Trend          Trend   `json:"trend"`
	Recommendation string  `json:"recommendation"`
	Factors        Factors `json:"factors"`
}

type factorValues struct {
	consistency, growth, balance, intensity float64
}

// Momentum scores a window of days, most recent first. Only the first WindowDays are used.
func (e *Engine) Momentum(window []DaySummary) Momentum {
	if len(window) > WindowDays {
		window = window[:WindowDays]
	}
	if len(window) == 0 {
		return Momentum{Trend: TrendStarting, Recommendation: RecBeginJourney}
	}

	f := e.factors(window)
	score := 0.4*f.consistency + 0.3*f.growth + 0.2*f.balance + 0.1*f.intensity
	factors := Factors{
		Consistency: int(math.Round(f.consistency)),
		Growth:      int(math.Round(f.growth)),
		Balance:     int(math.Round(f.balance)),
		Intensity:   int(math.Round(f.intensity)),
	}

	rounded := int(math.Round(clamp(score, 0, 100)))
	return Momentum{
		Score:          rounded,
		Trend:          Classify(window),
		Recommendation: recommend(rounded, f),
		Factors:        factors,
	}
}

func (e *Engine) factors(window []DaySummary) factorValues {
	var qualifying, intensive int
	for _, d := range window {
		if d.TotalXP >= e.catalog.QualifyingXP {
			qualifying++
		}
		if d.TotalXP >= e.catalog.IntensiveXP {
			intensive++
		}
	}

	return factorValues{
		consistency: float64(qualifying) / WindowDays * 100,
		growth:      growthFactor(window),
		balance:     e.balanceFactor(window),
		intensity:   float64(intensive) / WindowDays * 100,
	}
}

// growthFactor compares the latest three days with the rest. Flat growth scores 50.
func growthFactor(window []DaySummary) float64 {
	split := 3
	if split > len(window) {
		split = len(window)
	}
	recentAvg := averageXP(window[:split])
	olderAvg := averageXP(window[split:])

	var pct float64
	switch {
	case olderAvg > 0:
		pct = (recentAvg - olderAvg) / olderAvg * 100
	case recentAvg > 0:
		pct = 100
	}
	return clamp(pct+50, 0, 100)
}

// balanceFactor is the weakest domain average as a percentage of the strongest.
func (e *Engine) balanceFactor(window []DaySummary) float64 {
	avgs := e.domainAverages(window)
	if len(avgs) == 0 {
		return 0
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, a := range avgs {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	if hi <= 0 {
		return 0
	}
	return lo / hi * 100
}

func (e *Engine) domainAverages(window []DaySummary) []float64 {
	if len(window) == 0 {
		return nil
	}
	ids := e.catalog.DomainIDs()
	avgs := make([]float64, len(ids))
	for i, id := range ids {
		total := 0
		for _, d := range window {
			total += d.Domains[id]
		}
		avgs[i] = float64(total) / float64(len(window))
	}
	return avgs
}

// Classify compares the average XP of the latest three days with the three before.
// Fewer than four days of history is "starting".
func Classify(window []DaySummary) Trend {
	if len(window) < 4 {
		return TrendStarting
	}
	end := 6
	if end > len(window) {
		end = len(window)
	}
	current := averageXP(window[:3])
	recent := averageXP(window[3:end])

	switch {
	case current > recent+10:
		return TrendAccelerating
	case current > recent+5:
		return TrendGrowing
	case current >= recent-5:
		return TrendSteady
	default:
		return TrendDeclining
	}
}

func recommend(score int, f factorValues) string {
	switch {
	case score >= 90:
		return RecLegendary
	case score >= 75:
		return RecStrong
	case score >= 60:
		if f.consistency < 50 {
			return RecBuildConsistency
		}
		if f.growth < 50 {
			return RecBreakPlateau
		}
		if f.balance <= f.intensity {
			return RecRebalance
		}
		return RecPushIntensity
	case score >= 40:
		return RecBuilding
	default:
		return RecLow
	}
}
