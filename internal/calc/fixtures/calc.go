package fixtures

// Daily hot-water draw per fixture, liters/day.
const (
	LitersPerShower   = 60
	LitersPerBasin    = 30
	LitersPerSink     = 40
	LitersPerOccupant = 50
)

// MaxCount caps every fixture and occupant count so the estimate cannot overflow.
const MaxCount = 1_000_000

type Input struct {
	Showers   int `json:"showers"`
	Basins    int `json:"basins"`
	Sinks     int `json:"sinks"`
	Occupants int `json:"people"`
	// HoursPerDay is carried through for peak-rate math downstream; it does not
	// change the liters estimate.
	HoursPerDay float64 `json:"hours_per_day"`
}

type Result struct {
	DailyLiters int     `json:"daily_liters"`
	HoursPerDay float64 `json:"hours_per_day"`
	Notes       string  `json:"notes"`
}

func Estimate(in Input) int {
	return nonNegative(in.Showers)*LitersPerShower +
		nonNegative(in.Basins)*LitersPerBasin +
		nonNegative(in.Sinks)*LitersPerSink +
		nonNegative(in.Occupants)*LitersPerOccupant
}

func Calculate(in Input) Result {
	return Result{
		DailyLiters: Estimate(in),
		HoursPerDay: in.HoursPerDay,
		Notes:       "Fixture-based daily hot water estimate.",
	}
}

func nonNegative(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxCount:
		return MaxCount
	}
	return n
}
