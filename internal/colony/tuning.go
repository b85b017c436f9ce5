package colony

// Tuning holds the fixed constants of the simulation.
type Tuning struct {
	HexScale         float64 // hex radius in world units
	ClickThreshold   float64 // gestures shorter than this are clicks
	HitRadius        float64 // click distance that hits a unit
	ArrivalTolerance float64 // distance at which a waypoint counts as reached
	UnitSpeed        float64 // world units per second
	SpiralCap        int     // rings searched when allocating destinations
	WorkerCount      int     // workers spawned around the queen
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		HexScale:         20.0,
		ClickThreshold:   5.0,
		HitRadius:        15.0,
		ArrivalTolerance: 2.0,
		UnitSpeed:        100.0,
		SpiralCap:        10,
		WorkerCount:      3,
	}
}
