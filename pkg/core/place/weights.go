package place

// Weights are the tunable multipliers of the candidate scorer. They are
// empirically tuned, not derived from a model; override them via the TOML
// engine config rather than editing the defaults.
type Weights struct {
	Adjacency      float64 `toml:"adjacency" json:"adjacency"`
	Proximity      float64 `toml:"proximity" json:"proximity"`
	Environmental  float64 `toml:"environmental" json:"environmental"`
	Rectangularity float64 `toml:"rectangularity" json:"rectangularity"`
	Proportion     float64 `toml:"proportion" json:"proportion"`
}

// DefaultWeights returns the stock scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Adjacency:      20.0,
		Proximity:      15.0,
		Environmental:  10.0,
		Rectangularity: 8.0,
		Proportion:     5.0,
	}
}

// ScoreInfeasible is the sentinel returned for candidates that violate a
// hard constraint. Any candidate scoring at or below [FeasibilityFloor] is
// rejected outright.
const ScoreInfeasible = -1e9

// FeasibilityFloor is the minimum score a candidate must clear to be
// committed.
const FeasibilityFloor = -1e8
