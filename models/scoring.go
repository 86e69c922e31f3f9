package models

// ScoringSettings controls per-set scoring rules. MaxPointsPerSet must be
// greater than or equal to PointsToWinSet; this is enforced at tournament
// creation and assumed by the outcome resolver.
type ScoringSettings struct {
	PointsToWinSet  int  `json:"points_to_win_set"`
	MustWinByTwo    bool `json:"must_win_by_two"`
	MaxPointsPerSet int  `json:"max_points_per_set"`
	MaxSets         int  `json:"max_sets"`
	SetsToWin       int  `json:"sets_to_win"`
}

// DefaultScoringSettings is standard rally scoring: best of three sets to 21,
// win by two, capped at 30.
func DefaultScoringSettings() ScoringSettings {
	return ScoringSettings{
		PointsToWinSet:  21,
		MustWinByTwo:    true,
		MaxPointsPerSet: 30,
		MaxSets:         3,
		SetsToWin:       2,
	}
}
