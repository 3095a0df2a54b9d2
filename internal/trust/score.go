package trust

// NeutralScore is assigned to data points nobody has voted on yet.
const NeutralScore = 50.0

// Score computes the community trust score for a data point from its vote
// tallies:
//
//	total = confirms + disputes + flags
//	score = 50                        if total == 0
//	      = confirms / total * 100    otherwise
//
// Flags lower the score only through the denominator. The result is always
// within [0, 100].
func Score(confirms, disputes, flags int) float64 {
	total := confirms + disputes + flags
	if total == 0 {
		return NeutralScore
	}
	return float64(confirms) / float64(total) * 100
}

// Trust levels assigned to users based on voting history.
const (
	LevelNovice      = "novice"
	LevelContributor = "contributor"
	LevelTrusted     = "trusted"
	LevelExpert      = "expert"
)

// Thresholds for trust level promotion. Accuracy is a 0-100 percentage.
const (
	contributorMinVotes = 10
	trustedMinVotes     = 50
	trustedMinAccuracy  = 70.0
	expertMinVotes      = 200
	expertMinAccuracy   = 85.0
)

// Level returns the trust level for a user given their total validations
// cast and validation accuracy. Levels can move down as well as up when
// accuracy drops.
func Level(validationsCount int, accuracy float64) string {
	switch {
	case validationsCount >= expertMinVotes && accuracy >= expertMinAccuracy:
		return LevelExpert
	case validationsCount >= trustedMinVotes && accuracy >= trustedMinAccuracy:
		return LevelTrusted
	case validationsCount >= contributorMinVotes:
		return LevelContributor
	default:
		return LevelNovice
	}
}
