package coach

import "time"

const (
	TendencyDefensive = "defensive"
	TendencyOffensive = "offensive"
	TendencyBalanced  = "balanced"
)

// Profile is the reference row for a head coach, keyed by current team.
type Profile struct {
	Name            string
	CurrentTeam     string
	TacticalStyle   string
	Tendency        string
	AvgGoalsFor     float64
	AvgGoalsAgainst float64
	WinRate         float64
	MatchesManaged  int
	ContractStart   time.Time
}

const (
	newManagerMaxMatches = 5
	newManagerWindow     = 45 * 24 * time.Hour
)

// IsNewManager reports whether the coach should be treated as settling in
// at the given kickoff: five or fewer matches managed, or a contract that
// started inside the 45-day window before kickoff.
func (p Profile) IsNewManager(kickoff time.Time) bool {
	if p.MatchesManaged <= newManagerMaxMatches {
		return true
	}
	if p.ContractStart.IsZero() {
		return false
	}
	return kickoff.Sub(p.ContractStart) <= newManagerWindow && kickoff.After(p.ContractStart)
}
