package result

import "time"

// MatchResult is the settled outcome row written by the results collector.
type MatchResult struct {
	MatchID        string
	HomeTeam       string
	AwayTeam       string
	NormalizedHome string
	NormalizedAway string
	Kickoff        time.Time
	HomeScore      int
	AwayScore      int
	HTHomeScore    int
	HTAwayScore    int
	Finished       bool
}
