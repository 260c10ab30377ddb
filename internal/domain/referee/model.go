package referee

const (
	StrictnessLenient = "lenient"
	StrictnessMedium  = "medium"
	StrictnessStrict  = "strict"
)

// Referee is the reference row for a match official.
type Referee struct {
	Name           string
	NormalizedName string
	League         string
	AvgCardsMatch  float64
	AvgGoalsMatch  float64
	Strictness     string
	MatchesRefed   int
}
