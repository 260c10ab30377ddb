package postgres

import (
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/domain/referee"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/tactical"
	"github.com/crocodileps/oddsedge/internal/domain/team"
)

type teamTableModel struct {
	Name            string  `db:"name"`
	NormalizedName  string  `db:"normalized_name"`
	League          string  `db:"league"`
	Tier            string  `db:"tier"`
	PlayingStyle    string  `db:"playing_style"`
	Tempo           string  `db:"tempo"`
	HomeScoredP90   float64 `db:"home_scored_p90"`
	HomeConcededP90 float64 `db:"home_conceded_p90"`
	AwayScoredP90   float64 `db:"away_scored_p90"`
	AwayConcededP90 float64 `db:"away_conceded_p90"`
	BTTSPct         float64 `db:"btts_pct"`
	Over25Pct       float64 `db:"over25_pct"`
	LastFiveForm    string  `db:"last_five_form"`
	MatchesPlayed   int     `db:"matches_played"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		Name:            m.Name,
		NormalizedName:  m.NormalizedName,
		League:          m.League,
		Tier:            m.Tier,
		PlayingStyle:    m.PlayingStyle,
		Tempo:           m.Tempo,
		HomeScoredP90:   m.HomeScoredP90,
		HomeConcededP90: m.HomeConcededP90,
		AwayScoredP90:   m.AwayScoredP90,
		AwayConcededP90: m.AwayConcededP90,
		BTTSPct:         m.BTTSPct,
		Over25Pct:       m.Over25Pct,
		LastFiveForm:    m.LastFiveForm,
		MatchesPlayed:   m.MatchesPlayed,
	}
}

type leagueMeansTableModel struct {
	League       string  `db:"league"`
	ScoredP90    float64 `db:"scored_p90"`
	ConcededP90  float64 `db:"conceded_p90"`
	BTTSPct      float64 `db:"btts_pct"`
	Over25Pct    float64 `db:"over25_pct"`
	GoalsPerGame float64 `db:"goals_per_game"`
}

type coachTableModel struct {
	Name            string    `db:"name"`
	CurrentTeam     string    `db:"current_team"`
	TacticalStyle   string    `db:"tactical_style"`
	Tendency        string    `db:"tendency"`
	AvgGoalsFor     float64   `db:"avg_goals_for"`
	AvgGoalsAgainst float64   `db:"avg_goals_against"`
	WinRate         float64   `db:"win_rate"`
	MatchesManaged  int       `db:"matches_managed"`
	ContractStart   time.Time `db:"contract_start"`
}

func (m coachTableModel) toDomain() coach.Profile {
	return coach.Profile{
		Name:            m.Name,
		CurrentTeam:     m.CurrentTeam,
		TacticalStyle:   m.TacticalStyle,
		Tendency:        m.Tendency,
		AvgGoalsFor:     m.AvgGoalsFor,
		AvgGoalsAgainst: m.AvgGoalsAgainst,
		WinRate:         m.WinRate,
		MatchesManaged:  m.MatchesManaged,
		ContractStart:   m.ContractStart,
	}
}

type refereeTableModel struct {
	Name           string  `db:"name"`
	NormalizedName string  `db:"normalized_name"`
	League         string  `db:"league"`
	AvgCardsMatch  float64 `db:"avg_cards_match"`
	AvgGoalsMatch  float64 `db:"avg_goals_match"`
	Strictness     string  `db:"strictness"`
	MatchesRefed   int     `db:"matches_refed"`
}

func (m refereeTableModel) toDomain() referee.Referee {
	return referee.Referee{
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		League:         m.League,
		AvgCardsMatch:  m.AvgCardsMatch,
		AvgGoalsMatch:  m.AvgGoalsMatch,
		Strictness:     m.Strictness,
		MatchesRefed:   m.MatchesRefed,
	}
}

type matchupTableModel struct {
	StyleHome  string  `db:"style_home"`
	StyleAway  string  `db:"style_away"`
	BTTSProb   float64 `db:"btts_prob"`
	Over25Prob float64 `db:"over25_prob"`
	AvgGoals   float64 `db:"avg_goals"`
	UpsetProb  float64 `db:"upset_prob"`
	Confidence float64 `db:"confidence"`
}

func (m matchupTableModel) toDomain() tactical.Matchup {
	return tactical.Matchup{
		StyleHome:  m.StyleHome,
		StyleAway:  m.StyleAway,
		BTTSProb:   m.BTTSProb,
		Over25Prob: m.Over25Prob,
		AvgGoals:   m.AvgGoals,
		UpsetProb:  m.UpsetProb,
		Confidence: m.Confidence,
	}
}

type headToHeadTableModel struct {
	TeamA        string  `db:"team_a"`
	TeamB        string  `db:"team_b"`
	TotalMatches int     `db:"total_matches"`
	AvgGoals     float64 `db:"avg_goals"`
	BTTSPct      float64 `db:"btts_pct"`
	HomeWins     int     `db:"home_wins"`
	AwayWins     int     `db:"away_wins"`
	Draws        int     `db:"draws"`
}

func (m headToHeadTableModel) toDomain() headtohead.Record {
	return headtohead.Record{
		TeamA:        m.TeamA,
		TeamB:        m.TeamB,
		TotalMatches: m.TotalMatches,
		AvgGoals:     m.AvgGoals,
		BTTSPct:      m.BTTSPct,
		HomeWins:     m.HomeWins,
		AwayWins:     m.AwayWins,
		Draws:        m.Draws,
	}
}

type scorerTableModel struct {
	PlayerName string  `db:"player_name"`
	Team       string  `db:"team"`
	Rank       int     `db:"rank"`
	Goals      int     `db:"goals"`
	Assists    int     `db:"assists"`
	XGShare    float64 `db:"xg_share"`
}

func (m scorerTableModel) toDomain() scorers.Scorer {
	return scorers.Scorer{
		PlayerName: m.PlayerName,
		Team:       m.Team,
		Rank:       m.Rank,
		Goals:      m.Goals,
		Assists:    m.Assists,
		XGShare:    m.XGShare,
		Available:  true,
	}
}
