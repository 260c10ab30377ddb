package memory

import (
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/coach"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/domain/referee"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/tactical"
	"github.com/crocodileps/oddsedge/internal/domain/team"
)

const SeedLeague = "eng-premier-league"

// Seed data backs local development runs without a database. Figures are
// plausible, not sourced.
func SeedTeams() []team.Team {
	return []team.Team{
		{
			Name: "Arsenal", NormalizedName: "arsenal", League: SeedLeague,
			Tier: team.TierS, PlayingStyle: team.StylePressing, Tempo: "high_tempo",
			HomeScoredP90: 2.3, HomeConcededP90: 0.8, AwayScoredP90: 1.9, AwayConcededP90: 1.0,
			BTTSPct: 0.48, Over25Pct: 0.61, LastFiveForm: "WWDWW", MatchesPlayed: 30,
		},
		{
			Name: "Liverpool", NormalizedName: "liverpool", League: SeedLeague,
			Tier: team.TierS, PlayingStyle: team.StylePressing, Tempo: "high_tempo",
			HomeScoredP90: 2.4, HomeConcededP90: 0.9, AwayScoredP90: 2.0, AwayConcededP90: 1.2,
			BTTSPct: 0.55, Over25Pct: 0.66, LastFiveForm: "WWWDW", MatchesPlayed: 30,
		},
		{
			Name: "Brentford", NormalizedName: "brentford", League: SeedLeague,
			Tier: team.TierC, PlayingStyle: team.StyleDirect, Tempo: team.TempoMedium,
			HomeScoredP90: 1.5, HomeConcededP90: 1.4, AwayScoredP90: 1.1, AwayConcededP90: 1.7,
			BTTSPct: 0.58, Over25Pct: 0.55, LastFiveForm: "LDWLD", MatchesPlayed: 30,
		},
		{
			Name: "Luton Town", NormalizedName: "luton town", League: SeedLeague,
			Tier: team.TierD, PlayingStyle: team.StyleLowBlockCounter, Tempo: team.TempoMedium,
			HomeScoredP90: 1.2, HomeConcededP90: 1.8, AwayScoredP90: 0.8, AwayConcededP90: 2.2,
			BTTSPct: 0.52, Over25Pct: 0.57, LastFiveForm: "LLDLL", MatchesPlayed: 30,
		},
	}
}

func SeedLeagueMeans() []team.LeagueMeans {
	return []team.LeagueMeans{
		{League: SeedLeague, ScoredP90: 1.42, ConcededP90: 1.42, BTTSPct: 0.53, Over25Pct: 0.56, GoalsPerGame: 2.85},
	}
}

func SeedCoaches() []coach.Profile {
	return []coach.Profile{
		{
			Name: "Mikel Arteta", CurrentTeam: "arsenal", Tendency: coach.TendencyOffensive,
			AvgGoalsFor: 2.1, AvgGoalsAgainst: 0.9, WinRate: 0.62, MatchesManaged: 210,
			ContractStart: time.Date(2019, 12, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			Name: "Rob Edwards", CurrentTeam: "luton town", Tendency: coach.TendencyDefensive,
			AvgGoalsFor: 1.0, AvgGoalsAgainst: 1.9, WinRate: 0.28, MatchesManaged: 80,
			ContractStart: time.Date(2022, 11, 17, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedReferees() []referee.Referee {
	return []referee.Referee{
		{Name: "Michael Oliver", NormalizedName: "michael oliver", League: SeedLeague, AvgCardsMatch: 4.1, AvgGoalsMatch: 2.9, Strictness: referee.StrictnessMedium, MatchesRefed: 300},
		{Name: "Anthony Taylor", NormalizedName: "anthony taylor", League: SeedLeague, AvgCardsMatch: 4.6, AvgGoalsMatch: 2.6, Strictness: referee.StrictnessStrict, MatchesRefed: 280},
	}
}

func SeedMatchups() []tactical.Matchup {
	return []tactical.Matchup{
		{StyleHome: team.StylePressing, StyleAway: team.StylePressing, BTTSProb: 0.60, Over25Prob: 0.64, AvgGoals: 3.1, UpsetProb: 0.30, Confidence: 0.70},
		{StyleHome: team.StylePressing, StyleAway: team.StyleLowBlockCounter, BTTSProb: 0.45, Over25Prob: 0.52, AvgGoals: 2.6, UpsetProb: 0.15, Confidence: 0.70},
		{StyleHome: team.StyleDirect, StyleAway: team.StylePressing, BTTSProb: 0.57, Over25Prob: 0.58, AvgGoals: 2.9, UpsetProb: 0.35, Confidence: 0.55},
		{StyleHome: tactical.FallbackStyle, StyleAway: tactical.FallbackStyle, BTTSProb: 0.53, Over25Prob: 0.56, AvgGoals: 2.85, UpsetProb: 0.25, Confidence: 0.30},
	}
}

func SeedHeadToHead() []headtohead.Record {
	return []headtohead.Record{
		{TeamA: "arsenal", TeamB: "liverpool", TotalMatches: 12, AvgGoals: 3.2, BTTSPct: 0.67, HomeWins: 5, AwayWins: 4, Draws: 3},
		{TeamA: "brentford", TeamB: "luton town", TotalMatches: 4, AvgGoals: 2.5, BTTSPct: 0.50, HomeWins: 2, AwayWins: 1, Draws: 1},
	}
}

func SeedScorers() []scorers.Scorer {
	return []scorers.Scorer{
		{PlayerName: "Bukayo Saka", Team: "arsenal", Rank: 1, Goals: 14, Assists: 9, XGShare: 0.24, Available: true},
		{PlayerName: "Kai Havertz", Team: "arsenal", Rank: 2, Goals: 11, Assists: 4, XGShare: 0.18, Available: true},
		{PlayerName: "Mohamed Salah", Team: "liverpool", Rank: 1, Goals: 18, Assists: 10, XGShare: 0.31, Available: true},
		{PlayerName: "Yoane Wissa", Team: "brentford", Rank: 1, Goals: 12, Assists: 3, XGShare: 0.35, Available: true},
		{PlayerName: "Carlton Morris", Team: "luton town", Rank: 1, Goals: 9, Assists: 4, XGShare: 0.33, Available: true},
	}
}
