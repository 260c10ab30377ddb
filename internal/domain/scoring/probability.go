package scoring

import (
	"math"

	"github.com/crocodileps/oddsedge/internal/domain/features"
	"github.com/crocodileps/oddsedge/internal/domain/market"
)

const (
	minProb = 0.01
	maxProb = 0.99
)

// ExpectedGoals derives shrunk expected goals per side. Attack rates are
// damped by the xG share of unavailable top scorers, which is how injury
// news flows into every goals-based probability.
func ExpectedGoals(b *features.Bundle) (lambdaHome, lambdaAway float64) {
	c := ShrinkageC(b.TierDiff)
	means := b.Means

	homeAttack := Shrink(b.Home.HomeScoredP90, b.Home.MatchesPlayed, means.ScoredP90, c)
	homeDefense := Shrink(b.Home.HomeConcededP90, b.Home.MatchesPlayed, means.ConcededP90, c)
	awayAttack := Shrink(b.Away.AwayScoredP90, b.Away.MatchesPlayed, means.ScoredP90, c)
	awayDefense := Shrink(b.Away.AwayConcededP90, b.Away.MatchesPlayed, means.ConcededP90, c)

	lambdaHome = (homeAttack + awayDefense) / 2
	lambdaAway = (awayAttack + homeDefense) / 2

	shareHome, shareAway := b.UnavailableXGShare()
	lambdaHome *= attackMultiplier(shareHome)
	lambdaAway *= attackMultiplier(shareAway)

	return lambdaHome, lambdaAway
}

// attackMultiplier scales a side's expected goals down by the xG share its
// missing scorers carried.
func attackMultiplier(unavailableShare float64) float64 {
	m := 1 - unavailableShare
	if m < 0.4 {
		m = 0.4
	}
	return m
}

// Probabilities computes the raw model probability for every supported
// market from the expected-goals pair: Poisson for goals markets, an
// empirical logit for the 1X2 family.
func Probabilities(lambdaHome, lambdaAway float64) map[market.Type]float64 {
	total := lambdaHome + lambdaAway

	over := poissonOverTwoFive(total)
	btts := poissonBothScore(lambdaHome, lambdaAway)
	home, draw, away := oneXTwo(lambdaHome, lambdaAway)

	probs := map[market.Type]float64{
		market.Over25:  over,
		market.Under25: 1 - over,
		market.BTTSYes: btts,
		market.BTTSNo:  1 - btts,
		market.Home:    home,
		market.Draw:    draw,
		market.Away:    away,
		market.DC1X:    home + draw,
		market.DCX2:    away + draw,
		market.DC12:    home + away,
	}
	for k, v := range probs {
		probs[k] = clampProb(v)
	}
	return probs
}

// poissonOverTwoFive is P(goals > 2.5) under Poisson(total).
func poissonOverTwoFive(lambda float64) float64 {
	if lambda <= 0 {
		return minProb
	}
	pAtMostTwo := math.Exp(-lambda) * (1 + lambda + lambda*lambda/2)
	return 1 - pAtMostTwo
}

// poissonBothScore is P(home >= 1) * P(away >= 1) under independent Poissons.
func poissonBothScore(lambdaHome, lambdaAway float64) float64 {
	return (1 - math.Exp(-lambdaHome)) * (1 - math.Exp(-lambdaAway))
}

// oneXTwo maps the expected-goals gap through a logit fitted on historical
// league results; the intercept carries home advantage.
func oneXTwo(lambdaHome, lambdaAway float64) (home, draw, away float64) {
	const (
		intercept = 0.10
		slope     = 1.05
	)
	gap := lambdaHome - lambdaAway

	home = 1 / (1 + math.Exp(-(intercept + slope*gap)))

	// Draw likelihood shrinks as the sides diverge.
	draw = 0.27 - 0.055*math.Abs(gap)
	if draw < 0.12 {
		draw = 0.12
	}

	home = home * (1 - draw)
	away = 1 - home - draw
	if away < minProb {
		away = minProb
		home = 1 - draw - away
	}
	return home, draw, away
}

func clampProb(p float64) float64 {
	if p < minProb {
		return minProb
	}
	if p > maxProb {
		return maxProb
	}
	return p
}
