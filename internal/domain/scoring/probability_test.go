package scoring

import (
	"math"
	"testing"

	"github.com/crocodileps/oddsedge/internal/domain/market"
)

func TestPoissonOverTwoFive(t *testing.T) {
	t.Parallel()

	// P(Poisson(3.0) > 2.5) = 1 - e^-3 (1 + 3 + 4.5)
	want := 1 - math.Exp(-3)*8.5
	if got := poissonOverTwoFive(3.0); math.Abs(got-want) > 1e-12 {
		t.Fatalf("over 2.5 at lambda 3: got %v want %v", got, want)
	}
}

func TestProbabilitiesAreCoherent(t *testing.T) {
	t.Parallel()

	probs := Probabilities(1.5, 1.2)

	if math.Abs(probs[market.Over25]+probs[market.Under25]-1) > 0.03 {
		t.Fatalf("over/under must complement: %v + %v", probs[market.Over25], probs[market.Under25])
	}
	oneXTwoSum := probs[market.Home] + probs[market.Draw] + probs[market.Away]
	if math.Abs(oneXTwoSum-1) > 0.03 {
		t.Fatalf("1x2 trio must sum to ~1, got %v", oneXTwoSum)
	}
	if probs[market.DC1X] < probs[market.Home] {
		t.Fatal("double chance must dominate its single outcome")
	}
	if probs[market.Home] <= probs[market.Away] {
		t.Fatal("higher expected goals must favour the home side")
	}
}

func TestOneXTwoHomeAdvantage(t *testing.T) {
	t.Parallel()

	home, _, away := oneXTwo(1.4, 1.4)
	if home <= away {
		t.Fatalf("equal sides must still carry home advantage: home=%v away=%v", home, away)
	}
}

func TestAttackMultiplierFloor(t *testing.T) {
	t.Parallel()

	if got := attackMultiplier(0.35); math.Abs(got-0.65) > 1e-12 {
		t.Fatalf("35%% missing xG: got %v want 0.65", got)
	}
	if got := attackMultiplier(0.9); got != 0.4 {
		t.Fatalf("multiplier must floor at 0.4, got %v", got)
	}
}
