package variation

import (
	"math"
	"math/rand"
)

// Sampler draws from Beta posteriors for Thompson sampling. It wraps a
// rand.Rand so experiments can be made deterministic in tests.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Pick draws once from every arm's posterior and returns the index of the
// highest draw. Empty input returns -1.
func (s *Sampler) Pick(arms []Variation) int {
	best := -1
	bestDraw := -1.0
	for i, arm := range arms {
		draw := s.Beta(arm.Alpha, arm.Beta)
		if draw > bestDraw {
			bestDraw = draw
			best = i
		}
	}
	return best
}

// Beta samples Beta(a, b) via two gamma draws.
func (s *Sampler) Beta(a, b float64) float64 {
	x := s.gamma(a)
	y := s.gamma(b)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// gamma samples Gamma(shape, 1) with the Marsaglia-Tsang squeeze method,
// boosting shapes below one through Gamma(shape+1) and a uniform power.
func (s *Sampler) gamma(shape float64) float64 {
	if shape <= 0 {
		return 0
	}
	if shape < 1 {
		u := s.rng.Float64()
		for u == 0 {
			u = s.rng.Float64()
		}
		return s.gamma(shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / (3.0 * math.Sqrt(d))
	for {
		x := s.rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if u > 0 && math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}
