package ml

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/crocodileps/oddsedge/internal/domain/features"
	"github.com/crocodileps/oddsedge/internal/domain/headtohead"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

// writeArtifacts drops a tiny two-tree model into dir: both trees split on
// the scaled implied_prob feature.
func writeArtifacts(t *testing.T, dir string) {
	t.Helper()

	model := `{
		"feature_count": 25,
		"base_score": 0.0,
		"trees": [
			{"nodes": [
				{"feature": 0, "threshold": 0.0, "left": 1, "right": 2},
				{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": -0.8},
				{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": 0.8}
			]},
			{"nodes": [
				{"feature": 0, "threshold": 0.0, "left": 1, "right": 2},
				{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": -0.4},
				{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": 0.4}
			]}
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(model), 0o600))

	mean := "[0.5"
	scale := "[0.1"
	for i := 1; i < FeatureCount; i++ {
		mean += ",0"
		scale += ",1"
	}
	mean += "]"
	scale += "]"
	scaler := `{"mean": ` + mean + `, "scale": ` + scale + `}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"), []byte(scaler), 0o600))
}

func TestLoadAndPredict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifacts(t, dir)

	head, err := Load(dir, logging.NewNop())
	require.NoError(t, err)

	// implied_prob above the scaler mean routes right in both trees.
	var high [FeatureCount]float64
	high[0] = 0.60
	pHigh := head.WinProbability(high)
	require.InDelta(t, sigmoid(1.2), pHigh, 1e-12)

	var low [FeatureCount]float64
	low[0] = 0.40
	pLow := head.WinProbability(low)
	require.Less(t, pLow, pHigh)
	require.GreaterOrEqual(t, pLow, 0.0)
	require.LessOrEqual(t, pHigh, 1.0)
}

func TestLoadMissingArtifactFails(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir(), logging.NewNop())
	require.Error(t, err)
}

func TestLoadRejectsWrongShape(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifacts(t, dir)
	bad := `{"feature_count": 7, "base_score": 0, "trees": [{"nodes":[{"feature":0,"threshold":0,"left":-1,"right":-1,"value":0.1}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(bad), 0o600))

	_, err := Load(dir, logging.NewNop())
	require.Error(t, err)
}

func TestNaNInputsAreRepaired(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeArtifacts(t, dir)
	head, err := Load(dir, logging.NewNop())
	require.NoError(t, err)

	var v [FeatureCount]float64
	v[0] = math.NaN()
	v[3] = math.Inf(1)
	p := head.WinProbability(v)
	require.False(t, math.IsNaN(p))
	require.GreaterOrEqual(t, p, 0.0)
	require.LessOrEqual(t, p, 1.0)
}

func TestVectorOrdering(t *testing.T) {
	t.Parallel()

	b := &features.Bundle{
		H2H: &headtohead.Record{TotalMatches: 6, AvgGoals: 3.1, BTTSPct: 0.67},
	}
	b.FillDefaults()
	b.Derive()

	v := Vector(b, PickContext{
		ImpliedProb:      0.52,
		OddsTaken:        1.92,
		DiamondScore:     48,
		EdgePct:          4.2,
		EVExpected:       0.08,
		PredictedProb:    0.56,
		HoursBeforeMatch: 26,
		SteamMoveBps:     -12,
	})

	require.Equal(t, 0.52, v[0])
	require.Equal(t, 1.92, v[1])
	require.Equal(t, 48.0, v[2])
	require.Equal(t, 26.0, v[6])
	require.Equal(t, 6.0, v[14])
	require.Equal(t, 3.1, v[15])
	require.Equal(t, -12.0, v[24])
	require.Len(t, FeatureNames, FeatureCount)
}
