package ml

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"

	"github.com/crocodileps/oddsedge/internal/platform/logging"
)

const (
	modelFile  = "model.json"
	scalerFile = "scaler.json"
)

// treeNode is one node of a fitted gradient-boosted tree. Leaves have
// Left == -1 and carry the additive log-odds value.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

type modelArtifact struct {
	FeatureCount int     `json:"feature_count"`
	BaseScore    float64 `json:"base_score"`
	Trees        []tree  `json:"trees"`
}

type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Head is the pre-fitted win-probability classifier plus its feature
// scaler. Loaded once at startup; read-only afterwards.
type Head struct {
	model  modelArtifact
	scaler scalerArtifact
	logger *logging.Logger
}

// Load reads both artifacts from dir. Missing or malformed artifacts are a
// startup error, never a per-request failure.
func Load(dir string, logger *logging.Logger) (*Head, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var model modelArtifact
	if err := readArtifact(filepath.Join(dir, modelFile), &model); err != nil {
		return nil, fmt.Errorf("load model artifact: %w", err)
	}
	var scaler scalerArtifact
	if err := readArtifact(filepath.Join(dir, scalerFile), &scaler); err != nil {
		return nil, fmt.Errorf("load scaler artifact: %w", err)
	}

	if model.FeatureCount != FeatureCount {
		return nil, fmt.Errorf("model artifact expects %d features, this build uses %d", model.FeatureCount, FeatureCount)
	}
	if len(scaler.Mean) != FeatureCount || len(scaler.Scale) != FeatureCount {
		return nil, fmt.Errorf("scaler artifact shape mismatch: mean=%d scale=%d", len(scaler.Mean), len(scaler.Scale))
	}
	if len(model.Trees) == 0 {
		return nil, fmt.Errorf("model artifact has no trees")
	}
	for i, tr := range model.Trees {
		if err := validateTree(tr); err != nil {
			return nil, fmt.Errorf("model tree %d: %w", i, err)
		}
	}

	return &Head{model: model, scaler: scaler, logger: logger}, nil
}

func readArtifact(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, dst)
}

func validateTree(tr tree) error {
	n := len(tr.Nodes)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, node := range tr.Nodes {
		if node.Left == -1 {
			continue
		}
		if node.Left <= i || node.Left >= n || node.Right <= i || node.Right >= n {
			return fmt.Errorf("node %d has out-of-range children", i)
		}
		if node.Feature < 0 || node.Feature >= FeatureCount {
			return fmt.Errorf("node %d splits on unknown feature %d", i, node.Feature)
		}
	}
	return nil
}

// WinProbability scales the vector and walks every tree, returning a
// probability in [0,1]. Non-finite inputs are zeroed and logged, never
// silently bypassed.
func (h *Head) WinProbability(vector [FeatureCount]float64) float64 {
	repaired := 0
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			vector[i] = 0
			repaired++
		}
	}
	if repaired > 0 {
		h.logger.Warn("ml input repaired", "non_finite_features", repaired)
	}

	var scaled [FeatureCount]float64
	for i, v := range vector {
		s := h.scaler.Scale[i]
		if s == 0 {
			s = 1
		}
		scaled[i] = (v - h.scaler.Mean[i]) / s
	}

	sum := h.model.BaseScore
	for _, tr := range h.model.Trees {
		sum += walk(tr, scaled)
	}
	return sigmoid(sum)
}

func walk(tr tree, scaled [FeatureCount]float64) float64 {
	idx := 0
	for {
		node := tr.Nodes[idx]
		if node.Left == -1 {
			return node.Value
		}
		if scaled[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
