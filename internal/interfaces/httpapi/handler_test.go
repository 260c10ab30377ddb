package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/infrastructure/repository/memory"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

func newTestRouter(t *testing.T, picks ...pick.Pick) http.Handler {
	t.Helper()

	repo := memory.NewPickRepository()
	for _, p := range picks {
		if err := repo.Insert(context.Background(), p); err != nil {
			t.Fatalf("seed pick %s: %v", p.ID, err)
		}
	}

	handler := NewHandler(nil, nil, usecase.NewPerformanceService(repo), nil, repo, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, "job-secret")
}

func testPick(id string, marketType market.Type) pick.Pick {
	created := time.Date(2025, 11, 8, 10, 0, 0, 0, time.UTC)
	return pick.Pick{
		ID:           id,
		MatchID:      "match-" + id,
		HomeTeam:     "arsenal",
		AwayTeam:     "brentford",
		League:       "premier-league",
		MarketType:   marketType,
		Selection:    string(marketType),
		OddsTaken:    2.10,
		ModelProb:    0.55,
		Edge:         0.08,
		DiamondScore: 61,
		KellyStake:   0.02,
		CreatedAt:    created,
		Kickoff:      created.Add(6 * time.Hour),
	}
}

func TestGetPick_ReturnsPick(t *testing.T) {
	router := newTestRouter(t, testPick("p1", market.Home))

	req := httptest.NewRequest(http.MethodGet, "/v1/picks/p1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data pickDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Data.ID != "p1" {
		t.Fatalf("expected pick p1, got %q", body.Data.ID)
	}
	if body.Data.MarketType != string(market.Home) {
		t.Fatalf("expected market %q, got %q", market.Home, body.Data.MarketType)
	}
}

func TestGetPick_UnknownIDIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/picks/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListPicks_FiltersByMarket(t *testing.T) {
	router := newTestRouter(t, testPick("p1", market.Home), testPick("p2", market.Over25))

	req := httptest.NewRequest(http.MethodGet, "/v1/picks?market=over_25", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []pickDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 pick, got %d", len(body.Data))
	}
	if body.Data[0].ID != "p2" {
		t.Fatalf("expected pick p2, got %q", body.Data[0].ID)
	}
}

func TestListPicks_RejectsBadResolvedFlag(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/picks?resolved=banana", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreatePrediction_RejectsUnknownTarget(t *testing.T) {
	router := newTestRouter(t)

	payload := `{
		"match_id": "m-1",
		"home_team": "Arsenal",
		"away_team": "Brentford",
		"kickoff_at": "2025-11-09T15:00:00Z",
		"target_market": "correct_score"
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePrediction_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"match_id": "m-1", "surprise": true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestIngestOdds_RequiresInternalToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingest/odds", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRunResolveJob_UnconfiguredResolverIsUnavailable(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/resolve", nil)
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
