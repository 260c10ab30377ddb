package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrediction")
	defer span.End()

	var req createPredictionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoff, err := time.Parse(time.RFC3339, req.Kickoff)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: kickoff_at must be RFC3339: %v", usecase.ErrInvalidInput, err))
		return
	}
	target, err := market.ParseTarget(req.Target)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	prediction, err := h.predictionService.Predict(ctx, usecase.MatchQuery{
		MatchID:  req.MatchID,
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
		League:   req.League,
		Kickoff:  kickoff,
		Referee:  req.Referee,
		Target:   target,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "predict failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, prediction))
}
