package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/odds"
	"github.com/crocodileps/oddsedge/internal/domain/result"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

// Both ingest endpoints tolerate bad rows inside an otherwise valid batch:
// an invalid record is counted and skipped, a storage failure aborts.

func (h *Handler) IngestOddsSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestOddsSnapshots")
	defer span.End()

	var req ingestOddsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	batch := ingestBatchDTO{}
	for _, rec := range req.Snapshots {
		snap, err := rec.toSnapshot()
		if err == nil {
			err = h.ingestService.AppendOdds(ctx, snap)
		}
		if err != nil {
			if !errors.Is(err, usecase.ErrInvalidInput) {
				h.logger.ErrorContext(ctx, "append odds snapshot failed", "match_id", rec.MatchID, "error", err)
				writeError(ctx, w, err)
				return
			}
			h.logger.WarnContext(ctx, "odds snapshot rejected", "match_id", rec.MatchID, "error", err)
			batch.Rejected++
			continue
		}
		batch.Accepted++
	}

	writeSuccess(ctx, w, http.StatusOK, batch)
}

func (h *Handler) IngestMatchResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatchResults")
	defer span.End()

	var req ingestResultsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	batch := ingestBatchDTO{}
	for _, rec := range req.Results {
		res, err := rec.toMatchResult()
		if err == nil {
			err = h.ingestService.UpsertResult(ctx, res)
		}
		if err != nil {
			if !errors.Is(err, usecase.ErrInvalidInput) {
				h.logger.ErrorContext(ctx, "upsert match result failed", "match_id", rec.MatchID, "error", err)
				writeError(ctx, w, err)
				return
			}
			h.logger.WarnContext(ctx, "match result rejected", "match_id", rec.MatchID, "error", err)
			batch.Rejected++
			continue
		}
		batch.Accepted++
	}

	writeSuccess(ctx, w, http.StatusOK, batch)
}

func (rec ingestOddsSnapshotRecord) toSnapshot() (odds.Snapshot, error) {
	snap := odds.Snapshot{
		MatchID:     rec.MatchID,
		Bookmaker:   rec.Bookmaker,
		HomeOdds:    rec.HomeOdds,
		DrawOdds:    rec.DrawOdds,
		AwayOdds:    rec.AwayOdds,
		TotalsLine:  rec.TotalsLine,
		OverOdds:    rec.OverOdds,
		UnderOdds:   rec.UnderOdds,
		BTTSYesOdds: rec.BTTSYesOdds,
		BTTSNoOdds:  rec.BTTSNoOdds,
	}
	if rec.CollectedAt != "" {
		collected, err := time.Parse(time.RFC3339, rec.CollectedAt)
		if err != nil {
			return odds.Snapshot{}, fmt.Errorf("%w: collected_at must be RFC3339: %v", usecase.ErrInvalidInput, err)
		}
		snap.CollectedAt = collected
	}
	return snap, nil
}

func (rec ingestMatchResultRecord) toMatchResult() (result.MatchResult, error) {
	kickoff, err := time.Parse(time.RFC3339, rec.KickoffAt)
	if err != nil {
		return result.MatchResult{}, fmt.Errorf("%w: kickoff_at must be RFC3339: %v", usecase.ErrInvalidInput, err)
	}
	return result.MatchResult{
		MatchID:     rec.MatchID,
		HomeTeam:    rec.HomeTeam,
		AwayTeam:    rec.AwayTeam,
		Kickoff:     kickoff,
		HomeScore:   rec.HomeScore,
		AwayScore:   rec.AwayScore,
		HTHomeScore: rec.HTHomeScore,
		HTAwayScore: rec.HTAwayScore,
		Finished:    rec.Finished,
	}, nil
}
