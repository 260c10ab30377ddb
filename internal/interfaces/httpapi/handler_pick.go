package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

const defaultPickListLimit = 100

func (h *Handler) ListPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPicks")
	defer span.End()

	filter, err := pickFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.pickRepo.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list picks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, pickToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPick")
	defer span.End()

	pickID := strings.TrimSpace(r.PathValue("pickID"))
	if pickID == "" {
		writeError(ctx, w, fmt.Errorf("%w: pick id is required", usecase.ErrInvalidInput))
		return
	}

	p, found, err := h.pickRepo.GetByID(ctx, pickID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pick failed", "pick_id", pickID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: pick %s", usecase.ErrNotFound, pickID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, p))
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPerformance")
	defer span.End()

	var since time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: since must be RFC3339: %v", usecase.ErrInvalidInput, err))
			return
		}
		since = parsed
	}

	report, err := h.performanceService.Report(ctx, since)
	if err != nil {
		h.logger.WarnContext(ctx, "performance report failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, performanceToDTO(ctx, report))
}

func pickFilterFromQuery(r *http.Request) (pick.Filter, error) {
	q := r.URL.Query()
	filter := pick.Filter{
		MarketType: strings.TrimSpace(q.Get("market")),
		Limit:      defaultPickListLimit,
	}

	if raw := strings.TrimSpace(q.Get("resolved")); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			return pick.Filter{}, fmt.Errorf("%w: resolved must be a boolean: %v", usecase.ErrInvalidInput, err)
		}
		filter.Resolved = &resolved
	}
	if raw := strings.TrimSpace(q.Get("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return pick.Filter{}, fmt.Errorf("%w: since must be RFC3339: %v", usecase.ErrInvalidInput, err)
		}
		filter.CreatedAfter = since
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return pick.Filter{}, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
		}
		filter.Limit = limit
	}

	return filter, nil
}
