package httpapi

import (
	"fmt"
	"net/http"

	"github.com/crocodileps/oddsedge/internal/usecase"
)

func (h *Handler) RunResolveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResolveJob")
	defer span.End()

	if h.resolverService == nil {
		writeError(ctx, w, fmt.Errorf("%w: resolver is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	stats, err := h.resolverService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolverStatsToDTO(stats))
}
