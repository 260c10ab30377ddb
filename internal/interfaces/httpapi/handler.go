package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/crocodileps/oddsedge/internal/domain/pick"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

type Handler struct {
	predictionService  *usecase.PredictionService
	ingestService      *usecase.IngestService
	performanceService *usecase.PerformanceService
	resolverService    *usecase.ResolverService
	pickRepo           pick.Repository
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	predictionService *usecase.PredictionService,
	ingestService *usecase.IngestService,
	performanceService *usecase.PerformanceService,
	resolverService *usecase.ResolverService,
	pickRepo pick.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		predictionService:  predictionService,
		ingestService:      ingestService,
		performanceService: performanceService,
		resolverService:    resolverService,
		pickRepo:           pickRepo,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody rejects unknown fields; an empty body decodes to the zero
// value so bodyless job triggers stay valid.
func decodeJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
