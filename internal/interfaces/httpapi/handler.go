package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/platform/logging"
	"github.com/grzedomin/betpicks/internal/usecase"
)

type Handler struct {
	ingestionService  *usecase.IngestionService
	predictionService *usecase.PredictionService
	reconcileService  *usecase.ReconcileService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	predictionService *usecase.PredictionService,
	reconcileService *usecase.ReconcileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestionService:  ingestionService,
		predictionService: predictionService,
		reconcileService:  reconcileService,
		logger:            logger,
		validator:         validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeJSONBody(r *http.Request, target any) error {
	defer func() { _ = r.Body.Close() }()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// filterFromQuery reads the shared list/reconcile query parameters. Unknown
// enum values are rejected here so the services see clean filters.
func filterFromQuery(query url.Values) (prediction.Filter, error) {
	var filter prediction.Filter

	if raw := strings.TrimSpace(query.Get("sport_type")); raw != "" {
		sport, ok := prediction.NormalizeSportType(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown sport_type %q", usecase.ErrInvalidInput, raw)
		}
		filter.SportType = sport
	}
	if raw := strings.TrimSpace(query.Get("bet_type")); raw != "" {
		bet, ok := prediction.NormalizeBetType(raw)
		if !ok {
			return filter, fmt.Errorf("%w: unknown bet_type %q", usecase.ErrInvalidInput, raw)
		}
		filter.BetType = bet
	}
	filter.FileDate = strings.TrimSpace(query.Get("file_date"))

	return filter, nil
}

func ingestContextFromValues(sportType, betType, fileDate string) (usecase.IngestContext, error) {
	sport, ok := prediction.NormalizeSportType(sportType)
	if !ok {
		return usecase.IngestContext{}, fmt.Errorf("%w: unknown sport_type %q", usecase.ErrInvalidInput, sportType)
	}
	bet, ok := prediction.NormalizeBetType(betType)
	if !ok {
		return usecase.IngestContext{}, fmt.Errorf("%w: unknown bet_type %q", usecase.ErrInvalidInput, betType)
	}
	return usecase.IngestContext{
		SportType: sport,
		BetType:   bet,
		FileDate:  strings.TrimSpace(fileDate),
	}, nil
}
