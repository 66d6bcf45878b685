package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/platform/spreadsheet"
	"github.com/grzedomin/betpicks/internal/usecase"
)

// uploads are whole spreadsheets held in memory, keep them bounded
const maxUploadBytes = 10 << 20

type predictionResponse struct {
	ID               string           `json:"id"`
	SportType        string           `json:"sportType"`
	BetType          string           `json:"betType"`
	MatchDate        string           `json:"matchDate"`
	Team1            string           `json:"team1"`
	Team2            string           `json:"team2"`
	OddTeam1         decimal.Decimal  `json:"oddTeam1"`
	OddTeam2         decimal.Decimal  `json:"oddTeam2"`
	ScorePrediction  string           `json:"scorePrediction"`
	Confidence       float64          `json:"confidence"`
	FinalScore       string           `json:"finalScore,omitempty"`
	FileDate         string           `json:"fileDate,omitempty"`
	OptimalStakePart *decimal.Decimal `json:"optimalStakePart,omitempty"`
	BetOn            string           `json:"betOn,omitempty"`
	ValuePercent     *decimal.Decimal `json:"valuePercent,omitempty"`
	MoneylineTeam1   *decimal.Decimal `json:"moneylineTeam1,omitempty"`
	MoneylineTeam2   *decimal.Decimal `json:"moneylineTeam2,omitempty"`
}

func toPredictionResponse(item prediction.Prediction) predictionResponse {
	return predictionResponse{
		ID:               item.ID,
		SportType:        string(item.SportType),
		BetType:          string(item.BetType),
		MatchDate:        item.MatchDate,
		Team1:            item.Team1,
		Team2:            item.Team2,
		OddTeam1:         item.OddTeam1,
		OddTeam2:         item.OddTeam2,
		ScorePrediction:  item.ScorePrediction,
		Confidence:       item.Confidence,
		FinalScore:       item.FinalScore,
		FileDate:         item.FileDate,
		OptimalStakePart: item.OptimalStakePart,
		BetOn:            item.BetOn,
		ValuePercent:     item.ValuePercent,
		MoneylineTeam1:   item.MoneylineTeam1,
		MoneylineTeam2:   item.MoneylineTeam2,
	}
}

func toPredictionResponses(items []prediction.Prediction) []predictionResponse {
	out := make([]predictionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toPredictionResponse(item))
	}
	return out
}

// UploadPredictions ingests a multipart spreadsheet upload (xlsx or csv).
func (h *Handler) UploadPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadPredictions")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: parse multipart form: %v", usecase.ErrInvalidInput, err))
		return
	}

	meta, err := ingestContextFromValues(
		r.FormValue("sport_type"),
		r.FormValue("bet_type"),
		r.FormValue("file_date"),
	)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: file field is required", usecase.ErrInvalidInput))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read uploaded file: %v", usecase.ErrInvalidInput, err))
		return
	}

	items, err := h.ingestionService.IngestAndStore(ctx, data, header.Filename, meta)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"ingested":    len(items),
		"predictions": toPredictionResponses(items),
	})
}

type ingestPredictionsRequest struct {
	SportType string           `json:"sportType" validate:"required"`
	BetType   string           `json:"betType"`
	FileDate  string           `json:"fileDate"`
	Rows      []map[string]any `json:"rows" validate:"required,min=1"`
}

// IngestPredictions ingests pre-extracted rows sent as JSON, the same shape
// the spreadsheet reader produces.
func (h *Handler) IngestPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestPredictions")
	defer span.End()

	var req ingestPredictionsRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	meta, err := ingestContextFromValues(req.SportType, req.BetType, req.FileDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows := make([]spreadsheet.Row, 0, len(req.Rows))
	for _, raw := range req.Rows {
		rows = append(rows, spreadsheet.Row(raw))
	}

	items, err := h.ingestionService.Ingest(ctx, rows, meta)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(items) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: no predictions in payload", usecase.ErrInvalidInput))
		return
	}

	items, err = h.ingestionService.Store(ctx, items)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"ingested":    len(items),
		"predictions": toPredictionResponses(items),
	})
}

func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPredictions")
	defer span.End()

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"predictions": toPredictionResponses(items),
	})
}
