package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/grzedomin/betpicks/internal/usecase"
)

type reconciledPredictionResponse struct {
	predictionResponse
	MatchedTeam1  string `json:"matchedTeam1,omitempty"`
	MatchedTeam2  string `json:"matchedTeam2,omitempty"`
	ResolvedScore string `json:"resolvedScore,omitempty"`
	Outcome       string `json:"outcome"`
}

func toReconciledResponses(rows []usecase.ReconciledPrediction) []reconciledPredictionResponse {
	out := make([]reconciledPredictionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, reconciledPredictionResponse{
			predictionResponse: toPredictionResponse(row.Prediction),
			MatchedTeam1:       row.MatchedTeam1,
			MatchedTeam2:       row.MatchedTeam2,
			ResolvedScore:      row.ResolvedScore,
			Outcome:            string(row.Outcome),
		})
	}
	return out
}

func (h *Handler) ListReconciledPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListReconciledPredictions")
	defer span.End()

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.reconcileService.ReconcileAll(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"predictions": toReconciledResponses(rows),
	})
}

// ExportReconciledPredictions streams the reconciled view as a CSV download.
func (h *Handler) ExportReconciledPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportReconciledPredictions")
	defer span.End()

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.reconcileService.ReconcileAll(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{
		"date", "team1", "team2", "odd_team1", "odd_team2",
		"score_prediction", "resolved_score", "outcome",
	})
	for _, row := range rows {
		_ = writer.Write([]string{
			row.Prediction.MatchDate,
			row.Prediction.Team1,
			row.Prediction.Team2,
			row.Prediction.OddTeam1.String(),
			row.Prediction.OddTeam2.String(),
			row.Prediction.ScorePrediction,
			row.ResolvedScore,
			string(row.Outcome),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		writeError(ctx, w, fmt.Errorf("write csv: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="reconciled-predictions.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// RunRefreshScoresJob backfills final scores for stored predictions. Guarded
// by the internal job token.
func (h *Handler) RunRefreshScoresJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshScoresJob")
	defer span.End()

	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	maxWorkers := 0
	if raw := r.URL.Query().Get("max_workers"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: max_workers must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		maxWorkers = parsed
	}

	summary, err := h.reconcileService.RefreshFinalScores(ctx, filter, maxWorkers)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
