package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	qb "github.com/grzedomin/betpicks/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListByFilter(ctx context.Context, filter prediction.Filter) ([]prediction.Prediction, error) {
	builder := qb.Select("*").From("predictions")
	if filter.SportType != "" {
		builder = builder.Where(qb.Eq("sport_type", string(filter.SportType)))
	}
	if filter.BetType != "" {
		builder = builder.Where(qb.Eq("bet_type", string(filter.BetType)))
	}
	if filter.FileDate != "" {
		builder = builder.Where(qb.Eq("file_date", filter.FileDate))
	}
	if filter.MissingFinalScore {
		builder = builder.Where(qb.Raw("final_score = ''"))
	}

	query, args, err := builder.OrderBy("file_date", "match_date", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert inserts or refreshes predictions keyed by their team pair within
// one upload batch. Re-uploading a sheet overwrites the earlier rows
// instead of duplicating them; an already-resolved final score is kept
// unless the new row carries one.
func (r *PredictionRepository) Upsert(ctx context.Context, items []prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert predictions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		model := insertModelFromPrediction(item)
		query, args, err := qb.InsertModel("predictions", model, `ON CONFLICT (sport_type, bet_type, team1_key, team2_key, file_date)
DO UPDATE SET
	match_date = EXCLUDED.match_date,
	team1 = EXCLUDED.team1,
	team2 = EXCLUDED.team2,
	odd_team1 = EXCLUDED.odd_team1,
	odd_team2 = EXCLUDED.odd_team2,
	score_prediction = EXCLUDED.score_prediction,
	confidence = EXCLUDED.confidence,
	final_score = CASE WHEN EXCLUDED.final_score <> '' THEN EXCLUDED.final_score ELSE predictions.final_score END,
	optimal_stake_part = EXCLUDED.optimal_stake_part,
	bet_on = EXCLUDED.bet_on,
	value_percent = EXCLUDED.value_percent,
	moneyline_team1 = EXCLUDED.moneyline_team1,
	moneyline_team2 = EXCLUDED.moneyline_team2,
	updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction %s vs %s: %w", item.Team1, item.Team2, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions: %w", err)
	}
	return nil
}

func (r *PredictionRepository) UpdateFinalScores(ctx context.Context, updates []prediction.FinalScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update final scores: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, update := range updates {
		query, args, err := qb.Update("predictions").
			Set("final_score", update.FinalScore).
			Set("updated_at", time.Now().UTC()).
			Where(qb.Eq("id", update.ID), qb.Raw("final_score = ''")).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update final score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update final score for %s: %w", update.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update final scores: %w", err)
	}
	return nil
}
