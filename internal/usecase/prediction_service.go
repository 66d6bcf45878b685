package usecase

import (
	"context"
	"fmt"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
)

type PredictionService struct {
	repo prediction.Repository
}

func NewPredictionService(repo prediction.Repository) *PredictionService {
	return &PredictionService{repo: repo}
}

// List returns stored predictions for a filter with pair duplicates
// collapsed. Uniqueness is a read-time concern; storage keeps what it got.
func (s *PredictionService) List(ctx context.Context, filter prediction.Filter) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.List")
	defer span.End()

	if filter.SportType != "" {
		if _, ok := prediction.AllSportTypes[filter.SportType]; !ok {
			return nil, fmt.Errorf("%w: unknown sport type %q", ErrInvalidInput, filter.SportType)
		}
	}
	if filter.BetType != "" {
		if _, ok := prediction.AllBetTypes[filter.BetType]; !ok {
			return nil, fmt.Errorf("%w: unknown bet type %q", ErrInvalidInput, filter.BetType)
		}
	}

	items, err := s.repo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return prediction.Dedup(items), nil
}
