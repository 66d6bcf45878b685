package prediction

import "context"

// Filter narrows repository reads. Zero values mean "any".
type Filter struct {
	SportType         SportType
	BetType           BetType
	FileDate          string
	MissingFinalScore bool
}

// FinalScoreUpdate carries one resolved score back to storage.
type FinalScoreUpdate struct {
	ID         string
	FinalScore string
}

type Repository interface {
	ListByFilter(ctx context.Context, filter Filter) ([]Prediction, error)
	Upsert(ctx context.Context, items []Prediction) error
	UpdateFinalScores(ctx context.Context, updates []FinalScoreUpdate) error
}
