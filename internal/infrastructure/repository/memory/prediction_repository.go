// Package memory holds mutex-guarded in-process repositories used when no
// database is configured, and by tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction // keyed by upsert identity
	order []string
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Prediction)}
}

func upsertKey(item prediction.Prediction) string {
	return strings.Join([]string{
		string(item.SportType),
		string(item.BetType),
		strings.ToLower(strings.TrimSpace(item.Team1)),
		strings.ToLower(strings.TrimSpace(item.Team2)),
		item.FileDate,
	}, "|")
}

func (r *PredictionRepository) ListByFilter(_ context.Context, filter prediction.Filter) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0, len(r.order))
	for _, key := range r.order {
		item := r.items[key]
		if filter.SportType != "" && item.SportType != filter.SportType {
			continue
		}
		if filter.BetType != "" && item.BetType != filter.BetType {
			continue
		}
		if filter.FileDate != "" && item.FileDate != filter.FileDate {
			continue
		}
		if filter.MissingFinalScore && item.FinalScore != "" {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FileDate != out[j].FileDate {
			return out[i].FileDate < out[j].FileDate
		}
		return out[i].MatchDate < out[j].MatchDate
	})
	return out, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := upsertKey(item)
		if existing, ok := r.items[key]; ok {
			// Keep an already-resolved final score unless the new row has one.
			if item.FinalScore == "" {
				item.FinalScore = existing.FinalScore
			}
			item.ID = existing.ID
			r.items[key] = item
			continue
		}
		r.items[key] = item
		r.order = append(r.order, key)
	}
	return nil
}

func (r *PredictionRepository) UpdateFinalScores(_ context.Context, updates []prediction.FinalScoreUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID := make(map[string]string, len(updates))
	for _, update := range updates {
		byID[update.ID] = update.FinalScore
	}

	for key, item := range r.items {
		score, ok := byID[item.ID]
		if !ok || item.FinalScore != "" {
			continue
		}
		item.FinalScore = score
		r.items[key] = item
	}
	return nil
}
