package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/domain/result"
	"github.com/grzedomin/betpicks/internal/matching"
	"github.com/grzedomin/betpicks/internal/platform/cache"
	"github.com/grzedomin/betpicks/internal/platform/logging"
)

const (
	defaultReconcileWorkers = 4
	maxReconcileWorkers     = 16
)

// ResultsFeed is the slice of the feed client reconciliation needs.
type ResultsFeed interface {
	FetchMatches(ctx context.Context, sport prediction.SportType, isoDate string) ([]result.Match, error)
}

// ReconciledPrediction is a prediction joined to the results feed. An empty
// ResolvedScore with OutcomeUndetermined means the join could not be made.
type ReconciledPrediction struct {
	Prediction    prediction.Prediction
	MatchedTeam1  string
	MatchedTeam2  string
	ResolvedScore string
	Outcome       prediction.Outcome
}

// RefreshResult summarizes a bulk final-score refresh pass. Failed counts
// scanned predictions that stayed unresolved, whether the feed had no usable
// match or the group's task could not be scheduled at all.
type RefreshResult struct {
	Scanned     int `json:"scanned"`
	Updated     int `json:"updated"`
	Failed      int `json:"failed"`
	WorkerCount int `json:"worker_count"`
}

type ReconcileService struct {
	repo   prediction.Repository
	feed   ResultsFeed
	cache  *cache.Store
	logger *logging.Logger
}

func NewReconcileService(repo prediction.Repository, feed ResultsFeed, store *cache.Store, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ReconcileService{repo: repo, feed: feed, cache: store, logger: logger}
}

var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// NormalizeFeedDate converts the sheet's human date ("10th Apr 2025, 14:30
// EDT") into the ISO day the feed keys on ("2025-04-10"). Ordinal suffixes
// are stripped and any time portion after a comma is discarded. Input that
// is already ISO passes through.
func NormalizeFeedDate(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(text, ","); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	if text == "" {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(text) == 10 && text[4] == '-' && text[7] == '-' {
		return text, nil
	}

	fields := strings.Fields(text)
	if len(fields) != 3 {
		return "", fmt.Errorf("%w: unrecognized date %q", ErrInvalidInput, raw)
	}

	day := strings.ToLower(fields[0])
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		day = strings.TrimSuffix(day, suffix)
	}
	dayNum, err := strconv.Atoi(day)
	if err != nil || dayNum < 1 || dayNum > 31 {
		return "", fmt.Errorf("%w: unrecognized day in %q", ErrInvalidInput, raw)
	}

	month, ok := monthNumbers[strings.ToLower(fields[1])[:minInt(3, len(fields[1]))]]
	if !ok {
		return "", fmt.Errorf("%w: unrecognized month in %q", ErrInvalidInput, raw)
	}

	year := fields[2]
	if len(year) != 4 {
		return "", fmt.Errorf("%w: unrecognized year in %q", ErrInvalidInput, raw)
	}

	return fmt.Sprintf("%s-%s-%02d", year, month, dayNum), nil
}

// MatchesForDate returns the feed snapshot for one (sport, date), served
// from cache within the expiry window. Feed failures degrade to an empty
// list so reconciliation stays best-effort; the failure is not cached.
func (s *ReconcileService) MatchesForDate(ctx context.Context, sport prediction.SportType, rawDate string) []result.Match {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.MatchesForDate")
	defer span.End()

	isoDate, err := NormalizeFeedDate(rawDate)
	if err != nil {
		s.logger.WarnContext(ctx, "skip results lookup for unparsable date", "date", rawDate, "error", err)
		return nil
	}

	key := fmt.Sprintf("results:%s:%s", sport, isoDate)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.feed.FetchMatches(ctx, sport, isoDate)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "results feed unavailable, treating as no results",
			"sport", string(sport), "date", isoDate, "error", err)
		return nil
	}

	matches, ok := value.([]result.Match)
	if !ok {
		return nil
	}
	return matches
}

// Reconcile joins predictions for a single (sport, date) against the feed.
// Unmatched or unplayed predictions come back undetermined, never dropped.
func (s *ReconcileService) Reconcile(ctx context.Context, items []prediction.Prediction, sport prediction.SportType, rawDate string) []ReconciledPrediction {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Reconcile")
	defer span.End()

	items = prediction.Dedup(items)
	matches := s.MatchesForDate(ctx, sport, rawDate)

	names := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		names = append(names, m.HomeName, m.AwayName)
	}

	out := make([]ReconciledPrediction, 0, len(items))
	for _, item := range items {
		out = append(out, s.reconcileOne(item, names, matches))
	}
	return out
}

func (s *ReconcileService) reconcileOne(item prediction.Prediction, names []string, matches []result.Match) ReconciledPrediction {
	row := ReconciledPrediction{Prediction: item, Outcome: prediction.OutcomeUndetermined}

	row.MatchedTeam1 = matching.FindBestMatch(item.Team1, names)
	row.MatchedTeam2 = matching.FindBestMatch(item.Team2, names)
	if row.MatchedTeam1 == "" || row.MatchedTeam2 == "" || row.MatchedTeam1 == row.MatchedTeam2 {
		return row
	}

	resolved, ok := result.Resolve(result.MatchKey{Team1: row.MatchedTeam1, Team2: row.MatchedTeam2}, matches)
	if !ok || !resolved.Match.Played() {
		return row
	}

	row.ResolvedScore = resolved.Match.DisplayScore(resolved.Swapped)
	row.Outcome = prediction.EvaluateOutcome(item.ScorePrediction, row.ResolvedScore)
	return row
}

// ReconcileAll lists stored predictions for a filter and reconciles them,
// fanning out one goroutine per (sport, date) group. Output order follows
// date then the stored order within a date.
func (s *ReconcileService) ReconcileAll(ctx context.Context, filter prediction.Filter) ([]ReconciledPrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ReconcileAll")
	defer span.End()

	items, err := s.repo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	items = prediction.Dedup(items)
	if len(items) == 0 {
		return []ReconciledPrediction{}, nil
	}

	groups := groupByDate(items)
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var mu sync.Mutex
	resultsByKey := make(map[string][]ReconciledPrediction, len(groups))

	workers := pool.New().WithMaxGoroutines(minInt(defaultReconcileWorkers, len(groups))).WithContext(ctx)
	for _, key := range keys {
		key := key
		group := groups[key]
		workers.Go(func(ctx context.Context) error {
			rows := s.Reconcile(ctx, group.items, group.sport, group.rawDate)
			mu.Lock()
			resultsByKey[key] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return nil, fmt.Errorf("reconcile groups: %w", err)
	}

	out := make([]ReconciledPrediction, 0, len(items))
	for _, key := range keys {
		out = append(out, resultsByKey[key]...)
	}
	return out, nil
}

// RefreshFinalScores reconciles every stored prediction still missing a
// final score and writes resolved scores back, one worker-pool task per
// (sport, date) group.
func (s *ReconcileService) RefreshFinalScores(ctx context.Context, filter prediction.Filter, maxWorkers int) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.RefreshFinalScores")
	defer span.End()

	filter.MissingFinalScore = true
	items, err := s.repo.ListByFilter(ctx, filter)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list predictions: %w", err)
	}
	if len(items) == 0 {
		return RefreshResult{WorkerCount: 0}, nil
	}

	groups := groupByDate(items)
	workerCount := maxWorkers
	if workerCount <= 0 {
		workerCount = defaultReconcileWorkers
	}
	workerCount = minInt(workerCount, maxReconcileWorkers)
	workerCount = minInt(workerCount, len(groups))

	antsPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer antsPool.Release()

	var updated atomic.Int32
	var failed atomic.Int32
	var mu sync.Mutex
	var updates []prediction.FinalScoreUpdate

	var workers sync.WaitGroup
	for _, group := range groups {
		group := group
		workers.Add(1)
		if err := antsPool.Submit(func() {
			defer workers.Done()

			rows := s.Reconcile(ctx, group.items, group.sport, group.rawDate)
			for _, row := range rows {
				if row.ResolvedScore == "" {
					failed.Add(1)
					continue
				}
				mu.Lock()
				updates = append(updates, prediction.FinalScoreUpdate{
					ID:         row.Prediction.ID,
					FinalScore: row.ResolvedScore,
				})
				mu.Unlock()
				updated.Add(1)
			}
		}); err != nil {
			workers.Done()
			failed.Add(int32(len(group.items)))
			s.logger.WarnContext(ctx, "submit refresh task", "error", err)
		}
	}
	workers.Wait()

	if len(updates) > 0 {
		if err := s.repo.UpdateFinalScores(ctx, updates); err != nil {
			return RefreshResult{}, fmt.Errorf("update final scores: %w", err)
		}
	}

	return RefreshResult{
		Scanned:     len(items),
		Updated:     int(updated.Load()),
		Failed:      int(failed.Load()),
		WorkerCount: workerCount,
	}, nil
}

type dateGroup struct {
	sport   prediction.SportType
	rawDate string
	items   []prediction.Prediction
}

func groupByDate(items []prediction.Prediction) map[string]*dateGroup {
	groups := make(map[string]*dateGroup)
	for _, item := range items {
		isoDate, err := NormalizeFeedDate(item.MatchDate)
		if err != nil {
			isoDate = strings.TrimSpace(item.MatchDate)
		}
		key := string(item.SportType) + "|" + isoDate
		group, ok := groups[key]
		if !ok {
			group = &dateGroup{sport: item.SportType, rawDate: item.MatchDate}
			groups[key] = group
		}
		group.items = append(group.items, item)
	}
	return groups
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}
