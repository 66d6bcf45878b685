package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/domain/result"
	"github.com/grzedomin/betpicks/internal/platform/cache"
	"github.com/grzedomin/betpicks/internal/platform/logging"
)

type fakeFeed struct {
	mu      sync.Mutex
	calls   int
	matches []result.Match
	err     error
}

func (f *fakeFeed) FetchMatches(_ context.Context, _ prediction.SportType, _ string) ([]result.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls += 1
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakePredictionRepo struct {
	mu      sync.Mutex
	items   []prediction.Prediction
	updates []prediction.FinalScoreUpdate
	listErr error
}

func (r *fakePredictionRepo) ListByFilter(_ context.Context, filter prediction.Filter) ([]prediction.Prediction, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]prediction.Prediction, 0, len(r.items))
	for _, item := range r.items {
		if filter.MissingFinalScore && item.FinalScore != "" {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *fakePredictionRepo) Upsert(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

func (r *fakePredictionRepo) UpdateFinalScores(_ context.Context, updates []prediction.FinalScoreUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, updates...)
	return nil
}

func intPtr(v int) *int { return &v }

func played(home, away string, homeScore, awayScore int, sets ...result.SetScore) result.Match {
	return result.Match{
		HomeName:  home,
		AwayName:  away,
		HomeScore: intPtr(homeScore),
		AwayScore: intPtr(awayScore),
		Sets:      sets,
	}
}

func TestNormalizeFeedDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "10th Apr 2025", want: "2025-04-10"},
		{raw: "10th Apr 2025, 14:30 EDT", want: "2025-04-10"},
		{raw: "1st Jan 2025", want: "2025-01-01"},
		{raw: "22nd March 2025", want: "2025-03-22"},
		{raw: "3rd Dec 2024", want: "2024-12-03"},
		{raw: "2025-04-10", want: "2025-04-10"},
		{raw: "", wantErr: true},
		{raw: "sometime soon", wantErr: true},
		{raw: "10th Foo 2025", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := NormalizeFeedDate(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func newReconcileFixture(repo *fakePredictionRepo, feed *fakeFeed, opts ...cache.Option) *ReconcileService {
	store := cache.NewStore(10*time.Minute, opts...)
	return NewReconcileService(repo, feed, store, logging.NewNop())
}

func TestReconcileCorrectAndIncorrect(t *testing.T) {
	feed := &fakeFeed{matches: []result.Match{
		played("Jannik Sinner", "Carlos Alcaraz", 2, 0, result.SetScore{Home: 6, Away: 3}, result.SetScore{Home: 6, Away: 4}),
		played("Novak Djokovic", "Alexander Zverev", 1, 2),
	}}
	svc := newReconcileFixture(&fakePredictionRepo{}, feed)

	items := []prediction.Prediction{
		{ID: "1", Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:1", MatchDate: "10th Apr 2025"},
		{ID: "2", Team1: "Djokovic N.", Team2: "Zverev A.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
	}

	rows := svc.Reconcile(context.Background(), items, prediction.SportTennis, "10th Apr 2025")
	require.Len(t, rows, 2)

	assert.Equal(t, "2:0(6:3, 6:4)", rows[0].ResolvedScore)
	assert.Equal(t, prediction.OutcomeCorrect, rows[0].Outcome)

	assert.Equal(t, "1:2", rows[1].ResolvedScore)
	assert.Equal(t, prediction.OutcomeIncorrect, rows[1].Outcome)
}

func TestReconcileSwapsReversedFeedOrder(t *testing.T) {
	// Feed lists Alcaraz as home, the prediction has him as team2.
	feed := &fakeFeed{matches: []result.Match{
		played("Carlos Alcaraz", "Jannik Sinner", 0, 2, result.SetScore{Home: 3, Away: 6}, result.SetScore{Home: 4, Away: 6}),
	}}
	svc := newReconcileFixture(&fakePredictionRepo{}, feed)

	items := []prediction.Prediction{
		{ID: "1", Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
	}

	rows := svc.Reconcile(context.Background(), items, prediction.SportTennis, "10th Apr 2025")
	require.Len(t, rows, 1)
	assert.Equal(t, "2:0(6:3, 6:4)", rows[0].ResolvedScore)
	assert.Equal(t, prediction.OutcomeCorrect, rows[0].Outcome)
}

func TestReconcileFeedFailureIsUndetermined(t *testing.T) {
	feed := &fakeFeed{err: errors.New("feed down")}
	svc := newReconcileFixture(&fakePredictionRepo{}, feed)

	items := []prediction.Prediction{
		{ID: "1", Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
	}

	rows := svc.Reconcile(context.Background(), items, prediction.SportTennis, "10th Apr 2025")
	require.Len(t, rows, 1)
	assert.Equal(t, prediction.OutcomeUndetermined, rows[0].Outcome)
	assert.Empty(t, rows[0].ResolvedScore)
}

func TestReconcileFeedFailureNotCached(t *testing.T) {
	feed := &fakeFeed{err: errors.New("feed down")}
	svc := newReconcileFixture(&fakePredictionRepo{}, feed)

	ctx := context.Background()
	svc.MatchesForDate(ctx, prediction.SportTennis, "10th Apr 2025")
	svc.MatchesForDate(ctx, prediction.SportTennis, "10th Apr 2025")

	assert.Equal(t, 2, feed.calls)
}

func TestMatchesForDateCachesWithinWindow(t *testing.T) {
	feed := &fakeFeed{matches: []result.Match{played("A B", "C D", 2, 0)}}
	now := time.Now()
	svc := newReconcileFixture(&fakePredictionRepo{}, feed, cache.WithClock(func() time.Time { return now }))

	ctx := context.Background()
	svc.MatchesForDate(ctx, prediction.SportTennis, "10th Apr 2025")
	svc.MatchesForDate(ctx, prediction.SportTennis, "10th Apr 2025")
	assert.Equal(t, 1, feed.calls)

	now = now.Add(11 * time.Minute)
	svc.MatchesForDate(ctx, prediction.SportTennis, "10th Apr 2025")
	assert.Equal(t, 2, feed.calls)
}

func TestReconcileUnplayedMatchIsUndetermined(t *testing.T) {
	feed := &fakeFeed{matches: []result.Match{
		{HomeName: "Jannik Sinner", AwayName: "Carlos Alcaraz"},
	}}
	svc := newReconcileFixture(&fakePredictionRepo{}, feed)

	rows := svc.Reconcile(context.Background(), []prediction.Prediction{
		{ID: "1", Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
	}, prediction.SportTennis, "10th Apr 2025")

	require.Len(t, rows, 1)
	assert.Equal(t, prediction.OutcomeUndetermined, rows[0].Outcome)
}

func TestReconcileDedupsPairs(t *testing.T) {
	feed := &fakeFeed{matches: []result.Match{played("Jannik Sinner", "Carlos Alcaraz", 2, 0)}}
	svc := newReconcileFixture(&fakePredictionRepo{}, feed)

	items := []prediction.Prediction{
		{ID: "1", Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
		{ID: "2", Team1: "sinner j.", Team2: "alcaraz c.", ScorePrediction: "0:2", MatchDate: "10th Apr 2025"},
	}

	rows := svc.Reconcile(context.Background(), items, prediction.SportTennis, "10th Apr 2025")
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].Prediction.ID)
}

func TestReconcileAllGroupsByDate(t *testing.T) {
	feed := &fakeFeed{matches: []result.Match{played("Jannik Sinner", "Carlos Alcaraz", 2, 0)}}
	repo := &fakePredictionRepo{items: []prediction.Prediction{
		{ID: "1", SportType: prediction.SportTennis, Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
		{ID: "2", SportType: prediction.SportTennis, Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "11th Apr 2025"},
	}}
	svc := newReconcileFixture(repo, feed)

	rows, err := svc.ReconcileAll(context.Background(), prediction.Filter{SportType: prediction.SportTennis})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, feed.calls)
}

func TestRefreshFinalScores(t *testing.T) {
	feed := &fakeFeed{matches: []result.Match{played("Jannik Sinner", "Carlos Alcaraz", 2, 0)}}
	repo := &fakePredictionRepo{items: []prediction.Prediction{
		{ID: "1", SportType: prediction.SportTennis, Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
		{ID: "2", SportType: prediction.SportTennis, Team1: "Nobody X.", Team2: "Unknown Y.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
		{ID: "3", SportType: prediction.SportTennis, Team1: "Done A.", Team2: "Done B.", FinalScore: "2:1", MatchDate: "10th Apr 2025"},
	}}
	svc := newReconcileFixture(repo, feed)

	summary, err := svc.RefreshFinalScores(context.Background(), prediction.Filter{SportType: prediction.SportTennis}, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, "1", repo.updates[0].ID)
	assert.Equal(t, "2:0", repo.updates[0].FinalScore)
}

func TestRefreshFinalScoresFeedFailureCountsAsFailed(t *testing.T) {
	feed := &fakeFeed{err: errors.New("feed down")}
	repo := &fakePredictionRepo{items: []prediction.Prediction{
		{ID: "1", SportType: prediction.SportTennis, Team1: "Sinner J.", Team2: "Alcaraz C.", ScorePrediction: "2:0", MatchDate: "10th Apr 2025"},
		{ID: "2", SportType: prediction.SportTennis, Team1: "Zverev A.", Team2: "Rune H.", ScorePrediction: "2:1", MatchDate: "11th Apr 2025"},
	}}
	svc := newReconcileFixture(repo, feed)

	summary, err := svc.RefreshFinalScores(context.Background(), prediction.Filter{SportType: prediction.SportTennis}, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Scanned)
	assert.Zero(t, summary.Updated)
	assert.Equal(t, 2, summary.Failed)
	assert.Empty(t, repo.updates)
}
