package prediction

import (
	"strings"

	"github.com/shopspring/decimal"
)

type SportType string

const (
	SportTennis      SportType = "tennis"
	SportTableTennis SportType = "table-tennis"
)

var AllSportTypes = map[SportType]struct{}{
	SportTennis:      {},
	SportTableTennis: {},
}

type BetType string

const (
	BetNormal BetType = "normal"
	BetSpread BetType = "spread"
	BetKelly  BetType = "kelly"
)

var AllBetTypes = map[BetType]struct{}{
	BetNormal: {},
	BetSpread: {},
	BetKelly:  {},
}

// Prediction is one forecasted match outcome ingested from a spreadsheet.
// Immutable after ingestion except FinalScore, which reconciliation fills in
// from the results feed. Variant fields are pointers so a bet type never
// carries placeholder values for fields it does not own.
type Prediction struct {
	ID              string
	SportType       SportType
	BetType         BetType
	MatchDate       string // raw display form, e.g. "10th Apr 2025, 14:30 EDT"
	Team1           string
	Team2           string
	OddTeam1        decimal.Decimal
	OddTeam2        decimal.Decimal
	ScorePrediction string
	Confidence      float64
	FinalScore      string
	FileDate        string // ISO date of the upload batch

	// kelly
	OptimalStakePart *decimal.Decimal
	BetOn            string

	// spread
	ValuePercent   *decimal.Decimal
	MoneylineTeam1 *decimal.Decimal
	MoneylineTeam2 *decimal.Decimal
}

// IsHeaderArtifact reports whether the row is a tournament-name header from
// the source sheet rather than a real prediction.
func (p Prediction) IsHeaderArtifact() bool {
	return strings.TrimSpace(p.Team1) == "" || strings.TrimSpace(p.Team2) == ""
}

// PairKey is the case-insensitive identity of a prediction within a result
// set. There is no natural key; the ordered team pair stands in for one.
func (p Prediction) PairKey() string {
	return strings.ToLower(strings.TrimSpace(p.Team1)) + "|" + strings.ToLower(strings.TrimSpace(p.Team2))
}

// Dedup collapses predictions sharing a PairKey, first occurrence wins.
// Applied on every read path since uniqueness is not enforced at write time.
func Dedup(items []Prediction) []Prediction {
	seen := make(map[string]struct{}, len(items))
	out := make([]Prediction, 0, len(items))
	for _, item := range items {
		key := item.PairKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func NormalizeSportType(value string) (SportType, bool) {
	sport := SportType(strings.ToLower(strings.TrimSpace(value)))
	if sport == "tabletennis" || sport == "table_tennis" || sport == "table tennis" {
		sport = SportTableTennis
	}
	_, ok := AllSportTypes[sport]
	return sport, ok
}

func NormalizeBetType(value string) (BetType, bool) {
	bet := BetType(strings.ToLower(strings.TrimSpace(value)))
	if bet == "" {
		bet = BetNormal
	}
	_, ok := AllBetTypes[bet]
	return bet, ok
}
