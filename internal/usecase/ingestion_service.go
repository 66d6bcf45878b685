package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/platform/id"
	"github.com/grzedomin/betpicks/internal/platform/spreadsheet"
)

// IngestContext carries the per-upload attributes that the sheet itself does
// not encode.
type IngestContext struct {
	SportType prediction.SportType
	BetType   prediction.BetType
	FileDate  string
}

type IngestionService struct {
	repo  prediction.Repository
	idGen id.Generator
}

func NewIngestionService(repo prediction.Repository, idGen id.Generator) *IngestionService {
	return &IngestionService{repo: repo, idGen: idGen}
}

// Column aliases are tried in order; source sheets disagree on casing,
// underscores and pluralization, so every logical field carries the variants
// observed in real uploads. Lookup itself is case-insensitive on top.
var (
	aliasDate       = []string{"date", "match_date", "match date", "dates"}
	aliasTeam1      = []string{"team1", "team_1", "team 1", "player1", "player_1", "home"}
	aliasTeam2      = []string{"team2", "team_2", "team 2", "player2", "player_2", "away"}
	aliasOdd1       = []string{"oddteam1", "odd_team1", "odd_team_1", "odd1", "odds1", "odds_team1"}
	aliasOdd2       = []string{"oddteam2", "odd_team2", "odd_team_2", "odd2", "odds2", "odds_team2"}
	aliasScorePred  = []string{"scoreprediction", "score_prediction", "score prediction", "predicted_score", "prediction"}
	aliasConfidence = []string{"confidence", "confidence_percent", "conf"}
	aliasFinalScore = []string{"finalscore", "final_score", "final score", "result"}
	aliasStakePart  = []string{"optimalstakepart", "optimal_stake_part", "stake_part", "stake"}
	aliasBetOn      = []string{"beton", "bet_on", "bet on", "pick"}
	aliasValuePct   = []string{"valuepercent", "value_percent", "value", "value_pct"}
	aliasMoneyline1 = []string{"moneylineteam1", "moneyline_team1", "moneyline1", "ml_team1"}
	aliasMoneyline2 = []string{"moneylineteam2", "moneyline_team2", "moneyline2", "ml_team2"}
)

// Ingest maps raw rows into normalized predictions. Header artifacts (rows
// missing a team name) are dropped. It never errors on cell contents; bad
// values take their field's default.
func (s *IngestionService) Ingest(ctx context.Context, rows []spreadsheet.Row, meta IngestContext) ([]prediction.Prediction, error) {
	_, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	if _, ok := prediction.AllSportTypes[meta.SportType]; !ok {
		return nil, fmt.Errorf("%w: unknown sport type %q", ErrInvalidInput, meta.SportType)
	}
	if _, ok := prediction.AllBetTypes[meta.BetType]; !ok {
		return nil, fmt.Errorf("%w: unknown bet type %q", ErrInvalidInput, meta.BetType)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		cells := foldRowKeys(row)

		newID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate prediction id: %w", err)
		}

		item := prediction.Prediction{
			ID:              newID,
			SportType:       meta.SportType,
			BetType:         meta.BetType,
			FileDate:        meta.FileDate,
			MatchDate:       cellString(cells, aliasDate),
			Team1:           cellString(cells, aliasTeam1),
			Team2:           cellString(cells, aliasTeam2),
			OddTeam1:        cellDecimal(cells, aliasOdd1),
			OddTeam2:        cellDecimal(cells, aliasOdd2),
			ScorePrediction: cellString(cells, aliasScorePred),
			Confidence:      cellFloat(cells, aliasConfidence),
			FinalScore:      cellString(cells, aliasFinalScore),
		}
		if item.IsHeaderArtifact() {
			continue
		}

		switch meta.BetType {
		case prediction.BetKelly:
			item.OptimalStakePart = cellDecimalPtr(cells, aliasStakePart)
			item.BetOn = cellString(cells, aliasBetOn)
		case prediction.BetSpread:
			item.ValuePercent = cellDecimalPtr(cells, aliasValuePct)
			item.MoneylineTeam1 = cellDecimalPtr(cells, aliasMoneyline1)
			item.MoneylineTeam2 = cellDecimalPtr(cells, aliasMoneyline2)
			item.BetOn = cellString(cells, aliasBetOn)
		}

		out = append(out, item)
	}
	return out, nil
}

// Store upserts already-ingested predictions.
func (s *IngestionService) Store(ctx context.Context, items []prediction.Prediction) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Store")
	defer span.End()

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: predictions are required", ErrInvalidInput)
	}
	if err := s.repo.Upsert(ctx, items); err != nil {
		return nil, fmt.Errorf("store predictions: %w", err)
	}
	return items, nil
}

// IngestAndStore parses an uploaded workbook or CSV buffer and upserts the
// resulting predictions.
func (s *IngestionService) IngestAndStore(ctx context.Context, data []byte, fileName string, meta IngestContext) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestAndStore")
	defer span.End()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	var (
		rows []spreadsheet.Row
		err  error
	)
	if strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		rows, err = spreadsheet.ReadCSV(data)
	} else {
		rows, err = spreadsheet.ReadWorkbook(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items, err := s.Ingest(ctx, rows, meta)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no predictions in file", ErrInvalidInput)
	}

	return s.Store(ctx, items)
}

// foldRowKeys re-keys a row by lower-cased, trimmed header so alias lookup
// does not care about the sheet's casing.
func foldRowKeys(row spreadsheet.Row) map[string]any {
	out := make(map[string]any, len(row))
	for key, value := range row {
		out[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return out
}

func cellValue(cells map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if value, ok := cells[alias]; ok {
			return value, true
		}
	}
	return nil, false
}

func cellString(cells map[string]any, aliases []string) string {
	value, ok := cellValue(cells, aliases)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// cellFloat coerces numbers arriving as strings or native numerics. Anything
// unparsable is 0, never NaN.
func cellFloat(cells map[string]any, aliases []string) float64 {
	value, ok := cellValue(cells, aliases)
	if !ok || value == nil {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return finiteOrZero(v)
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%")), 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(parsed)
	default:
		return 0
	}
}

// finiteOrZero drops the NaN and Inf values ParseFloat accepts as valid
// input. Source sheets carry literal "NaN" confidence cells, and a NaN field
// would break JSON encoding of every response containing the row.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func cellDecimal(cells map[string]any, aliases []string) decimal.Decimal {
	ptr := cellDecimalPtr(cells, aliases)
	if ptr == nil {
		return decimal.Zero
	}
	return *ptr
}

func cellDecimalPtr(cells map[string]any, aliases []string) *decimal.Decimal {
	value, ok := cellValue(cells, aliases)
	if !ok || value == nil {
		return nil
	}
	var parsed decimal.Decimal
	switch v := value.(type) {
	case float64:
		parsed = decimal.NewFromFloat(v)
	case int:
		parsed = decimal.NewFromInt(int64(v))
	case string:
		text := strings.TrimSuffix(strings.TrimSpace(v), "%")
		if text == "" {
			return nil
		}
		dec, err := decimal.NewFromString(strings.ReplaceAll(text, ",", "."))
		if err != nil {
			zero := decimal.Zero
			return &zero
		}
		parsed = dec
	default:
		return nil
	}
	return &parsed
}
