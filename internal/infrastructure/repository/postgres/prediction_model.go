package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
)

type predictionTableModel struct {
	ID               string              `db:"id"`
	SportType        string              `db:"sport_type"`
	BetType          string              `db:"bet_type"`
	MatchDate        string              `db:"match_date"`
	Team1            string              `db:"team1"`
	Team2            string              `db:"team2"`
	Team1Key         string              `db:"team1_key"`
	Team2Key         string              `db:"team2_key"`
	OddTeam1         decimal.Decimal     `db:"odd_team1"`
	OddTeam2         decimal.Decimal     `db:"odd_team2"`
	ScorePrediction  string              `db:"score_prediction"`
	Confidence       float64             `db:"confidence"`
	FinalScore       string              `db:"final_score"`
	FileDate         string              `db:"file_date"`
	OptimalStakePart decimal.NullDecimal `db:"optimal_stake_part"`
	BetOn            string              `db:"bet_on"`
	ValuePercent     decimal.NullDecimal `db:"value_percent"`
	MoneylineTeam1   decimal.NullDecimal `db:"moneyline_team1"`
	MoneylineTeam2   decimal.NullDecimal `db:"moneyline_team2"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        sql.NullTime        `db:"updated_at"`
}

type predictionInsertModel struct {
	ID               string              `db:"id"`
	SportType        string              `db:"sport_type"`
	BetType          string              `db:"bet_type"`
	MatchDate        string              `db:"match_date"`
	Team1            string              `db:"team1"`
	Team2            string              `db:"team2"`
	Team1Key         string              `db:"team1_key"`
	Team2Key         string              `db:"team2_key"`
	OddTeam1         decimal.Decimal     `db:"odd_team1"`
	OddTeam2         decimal.Decimal     `db:"odd_team2"`
	ScorePrediction  string              `db:"score_prediction"`
	Confidence       float64             `db:"confidence"`
	FinalScore       string              `db:"final_score"`
	FileDate         string              `db:"file_date"`
	OptimalStakePart decimal.NullDecimal `db:"optimal_stake_part"`
	BetOn            string              `db:"bet_on"`
	ValuePercent     decimal.NullDecimal `db:"value_percent"`
	MoneylineTeam1   decimal.NullDecimal `db:"moneyline_team1"`
	MoneylineTeam2   decimal.NullDecimal `db:"moneyline_team2"`
}

func teamKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func toNullDecimal(ptr *decimal.Decimal) decimal.NullDecimal {
	if ptr == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *ptr, Valid: true}
}

func fromNullDecimal(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	dec := value.Decimal
	return &dec
}

func insertModelFromPrediction(item prediction.Prediction) predictionInsertModel {
	return predictionInsertModel{
		ID:               item.ID,
		SportType:        string(item.SportType),
		BetType:          string(item.BetType),
		MatchDate:        item.MatchDate,
		Team1:            item.Team1,
		Team2:            item.Team2,
		Team1Key:         teamKey(item.Team1),
		Team2Key:         teamKey(item.Team2),
		OddTeam1:         item.OddTeam1,
		OddTeam2:         item.OddTeam2,
		ScorePrediction:  item.ScorePrediction,
		Confidence:       item.Confidence,
		FinalScore:       item.FinalScore,
		FileDate:         item.FileDate,
		OptimalStakePart: toNullDecimal(item.OptimalStakePart),
		BetOn:            item.BetOn,
		ValuePercent:     toNullDecimal(item.ValuePercent),
		MoneylineTeam1:   toNullDecimal(item.MoneylineTeam1),
		MoneylineTeam2:   toNullDecimal(item.MoneylineTeam2),
	}
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:               m.ID,
		SportType:        prediction.SportType(m.SportType),
		BetType:          prediction.BetType(m.BetType),
		MatchDate:        m.MatchDate,
		Team1:            m.Team1,
		Team2:            m.Team2,
		OddTeam1:         m.OddTeam1,
		OddTeam2:         m.OddTeam2,
		ScorePrediction:  m.ScorePrediction,
		Confidence:       m.Confidence,
		FinalScore:       m.FinalScore,
		FileDate:         m.FileDate,
		OptimalStakePart: fromNullDecimal(m.OptimalStakePart),
		BetOn:            m.BetOn,
		ValuePercent:     fromNullDecimal(m.ValuePercent),
		MoneylineTeam1:   fromNullDecimal(m.MoneylineTeam1),
		MoneylineTeam2:   fromNullDecimal(m.MoneylineTeam2),
	}
}
