package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/rotable-go/internal/application/session"
)

// HistoryRepository persists round outcomes and session lifecycles. It
// implements the session layer's History interface.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a repository over an open connection.
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// SaveRound archives one round, its penalties and the session's running cost.
func (r *HistoryRepository) SaveRound(ctx context.Context, sessionID string, rec *session.RoundRecord) error {
	loads, err := json.Marshal(rec.Loads)
	if err != nil {
		return fmt.Errorf("marshal loads: %w", err)
	}
	purchases, err := json.Marshal(rec.Purchases)
	if err != nil {
		return fmt.Errorf("marshal purchases: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(SessionModel{SessionID: sessionID}).
			FirstOrCreate(&SessionModel{SessionID: sessionID}).Error; err != nil {
			return fmt.Errorf("ensure session row: %w", err)
		}

		row := RoundModel{
			SessionID:      sessionID,
			Round:          rec.Round,
			Time:           rec.Time,
			Loads:          string(loads),
			Purchases:      string(purchases),
			RoundTotalCost: rec.RoundTotalCost,
			OptimizerMs:    rec.OptimizerMs,
			Generations:    rec.Generations,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert round: %w", err)
		}

		for _, p := range rec.Penalties {
			penalty := PenaltyModel{
				SessionID:    sessionID,
				Round:        rec.Round,
				Code:         p.Code,
				FlightID:     p.FlightID,
				FlightNumber: p.FlightNumber,
				IssuedHour:   int(p.Issued),
				Amount:       p.Amount,
				Reason:       p.Reason,
			}
			if err := tx.Create(&penalty).Error; err != nil {
				return fmt.Errorf("insert penalty: %w", err)
			}
		}
		return nil
	})
}

// FinishSession records the terminal state and final cost of a session.
func (r *HistoryRepository) FinishSession(ctx context.Context, sessionID string, state string, totalCost float64) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&SessionModel{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"state":       state,
			"total_cost":  totalCost,
			"finished_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("finish session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		row := SessionModel{SessionID: sessionID, State: state, TotalCost: totalCost, FinishedAt: &now}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("finish session (create): %w", err)
		}
	}
	return nil
}

// RecentRounds returns the last limit rounds of a session, oldest first.
func (r *HistoryRepository) RecentRounds(ctx context.Context, sessionID string, limit int) ([]RoundModel, error) {
	var rows []RoundModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("round DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// PenaltiesByCode aggregates penalty totals per code for one session.
func (r *HistoryRepository) PenaltiesByCode(ctx context.Context, sessionID string) (map[string]float64, error) {
	type row struct {
		Code  string
		Total float64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&PenaltyModel{}).
		Select("code, SUM(amount) AS total").
		Where("session_id = ?", sessionID).
		Group("code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate penalties: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Code] = r.Total
	}
	return out, nil
}
