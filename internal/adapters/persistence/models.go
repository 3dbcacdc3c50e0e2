package persistence

import (
	"time"
)

// SessionModel represents the sessions table: one row per game session.
type SessionModel struct {
	SessionID  string     `gorm:"column:session_id;primaryKey"`
	State      string     `gorm:"column:state;not null;default:'RUNNING'"`
	TotalCost  float64    `gorm:"column:total_cost;not null;default:0"`
	StartedAt  time.Time  `gorm:"column:started_at;not null;autoCreateTime"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

// RoundModel represents the rounds table: one row per submitted round.
// Loads and purchases are stored as JSON text so the history survives schema
// churn in the decision shape.
type RoundModel struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID      string    `gorm:"column:session_id;index;not null"`
	Session        *SessionModel `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE;"`
	Round          int       `gorm:"column:round;not null"`
	Time           time.Time `gorm:"column:time;not null"`
	Loads          string    `gorm:"column:loads;type:text"`
	Purchases      string    `gorm:"column:purchases;type:text"`
	RoundTotalCost float64   `gorm:"column:round_total_cost;not null"`
	OptimizerMs    int64     `gorm:"column:optimizer_ms;not null;default:0"`
	Generations    int       `gorm:"column:generations;not null;default:0"`
}

func (RoundModel) TableName() string {
	return "rounds"
}

// PenaltyModel represents the penalties table.
type PenaltyModel struct {
	ID           int     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID    string  `gorm:"column:session_id;index;not null"`
	Round        int     `gorm:"column:round;not null"`
	Code         string  `gorm:"column:code;not null"`
	FlightID     string  `gorm:"column:flight_id"`
	FlightNumber string  `gorm:"column:flight_number"`
	IssuedHour   int     `gorm:"column:issued_hour;not null"`
	Amount       float64 `gorm:"column:amount;not null"`
	Reason       string  `gorm:"column:reason;type:text"`
}

func (PenaltyModel) TableName() string {
	return "penalties"
}
