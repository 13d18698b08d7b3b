package domain

import (
	"time"
)

// Decision is one operator verdict on a recommendation, kept as an append-only
// log that feeds the feedback learner.
type Decision struct {
	ID               string         `json:"id" gorm:"primaryKey"`
	RecommendationID string         `json:"recommendation_id" gorm:"index"`
	Type             AdjustmentType `json:"type"`
	Decision         DecisionState  `json:"decision"`
	UserChange       float64        `json:"user_change"`
	DecidedAt        time.Time      `json:"decided_at"`
	CreatedAt        time.Time      `json:"created_at"`
}

// DecisionStats summarizes the decision log for the feedback learner.
type DecisionStats struct {
	Total             int     `json:"total"`
	Approved          int     `json:"approved"`
	Rejected          int     `json:"rejected"`
	Modified          int     `json:"modified"`
	ApprovalRate      float64 `json:"approval_rate"`
	AvgUserAdjustment float64 `json:"avg_user_adjustment"`
}
