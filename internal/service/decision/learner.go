package decision

import (
	"math"

	"github.com/ratesense/ratesense/internal/domain"
)

// Learner derives adjustment habits from the operator's decision log and
// softens future recommendations accordingly. The recommendation type is
// never changed, only the percentage.
type Learner struct {
	stats     domain.DecisionStats
	logLength int
}

// NewLearner analyzes the decision log once up front.
func NewLearner(log []domain.Decision) *Learner {
	return &Learner{
		stats:     ComputeStats(log),
		logLength: len(log),
	}
}

// ComputeStats summarizes a decision log. The approval rate counts only
// decided entries. The average user adjustment covers modified decisions
// that actually carry a nonzero change.
func ComputeStats(log []domain.Decision) domain.DecisionStats {
	stats := domain.DecisionStats{Total: len(log)}

	var adjustmentSum float64
	var adjustmentCount int
	for _, d := range log {
		switch d.Decision {
		case domain.DecisionApproved:
			stats.Approved++
		case domain.DecisionRejected:
			stats.Rejected++
		case domain.DecisionModified:
			stats.Modified++
			if d.UserChange != 0 {
				adjustmentSum += d.UserChange
				adjustmentCount++
			}
		}
	}

	decided := stats.Approved + stats.Rejected + stats.Modified
	if decided > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(decided)
	}
	if adjustmentCount > 0 {
		stats.AvgUserAdjustment = adjustmentSum / float64(adjustmentCount)
	}

	return stats
}

// Stats returns the summary computed at construction.
func (l *Learner) Stats() domain.DecisionStats {
	return l.stats
}

// Adjust rescales a proposed change. A mostly-rejecting operator with a
// meaningful log softens the change by 20 percent, and a typical manual
// correction above 2 points is partially folded in.
func (l *Learner) Adjust(adjustmentType domain.AdjustmentType, change float64) (domain.AdjustmentType, float64) {
	if l.stats.ApprovalRate < 0.5 && l.logLength > 10 {
		change *= 0.8
	}

	if avg := l.stats.AvgUserAdjustment; math.Abs(avg) > 2 {
		change += avg * 0.3
	}

	return adjustmentType, change
}
