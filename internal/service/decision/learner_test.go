package decision

import (
	"math"
	"testing"

	"github.com/ratesense/ratesense/internal/domain"
)

func decisions(approved, rejected, modified int, userChanges ...float64) []domain.Decision {
	var log []domain.Decision
	for i := 0; i < approved; i++ {
		log = append(log, domain.Decision{Decision: domain.DecisionApproved})
	}
	for i := 0; i < rejected; i++ {
		log = append(log, domain.Decision{Decision: domain.DecisionRejected})
	}
	for i := 0; i < modified; i++ {
		d := domain.Decision{Decision: domain.DecisionModified}
		if i < len(userChanges) {
			d.UserChange = userChanges[i]
		}
		log = append(log, d)
	}
	return log
}

func TestComputeStats_EmptyLog(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.Total != 0 || stats.ApprovalRate != 0 || stats.AvgUserAdjustment != 0 {
		t.Errorf("ComputeStats(nil) = %+v, expected zero stats", stats)
	}
}

func TestComputeStats_ApprovalRate(t *testing.T) {
	stats := ComputeStats(decisions(3, 1, 0))

	if stats.Approved != 3 || stats.Rejected != 1 {
		t.Fatalf("counts = %d approved, %d rejected, expected 3 and 1", stats.Approved, stats.Rejected)
	}
	if stats.ApprovalRate != 0.75 {
		t.Errorf("ApprovalRate = %v, expected 0.75", stats.ApprovalRate)
	}
}

func TestComputeStats_AvgUserAdjustmentSkipsZero(t *testing.T) {
	// The zero-change modification is ignored, so the average runs over
	// the two real corrections only.
	stats := ComputeStats(decisions(0, 0, 3, -4, 0, -8))

	if stats.Modified != 3 {
		t.Fatalf("Modified = %d, expected 3", stats.Modified)
	}
	if stats.AvgUserAdjustment != -6 {
		t.Errorf("AvgUserAdjustment = %v, expected -6", stats.AvgUserAdjustment)
	}
}

func TestAdjust_NeutralLogKeepsChange(t *testing.T) {
	learner := NewLearner(decisions(5, 1, 0))

	typ, change := learner.Adjust(domain.AdjustmentMarkup, 15)
	if typ != domain.AdjustmentMarkup {
		t.Errorf("type = %v, expected markup", typ)
	}
	if change != 15 {
		t.Errorf("change = %v, expected 15 unchanged", change)
	}
}

func TestAdjust_RejectingOperatorSoftens(t *testing.T) {
	// 3 approvals against 9 rejections on a 12-entry log.
	learner := NewLearner(decisions(3, 9, 0))

	_, change := learner.Adjust(domain.AdjustmentMarkup, 10)
	if change != 8 {
		t.Errorf("change = %v, expected 8 after softening", change)
	}
}

func TestAdjust_ShortLogNotSoftened(t *testing.T) {
	// Same rejection ratio but only 4 entries, below the learning floor.
	learner := NewLearner(decisions(1, 3, 0))

	_, change := learner.Adjust(domain.AdjustmentDiscount, -10)
	if change != -10 {
		t.Errorf("change = %v, expected -10 unchanged on short log", change)
	}
}

func TestAdjust_FoldsInTypicalCorrection(t *testing.T) {
	// Mostly approving, but each modification pulled the change down 5
	// points. A third of that lands on new recommendations.
	learner := NewLearner(decisions(8, 0, 2, -5, -5))

	_, change := learner.Adjust(domain.AdjustmentMarkup, 12)
	if math.Abs(change-10.5) > 1e-9 {
		t.Errorf("change = %v, expected 10.5", change)
	}
}

func TestAdjust_SmallCorrectionIgnored(t *testing.T) {
	learner := NewLearner(decisions(8, 0, 2, 1.5, 1.5))

	_, change := learner.Adjust(domain.AdjustmentMarkup, 12)
	if change != 12 {
		t.Errorf("change = %v, expected 12 when avg correction is within 2 points", change)
	}
}

func TestAdjust_BothRulesStack(t *testing.T) {
	// 2 approvals, 7 rejections, 2 modifications of -6 on an 11-entry
	// log: first soften 10 to 8, then add -6*0.3.
	learner := NewLearner(decisions(2, 7, 2, -6, -6))

	_, change := learner.Adjust(domain.AdjustmentMarkup, 10)
	if math.Abs(change-6.2) > 1e-9 {
		t.Errorf("change = %v, expected 6.2", change)
	}
}
