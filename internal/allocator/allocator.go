package allocator

import (
	"math"

	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/models"
)

// DistributionMode selects how the weekly budget is split across subjects.
type DistributionMode string

const (
	ModeAutomatic    DistributionMode = "automatic"
	ModeManual       DistributionMode = "manual"
	MinWeight                         = 0.1
	MaxWeight                         = 2.0
	toleranceMinutes                  = 6 // 0.1 hour
)

// Allocation is one subject's share of the weekly budget.
type Allocation struct {
	SubjectID int64 `json:"subject_id"`
	Minutes   int   `json:"minutes"`
}

// Result carries the per-subject allocations plus an over-budget warning.
// OverBudget is set when the distributed total exceeds the requested budget
// by more than the rounding tolerance (0.1 hour); callers must surface it.
type Result struct {
	Allocations []Allocation `json:"allocations"`
	TotalBudget int          `json:"total_budget"`
	Distributed int          `json:"distributed"`
	OverBudget  bool         `json:"over_budget"`
}

// Automatic splits totalMinutes with a priority cascade by knowledge level:
// 50% of the budget goes to beginners, 70% of the remainder to
// intermediates, and everything left to advanced subjects. An empty bucket
// rolls its share forward to the next non-empty bucket. Whatever survives
// rounding is handed out round-robin, one minute at a time, across all
// subjects in list order.
func Automatic(totalMinutes int, subjects []models.Subject) (Result, error) {
	if totalMinutes < 0 {
		return Result{}, errors.NewValidationError("totalMinutes", "must not be negative")
	}
	if len(subjects) == 0 {
		return Result{}, errors.NewValidationError("subjects", "must not be empty")
	}

	shares := make(map[int64]int, len(subjects))
	var beginners, intermediates, advanced []models.Subject
	for _, s := range subjects {
		switch s.KnowledgeLevel {
		case models.LevelIntermediate:
			intermediates = append(intermediates, s)
		case models.LevelAdvanced:
			advanced = append(advanced, s)
		default:
			// Unset levels are treated as beginner: new subjects get priority.
			beginners = append(beginners, s)
		}
	}

	remaining := totalMinutes
	if len(beginners) > 0 {
		pass := totalMinutes * 50 / 100
		distributeEvenly(shares, beginners, pass)
		remaining -= pass
	}
	if len(intermediates) > 0 {
		pass := remaining * 70 / 100
		distributeEvenly(shares, intermediates, pass)
		remaining -= pass
	}
	if len(advanced) > 0 {
		distributeEvenly(shares, advanced, remaining)
		remaining = 0
	}

	// Rounding leftover, or budget stranded by empty trailing buckets:
	// round-robin one minute at a time over the full subject list.
	for i := 0; remaining > 0; i = (i + 1) % len(subjects) {
		shares[subjects[i].ID]++
		remaining--
	}

	return buildResult(totalMinutes, subjects, shares), nil
}

// ManualWeighted splits totalMinutes by per-subject multipliers. Each
// subject's baseline is an even share; its effective share is baseline
// times its weight. When weighting leaves part of the budget unclaimed,
// the shortfall goes to the first non-empty knowledge-level group
// (beginner, then intermediate, then advanced) among subjects whose
// multiplier is at least 1, split evenly within that group.
func ManualWeighted(totalMinutes int, subjects []models.Subject) (Result, error) {
	if totalMinutes < 0 {
		return Result{}, errors.NewValidationError("totalMinutes", "must not be negative")
	}
	if len(subjects) == 0 {
		return Result{}, errors.NewValidationError("subjects", "must not be empty")
	}
	for _, s := range subjects {
		w := effectiveWeight(s)
		if w < MinWeight || w > MaxWeight {
			return Result{}, errors.NewValidationError("weight", "must be between 0.1 and 2.0")
		}
	}

	baseline := float64(totalMinutes) / float64(len(subjects))
	shares := make(map[int64]int, len(subjects))
	distributed := 0
	for _, s := range subjects {
		m := int(math.Round(baseline * effectiveWeight(s)))
		shares[s.ID] = m
		distributed += m
	}

	if shortfall := totalMinutes - distributed; shortfall > 0 {
		group := shortfallGroup(subjects)
		if len(group) > 0 {
			distributeEvenly(shares, group, shortfall)
		}
	}

	return buildResult(totalMinutes, subjects, shares), nil
}

// SessionBudget is the total number of sessions available for manual
// session-count assignment.
func SessionBudget(totalWeeklyMinutes, sessionDurationMinutes int) int {
	if sessionDurationMinutes <= 0 {
		return 0
	}
	return int(math.Round(float64(totalWeeklyMinutes) / float64(sessionDurationMinutes)))
}

// ClampAssignment limits a requested per-subject session count so the
// running total never exceeds maxSessions. assignedOthers is the sum of
// sessions already assigned to every other subject.
func ClampAssignment(requested, assignedOthers, maxSessions int) int {
	if requested < 0 {
		return 0
	}
	room := maxSessions - assignedOthers
	if room < 0 {
		room = 0
	}
	if requested > room {
		return room
	}
	return requested
}

// SessionsRemaining reports how many sessions are still unassigned.
func SessionsRemaining(assigned []int, maxSessions int) int {
	total := 0
	for _, a := range assigned {
		total += a
	}
	remaining := maxSessions - total
	if remaining < 0 {
		return 0
	}
	return remaining
}

// distributeEvenly adds amount across the given subjects: floor(amount/n)
// each, plus one extra minute to the first amount%n subjects in list order.
// The whole amount is always consumed.
func distributeEvenly(shares map[int64]int, subjects []models.Subject, amount int) {
	if amount <= 0 || len(subjects) == 0 {
		return
	}
	each := amount / len(subjects)
	extra := amount % len(subjects)
	for i, s := range subjects {
		shares[s.ID] += each
		if i < extra {
			shares[s.ID]++
		}
	}
}

func effectiveWeight(s models.Subject) float64 {
	if s.Weight == 0 {
		return 1
	}
	return s.Weight
}

// shortfallGroup picks the subjects that absorb a weighting shortfall:
// the first non-empty knowledge level, in beginner, intermediate, advanced
// order, restricted to subjects with multiplier >= 1.
func shortfallGroup(subjects []models.Subject) []models.Subject {
	eligible := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		if effectiveWeight(s) >= 1 {
			eligible = append(eligible, s)
		}
	}
	for _, level := range []models.KnowledgeLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced} {
		var group []models.Subject
		for _, s := range eligible {
			if s.KnowledgeLevel == level || (level == models.LevelBeginner && !s.KnowledgeLevel.Valid()) {
				group = append(group, s)
			}
		}
		if len(group) > 0 {
			return group
		}
	}
	return nil
}

func buildResult(totalMinutes int, subjects []models.Subject, shares map[int64]int) Result {
	res := Result{TotalBudget: totalMinutes}
	for _, s := range subjects {
		m := shares[s.ID]
		if m < 0 {
			m = 0
		}
		res.Allocations = append(res.Allocations, Allocation{SubjectID: s.ID, Minutes: m})
		res.Distributed += m
	}
	res.OverBudget = res.Distributed > totalMinutes+toleranceMinutes
	return res
}
