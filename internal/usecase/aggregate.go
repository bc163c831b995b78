package usecase

import (
	"math"

	"autoapply/internal/domain"
)

const (
	readyCompletion    = 80
	notReadyCompletion = 40
)

// Aggregate computes the application snapshot from the fields and their
// current values. It is a pure function of its inputs.
func Aggregate(fields []domain.Field, resolved map[string]domain.ResolvedValue) domain.ApplicationSnapshot {
	snap := domain.ApplicationSnapshot{
		TotalFields:         len(fields),
		MissingRequirements: []string{},
	}

	var confidenceSum float64
	var confidenceCount int

	for _, f := range fields {
		v, ok := resolved[f.ID]
		complete := ok && v.IsComplete()

		if complete {
			snap.CompletedFields++
			confidenceSum += v.Confidence
			confidenceCount++
		} else if f.Required {
			snap.MissingRequirements = append(snap.MissingRequirements, f.Title())
		}

		if ok {
			snap.CriticalIssues += v.Validation.ErrorCount()
		}
	}

	if snap.TotalFields > 0 {
		snap.CompletionPercentage = roundInt(100 * float64(snap.CompletedFields) / float64(snap.TotalFields))
	}
	if confidenceCount > 0 {
		snap.OverallConfidence = roundInt(100 * confidenceSum / float64(confidenceCount))
	}

	snap.ReadinessLevel = readiness(snap)
	return snap
}

func readiness(s domain.ApplicationSnapshot) domain.ReadinessLevel {
	switch {
	case s.CompletionPercentage < notReadyCompletion || s.CriticalIssues > 0:
		return domain.ReadinessNotReady
	case s.CompletionPercentage >= readyCompletion && len(s.MissingRequirements) == 0:
		return domain.ReadinessReady
	default:
		return domain.ReadinessNeedsWork
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
