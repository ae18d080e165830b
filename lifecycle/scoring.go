// lifecycle/scoring.go
package lifecycle

import (
	"fmt"
	"sort"
	"time"

	"bmeams/models"
)

// Thresholds tune the replacement scoring engine.
type Thresholds struct {
	MinAge              float64 // years
	MaxServiceCostRatio float64
	MinDowntimeHours    float64
	MinUtilization      float64 // percent
}

// DefaultThresholds returns the standard scoring thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinAge:              5,
		MaxServiceCostRatio: 0.5,
		MinDowntimeHours:    100,
		MinUtilization:      20,
	}
}

const (
	RecommendReplace  = "Replace"
	RecommendMonitor  = "Monitor"
	RecommendMaintain = "Maintain"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Recommendation is one scored asset in the replacement report.
type Recommendation struct {
	AssetID              string   `json:"assetId"`
	Name                 string   `json:"name"`
	Department           string   `json:"department,omitempty"`
	Score                float64  `json:"score"`
	Reasons              []string `json:"reasons"`
	Recommendation       string   `json:"recommendation"`
	Priority             string   `json:"priority"`
	AgeYears             float64  `json:"ageYears"`
	ServiceCostRatio     float64  `json:"serviceCostRatio"`
	DowntimeHours        float64  `json:"downtimeHours"`
	Utilization          float64  `json:"utilization"`
	EstimatedReplacement float64  `json:"estimatedReplacementCost,omitempty"`
}

// Score ranks assets for replacement. Assets already disposed or already
// flagged are skipped, and assets scoring 30 or below are not significant
// enough to report. Results come back sorted by descending score. The
// function is pure: it never touches a store and scoring the same snapshot
// twice yields the same report.
func Score(assets []models.Asset, t Thresholds, now time.Time) []Recommendation {
	var out []Recommendation

	for i := range assets {
		a := &assets[i]
		if a.LifecycleState == StateDisposed || a.ReplacementRecommended {
			continue
		}

		age := Age(a.PurchaseDate, now)
		if age == 0 && a.AgeYears > 0 {
			age = a.AgeYears
		}
		ratio := ServiceCostRatio(a.TotalServiceCost, a.Value)
		downtime := a.TotalDowntimeHours
		utilization := a.UtilizationPercentage

		score := 0.0
		var reasons []string

		if t.MinAge > 0 && age >= t.MinAge {
			reasons = append(reasons, fmt.Sprintf("Asset age %.1f years exceeds %.0f year threshold", age, t.MinAge))
			score += capped(age/t.MinAge, 2) * 20 // at most 40
		}
		if t.MaxServiceCostRatio > 0 && ratio >= t.MaxServiceCostRatio {
			reasons = append(reasons, fmt.Sprintf("Service cost is %.0f%% of asset value", ratio*100))
			score += capped(ratio/t.MaxServiceCostRatio, 2) * 20 // at most 40
		}
		if t.MinDowntimeHours > 0 && downtime >= t.MinDowntimeHours {
			reasons = append(reasons, fmt.Sprintf("Total downtime %.0f hours exceeds %.0f hour threshold", downtime, t.MinDowntimeHours))
			score += capped(downtime/t.MinDowntimeHours, 1.5) * 10 // at most 15
		}
		if t.MinUtilization > 0 && utilization > 0 && utilization < t.MinUtilization {
			reasons = append(reasons, fmt.Sprintf("Utilization %.0f%% is below %.0f%% threshold", utilization, t.MinUtilization))
			score += capped((t.MinUtilization-utilization)/t.MinUtilization, 1) * 5 // at most 5
		}

		if score > 100 {
			score = 100
		}
		if score <= 30 {
			continue
		}

		rec := Recommendation{
			AssetID:          a.AssetID,
			Name:             a.Name,
			Department:       a.Department,
			Score:            score,
			Reasons:          reasons,
			Recommendation:   recommendationFor(score),
			Priority:         priorityFor(score),
			AgeYears:         age,
			ServiceCostRatio: ratio,
			DowntimeHours:    downtime,
			Utilization:      utilization,
		}
		if a.Value > 0 {
			rec.EstimatedReplacement = a.Value * 1.1
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func capped(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func recommendationFor(score float64) string {
	switch {
	case score >= 60:
		return RecommendReplace
	case score >= 40:
		return RecommendMonitor
	default:
		return RecommendMaintain
	}
}

func priorityFor(score float64) string {
	switch {
	case score >= 70:
		return PriorityHigh
	case score >= 50:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
