package student

import "math"

type Band string

const (
	BandExcellent Band = "excellent"
	BandPassing   Band = "passing"
	BandFailing   Band = "failing"
)

func clamp(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	return math.Max(min, math.Min(max, v))
}

func ClampGrade(g float64) float64 { return clamp(g, MinGrade, MaxGrade) }
func ClampBonus(b float64) float64 { return clamp(b, 0, MaxBonus) }

// Average returns the weighted average of the student's grades in [0, 5].
// The participation bonus is added to the final delivery, capped at MaxGrade.
// Absent grades count as 0; the result is 0 when no delivery carries weight.
func Average(s Student) float64 {
	var total, weightSum float64
	for _, d := range Deliveries {
		w := Weight(d.ID)
		if w == 0 {
			continue
		}
		g := ClampGrade(s.Grade(d.ID))
		if d.ID == DeliveryFinal && s.ParticipationBonus.Valid {
			g = math.Min(MaxGrade, g+ClampBonus(s.ParticipationBonus.Float64))
		}
		total += g * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

func BandOf(avg float64) Band {
	switch {
	case avg >= ExcellentGrade:
		return BandExcellent
	case avg >= PassingGrade:
		return BandPassing
	default:
		return BandFailing
	}
}
