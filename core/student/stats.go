package student

import "strings"

// placeholders for students without an assigned project
var unassignedProjects = []string{"pendiente", strings.ToLower(DefaultProject)}

type Distribution struct {
	Excellent int `json:"excellent"` // >= 4.5
	Good      int `json:"good"`      // >= 3.5
	Basic     int `json:"basic"`     // >= 3.0
	Low       int `json:"low"`
}

type DeliveryAverage struct {
	Delivery
	Average float64 `json:"average"`
}

type Stats struct {
	Count        int               `json:"count"`
	ClassAverage float64           `json:"classAverage"`
	Passing      int               `json:"passing"`
	TopPerformer *Row              `json:"topPerformer"`
	Deliveries   []DeliveryAverage `json:"deliveries"`
	Distribution Distribution      `json:"distribution"`
	Projects     int               `json:"projects"`
}

// ComputeStats derives the class statistics from the given roster.
func ComputeStats(students []Student) Stats {
	st := Stats{
		Count:      len(students),
		Deliveries: DeliveryAverages(students),
		Projects:   CountProjects(students),
	}
	if len(students) == 0 {
		return st
	}

	var sum float64
	for _, s := range students {
		row := NewRow(s)
		sum += row.Average
		if row.Average >= PassingGrade {
			st.Passing++
		}
		// strict comparison keeps the first-seen record on ties
		if st.TopPerformer == nil || row.Average > st.TopPerformer.Average {
			r := row
			st.TopPerformer = &r
		}
		switch {
		case row.Average >= ExcellentGrade:
			st.Distribution.Excellent++
		case row.Average >= GoodGrade:
			st.Distribution.Good++
		case row.Average >= PassingGrade:
			st.Distribution.Basic++
		default:
			st.Distribution.Low++
		}
	}
	st.ClassAverage = sum / float64(len(students))
	return st
}

// DeliveryAverages returns the mean raw grade (bonus excluded) of every delivery.
func DeliveryAverages(students []Student) []DeliveryAverage {
	avgs := make([]DeliveryAverage, 0, len(Deliveries))
	for _, d := range Deliveries {
		da := DeliveryAverage{Delivery: d}
		da.Weight = Weight(d.ID)
		if len(students) > 0 {
			var sum float64
			for _, s := range students {
				sum += ClampGrade(s.Grade(d.ID))
			}
			da.Average = sum / float64(len(students))
		}
		avgs = append(avgs, da)
	}
	return avgs
}

// CountProjects counts the distinct assigned project labels.
func CountProjects(students []Student) int {
	seen := make(map[string]struct{})
	for _, s := range students {
		p := strings.TrimSpace(s.Project)
		if p == "" || isUnassigned(p) {
			continue
		}
		seen[p] = struct{}{}
	}
	return len(seen)
}

func isUnassigned(project string) bool {
	lp := strings.ToLower(project)
	for _, u := range unassignedProjects {
		if strings.Contains(lp, u) {
			return true
		}
	}
	return false
}
