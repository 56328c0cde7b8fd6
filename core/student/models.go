package student

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/ascend-bim/gradebook/core"
)

// Deliveries
const (
	DeliveryP1    = "p1"
	DeliveryP2    = "p2"
	DeliveryFinal = "final"
)

// Grade scale
const (
	MinGrade       = 0.0
	MaxGrade       = 5.0
	PassingGrade   = 3.0
	GoodGrade      = 3.5
	ExcellentGrade = 4.5
	MaxBonus       = 1.0
)

// Roster defaults
const (
	DefaultName    = "Nuevo Estudiante"
	DefaultProject = "Proyecto sin asignar"
)

var (
	Deliveries = []Delivery{
		{ID: DeliveryP1, Name: "Parcial 1"},
		{ID: DeliveryP2, Name: "Parcial 2"},
		{ID: DeliveryFinal, Name: "Entrega Final"},
	}

	// weights live apart from Deliveries so they can be tuned without touching the records.
	weights = map[string]float64{
		DeliveryP1:    0.30,
		DeliveryP2:    0.30,
		DeliveryFinal: 0.40,
	}
)

func Weight(deliveryID string) float64 {
	return weights[deliveryID]
}

func IsDelivery(id string) bool {
	_, ok := weights[id]
	return ok
}

type Delivery struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight,omitempty"`
}

// Student is one roster record. The JSON shape is shared with the spreadsheet.
type Student struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Project            string             `json:"project"`
	Grades             map[string]float64 `json:"grades"`
	ParticipationBonus null.Float64       `json:"participationBonus"`
	AIFeedback         null.String        `json:"aiFeedback"`
	Comment            null.String        `json:"comment"`
}

func (s Student) Grade(deliveryID string) float64 {
	return s.Grades[deliveryID]
}

// Clamp forces every grade and the bonus back into their domains.
func (s *Student) Clamp() {
	grades := make(map[string]float64, len(s.Grades))
	for id, g := range s.Grades {
		grades[id] = ClampGrade(g)
	}
	s.Grades = grades
	if s.ParticipationBonus.Valid {
		s.ParticipationBonus.Float64 = ClampBonus(s.ParticipationBonus.Float64)
	}
}

// Copy returns a deep copy so callers never share the grades map.
func (s Student) Copy() Student {
	grades := make(map[string]float64, len(s.Grades))
	for id, g := range s.Grades {
		grades[id] = g
	}
	s.Grades = grades
	return s
}

// Row is a Student enriched with the values derived from its grades.
type Row struct {
	Student
	Average float64 `json:"average"`
	Band    Band    `json:"band"`
}

func NewRow(s Student) Row {
	avg := Average(s)
	return Row{Student: s, Average: avg, Band: BandOf(avg)}
}

// NewStudent contains information needed to create a new Student.
// Blank fields fall back to the roster defaults.
type NewStudent struct {
	Name               string             `json:"name"`
	Project            string             `json:"project"`
	Grades             map[string]float64 `json:"grades" validate:"omitempty,dive,keys,delivery,endkeys"`
	ParticipationBonus null.Float64       `json:"participationBonus"`
	Comment            null.String        `json:"comment"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	if ns.Name == "" {
		ns.Name = DefaultName
	}
	ns.Project = core.CleanString(ns.Project)
	if ns.Project == "" {
		ns.Project = DefaultProject
	}
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Grades are merged into the existing ones.
type UpdateStudent struct {
	Name               *string            `json:"name" validate:"omitempty,notblank"`
	Project            *string            `json:"project" validate:"omitempty,notblank"`
	Grades             map[string]float64 `json:"grades" validate:"omitempty,dive,keys,delivery,endkeys"`
	ParticipationBonus null.Float64       `json:"participationBonus"`
	Comment            null.String        `json:"comment"`
}

func (us *UpdateStudent) Clean() {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		us.Name = &name
	}
	if us.Project != nil {
		project := core.CleanString(*us.Project)
		us.Project = &project
	}
}

func (us UpdateStudent) IsEmpty() bool {
	return us.Name == nil && us.Project == nil && us.Grades == nil && !us.ParticipationBonus.Valid && !us.Comment.Valid
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Match does a case-insensitive match on one of Student.Name or Student.Project.
func (qf QueryFilter) Match(s Student) bool {
	if qf.Search == "" {
		return true
	}
	term := strings.ToLower(qf.Search)
	return strings.Contains(strings.ToLower(s.Name), term) || strings.Contains(strings.ToLower(s.Project), term)
}

// SyncStatus tells verified success from optimistic success.
type SyncStatus string

const (
	SyncFailed    SyncStatus = "failed"
	SyncConfirmed SyncStatus = "confirmed" // remote acknowledged with a 2xx
	SyncAssumed   SyncStatus = "assumed"   // request dispatched, response not inspected
)

type SyncResult struct {
	Status  SyncStatus `json:"status"`
	Message string     `json:"message,omitempty"`
	Count   int        `json:"count"`
}

func (r SyncResult) OK() bool {
	return r.Status == SyncConfirmed || r.Status == SyncAssumed
}
