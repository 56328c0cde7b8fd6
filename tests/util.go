package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ascend-bim/gradebook/core/student"
)

// CreateStudent stores a student with the given grades (p1, p2, final) and returns it.
func CreateStudent(t *testing.T, repo student.Repository, name, project string, grades ...float64) student.Student {
	s := student.Student{
		ID:      uuid.New().String(),
		Name:    name,
		Project: project,
		Grades:  make(map[string]float64, len(student.Deliveries)),
	}
	for i, d := range student.Deliveries {
		var g float64
		if i < len(grades) {
			g = grades[i]
		}
		s.Grades[d.ID] = g
	}
	s, err := repo.CreateStudent(s)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// ResetRoster empties the roster.
func ResetRoster(t *testing.T, repo student.Repository) {
	if err := repo.ReplaceAll(nil); err != nil {
		t.Fatalf("ResetRoster() failed: %v", err)
	}
}

// SheetStoreMock is an in-memory spreadsheet.
type SheetStoreMock struct {
	mu      sync.Mutex
	Rows    []student.Student
	PushRes student.SyncResult
	PullRes student.SyncResult
	Pushes  int
	Pulls   int
}

var _ student.SheetStore = (*SheetStoreMock)(nil)

func NewSheetStoreMock(rows ...student.Student) *SheetStoreMock {
	return &SheetStoreMock{
		Rows:    rows,
		PushRes: student.SyncResult{Status: student.SyncConfirmed},
		PullRes: student.SyncResult{Status: student.SyncConfirmed},
	}
}

func (m *SheetStoreMock) Push(_ context.Context, students []student.Student) student.SyncResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushes++
	if m.PushRes.OK() {
		m.Rows = students
	}
	return m.PushRes
}

func (m *SheetStoreMock) Pull(_ context.Context) ([]student.Student, student.SyncResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pulls++
	if !m.PullRes.OK() {
		return nil, m.PullRes
	}
	rows := make([]student.Student, 0, len(m.Rows))
	for _, s := range m.Rows {
		rows = append(rows, s.Copy())
	}
	return rows, m.PullRes
}

// AdvisorMock answers with fixed texts. Hook, if set, runs before answering.
type AdvisorMock struct {
	Feedback string
	Report   string
	Hook     func()
}

var _ student.Advisor = (*AdvisorMock)(nil)

func (m *AdvisorMock) StudentFeedback(_ context.Context, s student.Student) string {
	if m.Hook != nil {
		m.Hook()
	}
	return m.Feedback + " " + s.Name
}

func (m *AdvisorMock) ClassReport(_ context.Context, students []student.Student) string {
	if m.Hook != nil {
		m.Hook()
	}
	return m.Report
}
