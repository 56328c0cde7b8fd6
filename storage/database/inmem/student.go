package inmemdb

import (
	"github.com/volatiletech/null/v8"

	"github.com/ascend-bim/gradebook/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) find(id string) (int, bool) {
	for i, s := range repo.db.rows {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, exists := repo.find(s.ID); exists {
		return student.Student{}, student.ErrIDExists
	}
	s = s.Copy()
	repo.db.rows = append([]*student.Student{&s}, repo.db.rows...)
	return s.Copy(), nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.rows))
	for _, s := range repo.db.rows {
		students = append(students, s.Copy())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if i, ok := repo.find(id); ok {
		return repo.db.rows[i].Copy(), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	i, ok := repo.find(s.ID)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	// feedback is only written through SetFeedback
	s = s.Copy()
	s.AIFeedback = repo.db.rows[i].AIFeedback
	repo.db.rows[i] = &s
	return s.Copy(), nil
}

func (repo *studentRepository) SetFeedback(id, feedback string) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	i, ok := repo.find(id)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.rows[i].AIFeedback = null.StringFrom(feedback)
	return repo.db.rows[i].Copy(), nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	toDelete := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		toDelete[id] = struct{}{}
	}
	rows := repo.db.rows[:0]
	for _, s := range repo.db.rows {
		if _, ok := toDelete[s.ID]; !ok {
			rows = append(rows, s)
		}
	}
	for i := len(rows); i < len(repo.db.rows); i++ {
		repo.db.rows[i] = nil
	}
	repo.db.rows = rows
	return nil
}

func (repo *studentRepository) ReplaceAll(students []student.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rows := make([]*student.Student, 0, len(students))
	for _, s := range students {
		s := s.Copy()
		rows = append(rows, &s)
	}
	repo.db.rows = rows
	return nil
}
