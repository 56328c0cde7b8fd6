package inmemdb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/ascend-bim/gradebook/core/student"
)

func newRepo(t *testing.T) student.Repository {
	t.Helper()
	db, err := Open()
	require.NoError(t, err)
	return NewStudentRepository(db)
}

func newStudent(id, name string) student.Student {
	return student.Student{
		ID:      id,
		Name:    name,
		Project: "Casa " + name,
		Grades:  map[string]float64{"p1": 3, "p2": 4, "final": 5},
	}
}

func ids(students []student.Student) []string {
	res := make([]string, 0, len(students))
	for _, s := range students {
		res = append(res, s.ID)
	}
	return res
}

func TestStudentRepository_Create(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.CreateStudent(newStudent("1", "Ana"))
	require.NoError(t, err)
	_, err = repo.CreateStudent(newStudent("2", "Luis"))
	require.NoError(t, err)

	all, err := repo.QueryAllStudents()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(all), "new students go first")

	_, err = repo.CreateStudent(newStudent("1", "Otra"))
	assert.Equal(t, student.ErrIDExists, err)
}

func TestStudentRepository_copies(t *testing.T) {
	repo := newRepo(t)
	created, err := repo.CreateStudent(newStudent("1", "Ana"))
	require.NoError(t, err)

	created.Grades["p1"] = 0
	got, err := repo.GetStudentByID("1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Grades["p1"])

	got.Grades["p2"] = 0
	again, _ := repo.GetStudentByID("1")
	assert.Equal(t, 4.0, again.Grades["p2"])
}

func TestStudentRepository_Update(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.CreateStudent(newStudent("1", "Ana"))
	require.NoError(t, err)
	_, err = repo.SetFeedback("1", "Buen trabajo")
	require.NoError(t, err)

	s := newStudent("1", "Ana María")
	s.AIFeedback = null.StringFrom("ignored")
	updated, err := repo.UpdateStudent(s)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, null.StringFrom("Buen trabajo"), updated.AIFeedback)

	_, err = repo.UpdateStudent(newStudent("x", "Nadie"))
	assert.Equal(t, student.ErrNotFound, err)
	_, err = repo.SetFeedback("x", "-")
	assert.Equal(t, student.ErrNotFound, err)
	_, err = repo.GetStudentByID("x")
	assert.Equal(t, student.ErrNotFound, err)
}

func TestStudentRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.ReplaceAll([]student.Student{
		newStudent("1", "Ana"), newStudent("2", "Luis"), newStudent("3", "Eva"), newStudent("4", "Juan"),
	}))

	require.NoError(t, repo.DeleteStudentsByID("2", "4", "missing"))
	all, _ := repo.QueryAllStudents()
	assert.Equal(t, []string{"1", "3"}, ids(all))

	require.NoError(t, repo.DeleteStudentsByID())
	all, _ = repo.QueryAllStudents()
	assert.Len(t, all, 2)
}

func TestStudentRepository_ReplaceAll(t *testing.T) {
	repo := newRepo(t)
	_, _ = repo.CreateStudent(newStudent("old", "Vieja"))

	in := []student.Student{newStudent("1", "Ana"), newStudent("2", "Luis")}
	require.NoError(t, repo.ReplaceAll(in))
	in[0].Name = "changed"

	all, _ := repo.QueryAllStudents()
	assert.Equal(t, []string{"1", "2"}, ids(all))
	assert.Equal(t, "Ana", all[0].Name)

	require.NoError(t, repo.ReplaceAll(nil))
	all, _ = repo.QueryAllStudents()
	assert.Empty(t, all)
}

func TestStudentRepository_concurrent(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.ReplaceAll([]student.Student{newStudent("1", "Ana")}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.SetFeedback("1", "ok")
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.QueryAllStudents()
		}()
	}
	wg.Wait()

	got, err := repo.GetStudentByID("1")
	require.NoError(t, err)
	assert.Equal(t, "ok", got.AIFeedback.String)
}
