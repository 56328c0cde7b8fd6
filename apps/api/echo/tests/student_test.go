package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascend-bim/gradebook/core/student"
	"github.com/ascend-bim/gradebook/tests"
)

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Gradebook API!", rec.Body.String())
}

func Test_studentApi_queryDeliveries(t *testing.T) {
	want := []student.Delivery{
		{ID: "p1", Name: "Parcial 1", Weight: 0.3},
		{ID: "p2", Name: "Parcial 2", Weight: 0.3},
		{ID: "final", Name: "Entrega Final", Weight: 0.4},
	}
	runHTTPTests(t, []httpTest{
		{name: "deliveries", path: "/api/deliveries", wantCode: http.StatusOK, wantData: marchallObj(t, want)},
	})
}

func Test_studentApi_query(t *testing.T) {
	testutil.ResetRoster(t, repo)

	path := func(search, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/api/students?" + v.Encode()
	}

	ana := testutil.CreateStudent(t, repo, "Ana", "Casa Salatino / Sommet", 4, 4, 4)
	luis := testutil.CreateStudent(t, repo, "Luis", "Casa Jungla / FAMM", 2, 2, 2)
	bea := testutil.CreateStudent(t, repo, "Bea", "Casa Salatino / Sommet", 5, 5, 5)

	runHTTPTests(t, []httpTest{
		{name: "all, newest first", path: "/api/students", wantCode: http.StatusOK, wantData: marchallList(t, rows(bea, luis, ana)...)},
		{name: "search (unknown)", path: path("lol", ""), wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "search=SALATINO", path: path("SALATINO", ""), wantCode: http.StatusOK, wantData: marchallList(t, rows(bea, ana)...)},
		{name: "search=lu", path: path(" lu ", ""), wantCode: http.StatusOK, wantData: marchallList(t, rows(luis)...)},
		{name: "ordering=name", path: path("", "name"), wantCode: http.StatusOK, wantData: marchallList(t, rows(ana, bea, luis)...)},
		{name: "ordering=-average", path: path("", "-average"), wantCode: http.StatusOK, wantData: marchallList(t, rows(bea, ana, luis)...)},
		{name: "search + ordering", path: path("salatino", "average"), wantCode: http.StatusOK, wantData: marchallList(t, rows(ana, bea)...)},
	})
}

func Test_studentApi_create(t *testing.T) {
	testutil.ResetRoster(t, repo)

	t.Run("defaults", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/students")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got student.Row
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, student.DefaultName, got.Name)
		assert.Equal(t, student.DefaultProject, got.Project)
		assert.Equal(t, map[string]float64{"p1": 0, "p2": 0, "final": 0}, got.Grades)
		assert.Equal(t, student.BandFailing, got.Band)
	})

	t.Run("with grades", func(t *testing.T) {
		body := []byte(`{"name": "Ana", "project": "Casa A", "grades": {"p1": 4, "p2": 4, "final": 4.8}, "participationBonus": 0.5}`)
		req, rec := newRequest(http.MethodPost, "/api/students", body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got student.Row
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Ana", got.Name)
		assert.InDelta(t, 1.2+1.2+2.0, got.Average, 1e-9)
		assert.Equal(t, student.BandPassing, got.Band)

		all, _ := repo.QueryAllStudents()
		require.Len(t, all, 2)
		assert.Equal(t, got.ID, all[0].ID, "new students go first")
	})

	runHTTPTests(t, []httpTest{
		{
			name: "unknown delivery", method: http.MethodPost, path: "/api/students",
			body:     []byte(`{"grades": {"p3": 4}}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bad json", method: http.MethodPost, path: "/api/students",
			body:     []byte(`{"name": 3}`),
			wantCode: http.StatusBadRequest,
		},
	})
}

func Test_studentApi_retrieve(t *testing.T) {
	testutil.ResetRoster(t, repo)
	ana := testutil.CreateStudent(t, repo, "Ana", "Casa A", 4, 4, 4)

	runHTTPTests(t, []httpTest{
		{name: "found", path: "/api/students/" + ana.ID, wantCode: http.StatusOK, wantData: marchallObj(t, student.NewRow(ana))},
		{name: "not found", path: "/api/students/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	})
}

func Test_studentApi_update(t *testing.T) {
	testutil.ResetRoster(t, repo)
	ana := testutil.CreateStudent(t, repo, "Ana", "Casa A", 3, 3, 3)

	updated := ana.Copy()
	updated.Name = "Ana María"
	updated.Grades["final"] = 5

	runHTTPTests(t, []httpTest{
		{
			name: "blank name", method: http.MethodPut, path: "/api/students/" + ana.ID,
			body:     []byte(`{"name": "   "}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "name cannot be blank"}),
		},
		{
			name: "unknown delivery", method: http.MethodPut, path: "/api/students/" + ana.ID,
			body:     []byte(`{"grades": {"p9": 1}}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found", method: http.MethodPut, path: "/api/students/nope",
			body:     []byte(`{"name": "x"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "name and clamped grade", method: http.MethodPut, path: "/api/students/" + ana.ID,
			body:     []byte(`{"name": " Ana María ", "grades": {"final": 9}}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, student.NewRow(updated)),
		},
	})
}

func Test_studentApi_destroy(t *testing.T) {
	testutil.ResetRoster(t, repo)
	a := testutil.CreateStudent(t, repo, "A", "P")
	b := testutil.CreateStudent(t, repo, "B", "P")
	c := testutil.CreateStudent(t, repo, "C", "P")
	d := testutil.CreateStudent(t, repo, "D", "P")

	runHTTPTests(t, []httpTest{
		{name: "not found", method: http.MethodDelete, path: "/api/students/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "one", method: http.MethodDelete, path: "/api/students/" + b.ID, wantCode: http.StatusNoContent},
		{name: "gone", path: "/api/students/" + b.ID, wantCode: http.StatusNotFound},
		{name: "none", method: http.MethodDelete, path: "/api/students", wantCode: http.StatusNoContent},
		{name: "many", method: http.MethodDelete, path: "/api/students?id=" + a.ID + "&id=" + d.ID + "&id=nope", wantCode: http.StatusNoContent},
		{name: "left", path: "/api/students", wantCode: http.StatusOK, wantData: marchallList(t, rows(c)...)},
	})
}

func Test_studentApi_feedback(t *testing.T) {
	testutil.ResetRoster(t, repo)
	ana := testutil.CreateStudent(t, repo, "Ana", "Casa A", 4, 4, 4)

	req, rec := newRequest(http.MethodPost, "/api/students/"+ana.ID+"/feedback")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got student.Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Buen trabajo Ana", got.AIFeedback.String)

	stored, err := repo.GetStudentByID(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buen trabajo Ana", stored.AIFeedback.String)

	runHTTPTests(t, []httpTest{
		{name: "not found", method: http.MethodPost, path: "/api/students/nope/feedback", wantCode: http.StatusNotFound},
	})
}

func Test_studentApi_stats(t *testing.T) {
	testutil.ResetRoster(t, repo)
	testutil.CreateStudent(t, repo, "Ana", "Casa A", 4, 4, 4)
	testutil.CreateStudent(t, repo, "Luis", "Pendiente de asignar", 2, 2, 2)

	req, rec := newRequest(http.MethodGet, "/api/stats")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got student.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 3.0, got.ClassAverage, 1e-9)
	assert.Equal(t, 1, got.Projects)
	assert.Equal(t, student.Distribution{Good: 1, Low: 1}, got.Distribution)
	require.NotNil(t, got.TopPerformer)
	assert.Equal(t, "Ana", got.TopPerformer.Name)
}

func Test_studentApi_export(t *testing.T) {
	testutil.ResetRoster(t, repo)
	testutil.CreateStudent(t, repo, `Ana "Arq"`, "Casa A", 4, 4, 4)
	testutil.CreateStudent(t, repo, "Luis", "Casa B", 2, 2, 2)

	req, rec := newRequest(http.MethodGet, "/api/export/csv")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "notas-bim.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"`), "every field is quoted")
	assert.Contains(t, lines[1], `"Luis","Casa B","2.0","2.0","2.0","0.0","2.0",""`)
	assert.Contains(t, lines[2], `"Ana ""Arq""","Casa A","4.0","4.0","4.0","0.0","4.0",""`)

	req, rec = newRequest(http.MethodGet, "/api/export/xlsx")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}
