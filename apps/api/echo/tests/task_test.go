package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/core/task"
	"github.com/agendaestudiantil/backend/tests"
)

func listTasks(t *testing.T, app http.Handler, token string) []task.StudentTask {
	rec := do(app, http.MethodGet, "/api/tareas", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows []task.StudentTask
	decode(t, rec, &rows)
	return rows
}

func getStats(t *testing.T, app http.Handler, token string) task.Stats {
	rec := do(app, http.MethodGet, "/api/estadisticas", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats task.Stats
	decode(t, rec, &stats)
	return stats
}

func Test_taskApi_scenario(t *testing.T) {
	app, env := setup(t)

	math := testutil.CreateSubject(t, env, "Math101", "📐")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	token := testutil.Token(t, env, ana)
	tomorrow := env.Today().AddDays(1)

	subjects := func(pending int) []byte {
		return marchallList(t, subject.WithPending{Subject: math, PendingTasks: pending})
	}
	runHTTPTests(t, app, []httpTest{
		{
			name:     "no tasks yet",
			path:     "/api/materias",
			token:    token,
			wantData: subjects(0),
		},
		{
			name:     "create HW1",
			method:   http.MethodPost,
			path:     "/api/tareas",
			token:    token,
			body:     []byte(fmt.Sprintf(`{"titulo":" HW1 ","materia_id":%d,"prioridad":"ALTA","fecha_vencimiento":%q}`, math.ID, tomorrow)),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, map[string]interface{}{
				"mensaje": "Tarea creada exitosamente",
				"tarea": task.Task{
					ID:        1,
					Title:     "HW1",
					SubjectID: math.ID,
					Priority:  task.PriorityHigh,
					DueDate:   tomorrow,
					IsActive:  true,
					CreatedAt: testutil.DefaultNow,
				},
			}),
		},
		{
			name:     "pending count",
			path:     "/api/materias",
			token:    token,
			wantData: subjects(1),
		},
		{
			name:  "listing",
			path:  "/api/tareas",
			token: token,
			wantData: marchallList(t, task.StudentTask{
				ID:          1,
				Title:       "HW1",
				DueDate:     tomorrow,
				Priority:    task.PriorityHigh,
				SubjectID:   math.ID,
				SubjectName: "Math101",
				SubjectIcon: "📐",
			}),
		},
		{
			name:     "complete",
			method:   http.MethodPut,
			path:     "/api/tareas/1",
			token:    token,
			body:     []byte(`{"completada":true}`),
			wantData: marchallObj(t, httpMsg{Message: "Tarea actualizada"}),
		},
		{
			name:     "statistics",
			path:     "/api/estadisticas",
			token:    token,
			wantData: marchallObj(t, task.Stats{Total: 1, Completed: 1}),
		},
		{
			name:     "completion does not change the subject count",
			path:     "/api/materias",
			token:    token,
			wantData: subjects(1),
		},
	})
}

func Test_taskApi_overdue(t *testing.T) {
	app, env := setup(t)

	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	token := testutil.Token(t, env, ana)

	yesterday := testutil.CreateTask(t, env, ana.ID, math.ID, "Late", env.Today().AddDays(-1))
	today := testutil.CreateTask(t, env, ana.ID, math.ID, "Today", env.Today())

	rows := listTasks(t, app, token)
	require.Len(t, rows, 2)
	assert.Equal(t, yesterday.ID, rows[0].ID)
	assert.True(t, rows[0].Overdue)
	assert.Equal(t, today.ID, rows[1].ID)
	assert.False(t, rows[1].Overdue)

	assert.Equal(t, task.Stats{Total: 2, Pending: 1, Overdue: 1}, getStats(t, app, token))

	// a day later, with no writes, the second task is overdue too
	env.Clock.Advance(24 * time.Hour)
	rows = listTasks(t, app, token)
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Overdue)
	assert.Equal(t, task.Stats{Total: 2, Overdue: 2}, getStats(t, app, token))

	// a completed overdue task counts as completed only
	rec := do(app, http.MethodPut, fmt.Sprintf("/api/tareas/%d", yesterday.ID), token, []byte(`{"completada":true}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := getStats(t, app, token)
	assert.Equal(t, task.Stats{Total: 2, Completed: 1, Overdue: 1}, stats)
	assert.Equal(t, stats.Total, stats.Completed+stats.Pending+stats.Overdue)
}

func Test_taskApi_create(t *testing.T) {
	app, env := setup(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	ben := testutil.RegisterStudent(t, env, "Ben", "ben@example.com", "secret1")
	art := testutil.CreateSubject(t, env, "Art", "") // created after both registered
	token := testutil.Token(t, env, ana)
	due := env.Today().AddDays(3)

	runHTTPTests(t, app, []httpTest{
		{
			name:       "empty body",
			method:     http.MethodPost,
			path:       "/api/tareas",
			token:      token,
			body:       []byte(`{}`),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"titulo", "materia_id"},
		},
		{
			name:       "bad priority",
			method:     http.MethodPost,
			path:       "/api/tareas",
			token:      token,
			body:       []byte(fmt.Sprintf(`{"titulo":"HW","materia_id":%d,"prioridad":"urgente","fecha_vencimiento":%q}`, math.ID, due)),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"prioridad"},
		},
		{
			name:       "missing due date",
			method:     http.MethodPost,
			path:       "/api/tareas",
			token:      token,
			body:       []byte(fmt.Sprintf(`{"titulo":"HW","materia_id":%d}`, math.ID)),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"fecha_vencimiento"},
		},
		{
			name:     "not enrolled",
			method:   http.MethodPost,
			path:     "/api/tareas",
			token:    token,
			body:     []byte(fmt.Sprintf(`{"titulo":"Sketch","materia_id":%d,"fecha_vencimiento":%q}`, art.ID, due)),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: task.ErrNotEnrolled.Error()}),
		},
	})

	t.Run("fans out to enrolled students", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/tareas", token,
			[]byte(fmt.Sprintf(`{"titulo":"HW1","materia_id":%d,"fecha_vencimiento":%q}`, math.ID, due)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp struct {
			Task task.Task `json:"tarea"`
		}
		decode(t, rec, &resp)
		assert.Equal(t, task.PriorityMedium, resp.Task.Priority)

		for _, tkn := range []string{token, testutil.Token(t, env, ben)} {
			rows := listTasks(t, app, tkn)
			require.Len(t, rows, 1)
			assert.Equal(t, resp.Task.ID, rows[0].ID)
			assert.False(t, rows[0].Completed)
		}

		// classmates are told, the author is not
		notifs, err := env.NotificationSvc.List(ctx, ben.ID)
		require.NoError(t, err)
		require.NotEmpty(t, notifs)
		assert.Equal(t, "Nueva tarea", notifs[0].Title)
		assert.Equal(t, "tarea", notifs[0].Kind)

		notifs, err = env.NotificationSvc.List(ctx, ana.ID)
		require.NoError(t, err)
		for _, n := range notifs {
			assert.NotEqual(t, "Nueva tarea", n.Title)
		}

		// later registrations only get tasks created afterwards
		cleo := testutil.RegisterStudent(t, env, "Cleo", "cleo@example.com", "secret1")
		assert.Empty(t, listTasks(t, app, testutil.Token(t, env, cleo)))
	})
}

func Test_taskApi_setCompletion(t *testing.T) {
	app, env := setup(t)

	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	ben := testutil.RegisterStudent(t, env, "Ben", "ben@example.com", "secret1")
	art := testutil.CreateSubject(t, env, "Art", "")
	cleo := testutil.RegisterStudent(t, env, "Cleo", "cleo@example.com", "secret1")

	token := testutil.Token(t, env, ana)
	hw := testutil.CreateTask(t, env, ana.ID, math.ID, "HW1", env.Today().AddDays(2))
	sketch := testutil.CreateTask(t, env, cleo.ID, art.ID, "Sketch", env.Today().AddDays(2))
	path := fmt.Sprintf("/api/tareas/%d", hw.ID)
	notFound := marchallObj(t, httpErr{Error: task.ErrNotFound.Error()})

	runHTTPTests(t, app, []httpTest{
		{
			name:       "missing flag",
			method:     http.MethodPut,
			path:       path,
			token:      token,
			body:       []byte(`{}`),
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"completada"},
		},
		{
			name:     "task not assigned to the student",
			method:   http.MethodPut,
			path:     fmt.Sprintf("/api/tareas/%d", sketch.ID),
			token:    token,
			body:     []byte(`{"completada":true}`),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "unknown task",
			method:   http.MethodPut,
			path:     "/api/tareas/999",
			token:    token,
			body:     []byte(`{"completada":true}`),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "non numeric id",
			method:   http.MethodPut,
			path:     "/api/tareas/abc",
			token:    token,
			body:     []byte(`{"completada":true}`),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
	})

	t.Run("idempotent and per student", func(t *testing.T) {
		completedAt := env.Clock.Now()
		for i := 0; i < 2; i++ {
			rec := do(app, http.MethodPut, path, token, []byte(`{"completada":true}`))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			env.Clock.Advance(time.Minute)
		}

		rows := listTasks(t, app, token)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Completed)
		require.True(t, rows[0].CompletedAt.Valid)
		assert.True(t, rows[0].CompletedAt.Time.Equal(completedAt))
		assert.Equal(t, task.Stats{Total: 1, Completed: 1}, getStats(t, app, token))

		// Ben's row is untouched
		rows = listTasks(t, app, testutil.Token(t, env, ben))
		require.Len(t, rows, 1)
		assert.False(t, rows[0].Completed)
		assert.False(t, rows[0].CompletedAt.Valid)
	})

	t.Run("reopen clears completion", func(t *testing.T) {
		rec := do(app, http.MethodPut, path, token, []byte(`{"completada":false}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rows := listTasks(t, app, token)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].Completed)
		assert.False(t, rows[0].CompletedAt.Valid)
		assert.Equal(t, task.Stats{Total: 1, Pending: 1}, getStats(t, app, token))
	})
}

func Test_taskApi_destroy(t *testing.T) {
	app, env := setup(t)

	// Cleo registers before Math101 exists, so she is only in Art
	art := testutil.CreateSubject(t, env, "Art", "")
	cleo := testutil.RegisterStudent(t, env, "Cleo", "cleo@example.com", "secret1")
	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	ben := testutil.RegisterStudent(t, env, "Ben", "ben@example.com", "secret1")

	hw := testutil.CreateTask(t, env, ana.ID, math.ID, "HW1", env.Today().AddDays(2))
	path := fmt.Sprintf("/api/tareas/%d", hw.ID)
	notFound := marchallObj(t, httpErr{Error: task.ErrNotFound.Error()})

	runHTTPTests(t, app, []httpTest{
		{
			name:     "student not enrolled in the subject",
			method:   http.MethodDelete,
			path:     path,
			token:    testutil.Token(t, env, cleo),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "unknown task",
			method:   http.MethodDelete,
			path:     "/api/tareas/999",
			token:    testutil.Token(t, env, ana),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "classmate deletes",
			method:   http.MethodDelete,
			path:     path,
			token:    testutil.Token(t, env, ben),
			wantData: marchallObj(t, httpMsg{Message: "Tarea eliminada"}),
		},
		{
			name:     "already deleted",
			method:   http.MethodDelete,
			path:     path,
			token:    testutil.Token(t, env, ana),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
		{
			name:     "completing a deleted task",
			method:   http.MethodPut,
			path:     path,
			token:    testutil.Token(t, env, ana),
			body:     []byte(`{"completada":true}`),
			wantCode: http.StatusNotFound,
			wantData: notFound,
		},
	})

	for _, tkn := range []string{testutil.Token(t, env, ana), testutil.Token(t, env, ben)} {
		assert.Empty(t, listTasks(t, app, tkn))
		assert.Equal(t, task.Stats{}, getStats(t, app, tkn))
	}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "subject count drops",
			path:     "/api/materias",
			token:    testutil.Token(t, env, ana),
			wantData: marchallList(t, subject.WithPending{Subject: art}, subject.WithPending{Subject: math}),
		},
	})
}
