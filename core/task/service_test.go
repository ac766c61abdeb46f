package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaestudiantil/backend/core"
	"github.com/agendaestudiantil/backend/core/task"
	"github.com/agendaestudiantil/backend/tests"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name string
		rows []task.StudentTask
		want task.Stats
	}{
		{name: "empty", want: task.Stats{}},
		{
			name: "one of each",
			rows: []task.StudentTask{{Completed: true}, {Overdue: true}, {}},
			want: task.Stats{Total: 3, Completed: 1, Pending: 1, Overdue: 1},
		},
		{
			name: "completed wins over overdue",
			rows: []task.StudentTask{{Completed: true, Overdue: true}, {Completed: true}},
			want: task.Stats{Total: 2, Completed: 2},
		},
		{
			name: "all pending",
			rows: []task.StudentTask{{}, {}, {}, {}},
			want: task.Stats{Total: 4, Pending: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := task.ComputeStats(tt.rows)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Total, got.Completed+got.Pending+got.Overdue)
		})
	}
}

func TestNewTask_Validate(t *testing.T) {
	env := testutil.NewEnv(t)
	due := env.Today()

	nt := task.NewTask{Title: "  HW1 ", SubjectID: 1, Priority: " Alta ", DueDate: due}
	require.NoError(t, nt.Validate(env.Validate))
	assert.Equal(t, "HW1", nt.Title)
	assert.Equal(t, task.PriorityHigh, nt.Priority)

	nt = task.NewTask{Title: "HW1", SubjectID: 1, DueDate: due}
	require.NoError(t, nt.Validate(env.Validate))
	assert.Equal(t, task.PriorityMedium, nt.Priority)

	nt = task.NewTask{Title: "HW1", SubjectID: 1}
	err := nt.Validate(env.Validate)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "fecha_vencimiento", vErr.Fields[0].Field)
}

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	ben := testutil.RegisterStudent(t, env, "Ben", "ben@example.com", "secret1")
	art := testutil.CreateSubject(t, env, "Art", "")

	_, err := env.TaskSvc.Create(ctx, ana.ID, task.NewTask{Title: "Sketch", SubjectID: art.ID, DueDate: env.Today()})
	assert.True(t, errors.Is(err, task.ErrNotEnrolled), "got %v", err)

	tsk := testutil.CreateTask(t, env, ana.ID, math.ID, "HW1", env.Today().AddDays(1))
	assert.True(t, tsk.IsActive)
	assert.Equal(t, task.PriorityMedium, tsk.Priority)
	assert.Equal(t, testutil.DefaultNow, tsk.CreatedAt)

	for _, id := range []string{ana.ID, ben.ID} {
		rows, err := env.TaskSvc.ListForStudent(ctx, id)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, tsk.ID, rows[0].ID)
		assert.Equal(t, "Math101", rows[0].SubjectName)
		assert.Equal(t, "📚", rows[0].SubjectIcon)
	}
}

func TestService_SetCompletion(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	tsk := testutil.CreateTask(t, env, ana.ID, math.ID, "HW1", env.Today().AddDays(1))

	first := env.Clock.Now()
	require.NoError(t, env.TaskSvc.SetCompletion(ctx, ana.ID, tsk.ID, true))
	env.Clock.Advance(time.Hour)
	require.NoError(t, env.TaskSvc.SetCompletion(ctx, ana.ID, tsk.ID, true))

	rows, err := env.TaskSvc.ListForStudent(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Completed)
	assert.True(t, rows[0].CompletedAt.Time.Equal(first), "first completion time is kept")

	err = env.TaskSvc.SetCompletion(ctx, ana.ID, tsk.ID+1, true)
	assert.True(t, errors.Is(err, task.ErrNotFound), "got %v", err)
}

func TestService_Deactivate(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	testutil.CreateSubject(t, env, "Art", "")
	cleo := testutil.RegisterStudent(t, env, "Cleo", "cleo@example.com", "secret1")
	math := testutil.CreateSubject(t, env, "Math101", "")
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	tsk := testutil.CreateTask(t, env, ana.ID, math.ID, "HW1", env.Today().AddDays(1))

	tests := []struct {
		name      string
		studentID string
		taskID    int
		wantErr   error
	}{
		{name: "unknown task", studentID: ana.ID, taskID: 999, wantErr: task.ErrNotFound},
		{name: "not enrolled", studentID: cleo.ID, taskID: tsk.ID, wantErr: task.ErrNotFound},
		{name: "enrolled", studentID: ana.ID, taskID: tsk.ID},
		{name: "already inactive", studentID: ana.ID, taskID: tsk.ID, wantErr: task.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.TaskSvc.Deactivate(ctx, tt.studentID, tt.taskID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	stats, err := env.TaskSvc.Statistics(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Stats{}, stats)
}
