package subject_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaestudiantil/backend/core/subject"
	"github.com/agendaestudiantil/backend/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")
	ben := testutil.RegisterStudent(t, env, "Ben", "ben@example.com", "secret1")
	env.DB.DeactivateStudent(ben.ID)

	ns := subject.NewSubject{Name: " Física ", Code: "FIS-1", Credits: 4}
	require.NoError(t, ns.Validate(env.Validate))
	assert.Equal(t, "Física", ns.Name)
	assert.Equal(t, "📚", ns.Icon)

	subj, enrolled, err := env.SubjectSvc.Create(ctx, ns, false)
	require.NoError(t, err)
	assert.Zero(t, enrolled)
	assert.True(t, subj.IsActive)
	ok, err := env.SubjectRepo.IsEnrolled(ctx, ana.ID, subj.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ns = subject.NewSubject{Name: "Química"}
	require.NoError(t, ns.Validate(env.Validate))
	subj, enrolled, err = env.SubjectSvc.Create(ctx, ns, true)
	require.NoError(t, err)
	assert.Equal(t, 1, enrolled, "inactive students are skipped")
	ok, err = env.SubjectRepo.IsEnrolled(ctx, ana.ID, subj.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ns = subject.NewSubject{Name: "  "}
	assert.Error(t, ns.Validate(env.Validate))
}

func TestService_ListWithPending(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	math := testutil.CreateSubject(t, env, "Math101", "📐")
	art := testutil.CreateSubject(t, env, "Art", "")
	_, err := env.SubjectRepo.CreateSubject(ctx, subject.Subject{Name: "Latin", IsActive: false})
	require.NoError(t, err)
	ana := testutil.RegisterStudent(t, env, "Ana", "ana@example.com", "secret1")

	testutil.CreateTask(t, env, ana.ID, math.ID, "past", env.Today().AddDays(-1))
	testutil.CreateTask(t, env, ana.ID, math.ID, "today", env.Today())
	testutil.CreateTask(t, env, ana.ID, math.ID, "later", env.Today().AddDays(7))
	gone := testutil.CreateTask(t, env, ana.ID, math.ID, "gone", env.Today().AddDays(7))
	require.NoError(t, env.TaskSvc.Deactivate(ctx, ana.ID, gone.ID))

	got, err := env.SubjectSvc.ListWithPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []subject.WithPending{
		{Subject: art, PendingTasks: 0},
		{Subject: math, PendingTasks: 2},
	}, got)
}
