package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaestudiantil/backend/core/notification"
	"github.com/agendaestudiantil/backend/tests"
)

func TestService(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	svc := env.NotificationSvc

	n, err := svc.Create(ctx, "s1", "Hola", "Bienvenido", "")
	require.NoError(t, err)
	assert.Equal(t, notification.KindInfo, n.Kind)
	assert.False(t, n.Read)
	assert.Equal(t, testutil.DefaultNow, n.CreatedAt)

	env.Clock.Advance(30 * time.Minute)
	require.NoError(t, svc.Notify(ctx, "s1", "Nueva tarea", "HW1", "tarea"))

	notifs, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, "Nueva tarea", notifs[0].Title)
	assert.True(t, notifs[0].Recent)
	assert.True(t, notifs[1].Recent)

	env.Clock.Advance(30 * time.Minute)
	notifs, err = svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, notifs[0].Recent)
	assert.False(t, notifs[1].Recent, "exactly one hour old")

	err = svc.MarkRead(ctx, "s2", n.ID)
	assert.True(t, errors.Is(err, notification.ErrNotFound), "got %v", err)
	require.NoError(t, svc.MarkRead(ctx, "s1", n.ID))

	err = svc.Delete(ctx, "s2", n.ID)
	assert.True(t, errors.Is(err, notification.ErrNotFound), "got %v", err)
	require.NoError(t, svc.Delete(ctx, "s1", n.ID))

	notifs, err = svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "tarea", notifs[0].Kind)

	notifs, err = svc.List(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, notifs)
}
