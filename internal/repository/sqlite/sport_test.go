package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sportsforum/internal/apperror"
	"github.com/sakif/sportsforum/internal/model"
)

func TestSportRoundTrip(t *testing.T) {
	c, _ := newTestConn(t)
	ctx := context.Background()

	in := &model.Sport{Name: "soccer", ScheduledTime: "Mon 18:00-20:00", HallNumber: 4, Note: "bring shoes"}
	require.NoError(t, c.CreateSport(ctx, in))
	assert.NotZero(t, in.ID)

	got, err := c.GetSport(ctx, "soccer")
	require.NoError(t, err)
	assert.Equal(t, *in, *got)

	require.NoError(t, c.DeleteSport(ctx, "soccer"))

	_, err = c.GetSport(ctx, "soccer")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateSport_Duplicate(t *testing.T) {
	c, _ := newTestConn(t)
	ctx := context.Background()
	createTestSport(t, c, "soccer")

	err := c.CreateSport(ctx, &model.Sport{Name: "soccer", Note: "second"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	got, err := c.GetSport(ctx, "soccer")
	require.NoError(t, err)
	assert.Equal(t, "indoor", got.Note)
}

func TestCreateSport_RequiresName(t *testing.T) {
	c, _ := newTestConn(t)

	err := c.CreateSport(context.Background(), &model.Sport{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListSports(t *testing.T) {
	c, _ := newTestConn(t)
	ctx := context.Background()

	sports, err := c.ListSports(ctx)
	require.NoError(t, err)
	assert.Empty(t, sports)
	assert.NotNil(t, sports)

	createTestSport(t, c, "soccer")
	createTestSport(t, c, "basketball")

	sports, err = c.ListSports(ctx)
	require.NoError(t, err)
	require.Len(t, sports, 2)
	assert.Equal(t, "soccer", sports[0].Name)
	assert.Equal(t, "basketball", sports[1].Name)
}

func TestDeleteSport_NotFound(t *testing.T) {
	c, _ := newTestConn(t)

	err := c.DeleteSport(context.Background(), "curling")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteSport_CascadesOrders(t *testing.T) {
	c, _ := newTestConn(t)
	ctx := context.Background()
	createTestUser(t, c, "alice")
	createTestSport(t, c, "soccer")
	createTestSport(t, c, "tennis")

	soccerOrder, err := c.CreateOrder(ctx, "alice", "soccer")
	require.NoError(t, err)
	tennisOrder, err := c.CreateOrder(ctx, "alice", "tennis")
	require.NoError(t, err)

	require.NoError(t, c.DeleteSport(ctx, "soccer"))

	ok, err := c.OrderExists(ctx, soccerOrder)
	require.NoError(t, err)
	assert.False(t, ok, "order for deleted sport should be gone")

	ok, err = c.OrderExists(ctx, tennisOrder)
	require.NoError(t, err)
	assert.True(t, ok)
}
