package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/storage"
)

func TestFreshManagerIsGuest(t *testing.T) {
	m := NewManager(storage.NewMemory())
	assert.Empty(t, m.Token())
	assert.Nil(t, m.CurrentUser())
	assert.False(t, m.LoggedIn())
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	m := NewManager(kv)
	m.Save(ctx, "tok-1", &model.Profile{ID: 1, Name: "dana"})

	m2 := NewManager(kv)
	assert.Equal(t, "tok-1", m2.Token())
	require.NotNil(t, m2.CurrentUser())
	assert.Equal(t, "dana", m2.CurrentUser().Name)
	assert.True(t, m2.LoggedIn())
}

func TestCorruptPersistedUserFallsBackToGuestProfile(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, "nncoach_user", []byte("][")))
	require.NoError(t, kv.Set(ctx, "nncoach_token", []byte("tok")))

	m := NewManager(kv)
	assert.Equal(t, "tok", m.Token())
	assert.Nil(t, m.CurrentUser())
}

func TestCurrentUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory())
	m.Save(ctx, "tok", &model.Profile{ID: 1, Weight: 70})

	u := m.CurrentUser()
	u.Weight = 99
	assert.Equal(t, float64(70), m.CurrentUser().Weight)
}

func TestClearAndInvalidateEvents(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	m := NewManager(kv)

	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })

	m.Save(ctx, "tok", &model.Profile{ID: 1})
	m.Clear(ctx)
	m.Save(ctx, "tok2", &model.Profile{ID: 2})
	m.Invalidate(ctx, "token rejected")

	require.Len(t, events, 4)
	assert.Equal(t, EventSaved, events[0].Kind)
	assert.Equal(t, EventCleared, events[1].Kind)
	assert.Equal(t, EventSaved, events[2].Kind)
	assert.Equal(t, EventInvalidated, events[3].Kind)
	assert.Equal(t, "token rejected", events[3].Reason)

	assert.Empty(t, m.Token())
	assert.Nil(t, m.CurrentUser())

	// storage is clean too
	m2 := NewManager(kv)
	assert.Empty(t, m2.Token())
	assert.Nil(t, m2.CurrentUser())
}

func TestUpdateUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory())
	m.Save(ctx, "tok", &model.Profile{ID: 1})

	m.UpdateUser(ctx, &model.Profile{ID: 1, GoalType: "cut"})
	assert.Equal(t, "tok", m.Token())
	assert.Equal(t, "cut", m.CurrentUser().GoalType)

	m.UpdateUser(ctx, nil)
	assert.NotNil(t, m.CurrentUser())
}
