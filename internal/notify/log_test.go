package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
)

type fakeSession struct{ p *domain.Principal }

func (f *fakeSession) Current() *domain.Principal { return f.p }

func loggedIn() *fakeSession {
	return &fakeSession{p: &domain.Principal{ID: "u1"}}
}

func TestAddRequiresLogin(t *testing.T) {
	l := NewLog(kvstore.NewMemoryStore(), &fakeSession{}, nil)
	assert.ErrorIs(t, l.Add("hello", domain.NotifyInfo, ""), ErrLoginRequired)
}

func TestAddPrependsNewestFirst(t *testing.T) {
	l := NewLog(kvstore.NewMemoryStore(), loggedIn(), nil)

	require.NoError(t, l.Add("first", domain.NotifyInfo, ""))
	require.NoError(t, l.Add("second", domain.NotifyInfo, ""))

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)
	assert.NotEqual(t, list[0].ID, list[1].ID)
}

func TestAddDeduplicatesByOrder(t *testing.T) {
	l := NewLog(kvstore.NewMemoryStore(), loggedIn(), nil)

	require.NoError(t, l.Add("Your order #X is confirmed", domain.NotifySuccess, "ORD-X"))
	require.NoError(t, l.Add("Your order #X is confirmed", domain.NotifySuccess, "ORD-X"))
	require.NoError(t, l.Add("unrelated", domain.NotifyInfo, ""))

	list := l.List()
	require.Len(t, list, 2, "second add for the same order is dropped")
	assert.Equal(t, 2, l.UnreadCount())
}

func TestMarkRead(t *testing.T) {
	store := kvstore.NewMemoryStore()
	l := NewLog(store, loggedIn(), nil)

	require.NoError(t, l.Add("a", domain.NotifyInfo, ""))
	require.NoError(t, l.Add("b", domain.NotifyInfo, ""))
	require.Equal(t, 2, l.UnreadCount())

	id := l.List()[0].ID
	require.NoError(t, l.MarkRead(id))
	assert.Equal(t, 1, l.UnreadCount())

	require.NoError(t, l.MarkAllRead())
	assert.Equal(t, 0, l.UnreadCount())

	// read flags are persisted
	var persisted []domain.Notification
	found, _ := store.Get(kvstore.NotificationsKey("u1"), &persisted)
	require.True(t, found)
	for _, n := range persisted {
		assert.True(t, n.IsRead)
	}
}
