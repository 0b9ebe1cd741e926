package session

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopizen/internal/accounts"
	"shopizen/internal/domain"
	"shopizen/internal/events"
	"shopizen/internal/kvstore"
)

func seededRegistry() *accounts.MemoryRepository {
	repo := accounts.NewMemoryRepository()
	repo.Seed([]domain.Account{
		{ID: "u1", Name: "Rhea", Email: "rhea@example.com", Password: "Rhea@2026x", Role: domain.RoleUser, Status: domain.AccountActive},
		{ID: "u2", Name: "Blocked", Email: "blocked@example.com", Password: "Block@2026", Role: domain.RoleUser, Status: domain.AccountBlocked},
	})
	return repo
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		pwd string
		ok  bool
	}{
		{"Rhea@2026x", true},
		{"A1b@", true},
		{"", false},
		{"alllowercase1@", false},
		{"ALLUPPER1@", false},
		{"NoDigits@x", false},
		{"NoSymbol1x", false},
		{"TooLongPassword@123", false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, ValidPassword(c.pwd), "password %q", c.pwd)
	}
}

func TestLoginSuccess(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewHolder(store, seededRegistry(), EventBus.New())

	p, err := h.Login(context.Background(), "rhea@example.com", "Rhea@2026x")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "u1", h.CurrentID())

	// the principal blob is persisted for the next start
	var stored domain.Principal
	found, err := store.Get(kvstore.KeySession, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "u1", stored.ID)
}

func TestLoginErrors(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewHolder(store, seededRegistry(), nil)
	ctx := context.Background()

	_, err := h.Login(ctx, "nobody@example.com", "Rhea@2026x")
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = h.Login(ctx, "rhea@example.com", "Wrong@2026x")
	assert.ErrorIs(t, err, ErrBadPassword)

	// a malformed password never matches, even the stored one verbatim
	_, err = h.Login(ctx, "rhea@example.com", "short")
	assert.ErrorIs(t, err, ErrBadPassword)

	_, err = h.Login(ctx, "blocked@example.com", "Block@2026")
	assert.ErrorIs(t, err, ErrBlocked)

	assert.Nil(t, h.Current())
	assert.Equal(t, kvstore.GuestID, h.CurrentID())
}

func TestLogoutKeepsCollections(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewHolder(store, seededRegistry(), nil)

	_, err := h.Login(context.Background(), "rhea@example.com", "Rhea@2026x")
	require.NoError(t, err)
	require.NoError(t, store.Put(kvstore.WishlistKey("u1"), []domain.WishlistEntry{{ProductID: 9}}))

	h.Logout()
	assert.Nil(t, h.Current())

	var p domain.Principal
	found, _ := store.Get(kvstore.KeySession, &p)
	assert.False(t, found, "session blob must be cleared")

	var wl []domain.WishlistEntry
	found, _ = store.Get(kvstore.WishlistKey("u1"), &wl)
	assert.True(t, found, "per-user collections survive logout")
	assert.Len(t, wl, 1)
}

func TestHolderRestoresPersistedSession(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Put(kvstore.KeySession, domain.Principal{ID: "u1", Name: "Rhea", Role: domain.RoleUser}))

	h := NewHolder(store, seededRegistry(), nil)
	require.NotNil(t, h.Current())
	assert.Equal(t, "u1", h.Current().ID)
}

func TestLoginPublishesSessionChange(t *testing.T) {
	store := kvstore.NewMemoryStore()
	bus := EventBus.New()

	var seen []*domain.Principal
	require.NoError(t, bus.Subscribe(events.TopicSessionChanged, func(p *domain.Principal) {
		seen = append(seen, p)
	}))

	h := NewHolder(store, seededRegistry(), bus)
	_, err := h.Login(context.Background(), "rhea@example.com", "Rhea@2026x")
	require.NoError(t, err)
	h.Logout()

	require.Len(t, seen, 2)
	assert.Equal(t, "u1", seen[0].ID)
	assert.Nil(t, seen[1])
}
