// Package session holds the currently authenticated principal, persists it
// as a single blob and broadcasts identity changes so per-user collections
// re-hydrate under the new principal's keys.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"shopizen/internal/accounts"
	"shopizen/internal/domain"
	"shopizen/internal/events"
	"shopizen/internal/kvstore"
)

var (
	ErrNotRegistered = errors.New("this email is not registered")
	ErrBadPassword   = errors.New("incorrect password")
	ErrBlocked       = errors.New("account is blocked")
)

const passwordSymbols = "@$!%*?&"

// ValidPassword enforces the fixture password format: at least one
// lowercase letter, one uppercase letter, one digit and one symbol from
// the allowed set, total length 1 to 15.
func ValidPassword(pwd string) bool {
	if len(pwd) < 1 || len(pwd) > 15 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Holder keeps exactly one current principal at a time.
type Holder struct {
	store    kvstore.Store
	registry accounts.Repository
	bus      EventBus.Bus

	mu      sync.RWMutex
	current *domain.Principal
}

func NewHolder(store kvstore.Store, registry accounts.Repository, bus EventBus.Bus) *Holder {
	h := &Holder{store: store, registry: registry, bus: bus}
	var p domain.Principal
	if found, _ := store.Get(kvstore.KeySession, &p); found && p.ID != "" {
		h.current = &p
	}
	return h
}

// Login matches credentials against the registry. An unknown email fails
// with ErrNotRegistered; a password that breaks the fixed format or does
// not equal the stored value fails with ErrBadPassword. Comparison is
// plaintext against fixture data, a stand-in inherited from the source
// system.
func (h *Holder) Login(ctx context.Context, email, password string) (*domain.Principal, error) {
	acct, err := h.registry.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	if acct.Status == domain.AccountBlocked {
		return nil, ErrBlocked
	}
	if !ValidPassword(password) || acct.Password != password {
		return nil, ErrBadPassword
	}

	principal := acct.Principal()
	if err := h.store.Put(kvstore.KeySession, principal); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.current = principal
	h.mu.Unlock()

	acct.LastLogin = time.Now()
	if err := h.registry.Update(ctx, acct); err != nil {
		zap.L().Warn("session: last login update failed", zap.Error(err))
	}

	h.publish(principal)
	zap.L().Info("session: login", zap.String("id", principal.ID), zap.String("role", principal.Role))
	return principal, nil
}

// Logout clears the persisted principal blob and the in-memory value.
// Stored per-user collections are left untouched for the next login.
func (h *Holder) Logout() {
	h.mu.Lock()
	prev := h.current
	h.current = nil
	h.mu.Unlock()

	if err := h.store.Delete(kvstore.KeySession); err != nil {
		zap.L().Warn("session: clear failed", zap.Error(err))
	}
	h.publish(nil)
	if prev != nil {
		zap.L().Info("session: logout", zap.String("id", prev.ID))
	}
}

// Current returns the authenticated principal or nil.
func (h *Holder) Current() *domain.Principal {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// CurrentID returns the principal id or the guest id when nobody is
// logged in. Per-principal store keys are derived from this value.
func (h *Holder) CurrentID() string {
	if p := h.Current(); p != nil {
		return p.ID
	}
	return kvstore.GuestID
}

func (h *Holder) publish(p *domain.Principal) {
	if h.bus != nil {
		h.bus.Publish(events.TopicSessionChanged, p)
	}
}
