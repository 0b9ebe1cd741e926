// Package notify is the append-only per-principal notification log.
// Entries are prepended newest first and never deleted; only the read flag
// mutates after creation.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/events"
	"shopizen/internal/kvstore"
	"shopizen/pkg/idgen"
)

var ErrLoginRequired = errors.New("login required")

type PrincipalSource interface {
	Current() *domain.Principal
}

type Log struct {
	store   kvstore.Store
	session PrincipalSource

	mu      sync.Mutex
	entries []domain.Notification
}

func NewLog(store kvstore.Store, sess PrincipalSource, bus EventBus.Bus) *Log {
	l := &Log{store: store, session: sess}
	l.reload()
	if bus != nil {
		_ = bus.Subscribe(events.TopicSessionChanged, func(_ *domain.Principal) { l.reload() })
	}
	return l
}

func (l *Log) reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	p := l.session.Current()
	if p == nil {
		return
	}
	if _, err := l.store.Get(kvstore.NotificationsKey(p.ID), &l.entries); err != nil {
		zap.L().Warn("notify: reload failed", zap.Error(err))
	}
}

// Add prepends a notification. When orderID is set and an entry already
// carries it, the add is dropped silently: at most one notification per
// correlated order.
func (l *Log) Add(message, typ, orderID string) error {
	p := l.session.Current()
	if p == nil {
		return ErrLoginRequired
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if orderID != "" {
		for i := range l.entries {
			if l.entries[i].OrderID == orderID {
				return nil
			}
		}
	}
	entry := domain.Notification{
		ID:        idgen.NotificationID(),
		OrderID:   orderID,
		Message:   message,
		Type:      typ,
		Timestamp: time.Now(),
	}
	l.entries = append([]domain.Notification{entry}, l.entries...)
	return l.persistLocked(p.ID)
}

func (l *Log) MarkRead(id string) error {
	p := l.session.Current()
	if p == nil {
		return ErrLoginRequired
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].IsRead = true
			break
		}
	}
	return l.persistLocked(p.ID)
}

func (l *Log) MarkAllRead() error {
	p := l.session.Current()
	if p == nil {
		return ErrLoginRequired
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		l.entries[i].IsRead = true
	}
	return l.persistLocked(p.ID)
}

func (l *Log) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for i := range l.entries {
		if !l.entries[i].IsRead {
			n++
		}
	}
	return n
}

func (l *Log) List() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Notification(nil), l.entries...)
}

func (l *Log) persistLocked(principalID string) error {
	if l.entries == nil {
		l.entries = []domain.Notification{}
	}
	return l.store.Put(kvstore.NotificationsKey(principalID), l.entries)
}
