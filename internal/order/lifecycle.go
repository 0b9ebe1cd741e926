package order

import (
	"go.uber.org/zap"

	"shopizen/internal/domain"
)

// Advance moves every non-terminal item of the current principal's order
// one step toward Delivered. Steps are never skipped and terminal items
// are never touched. The updated order and whether every item has reached
// a resting state (Delivered or terminal) are returned.
func (m *Manager) Advance(orderID string) (*domain.Order, bool, error) {
	p := m.session.Current()
	if p == nil {
		return nil, false, ErrLoginRequired
	}
	return m.AdvanceFor(p.ID, orderID)
}

// AdvanceFor is Advance against an explicit principal's order list.
func (m *Manager) AdvanceFor(principalID, orderID string) (*domain.Order, bool, error) {
	var updated *domain.Order
	err := m.mutate(principalID, orderID, func(o *domain.Order) error {
		for i := range o.Items {
			if o.Items[i].StatusIndex == domain.StatusTerminal {
				continue
			}
			if o.Items[i].StatusIndex < domain.StatusDelivered {
				o.Items[i].StatusIndex++
			}
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return updated, settled(updated), nil
}

// settled reports whether no further advancement is possible.
func settled(o *domain.Order) bool {
	for i := range o.Items {
		si := o.Items[i].StatusIndex
		if si != domain.StatusTerminal && si != domain.StatusDelivered {
			return false
		}
	}
	return true
}

// Cancel moves an item to the terminal state from any non-terminal state.
// The reason is mandatory and stored verbatim; a second cancel of the same
// item is rejected rather than relying on the caller to hide the action.
func (m *Manager) Cancel(orderID, itemID, reason string) (*domain.Order, error) {
	return m.close(orderID, itemID, reason, domain.ActionCancel)
}

// Return moves a Delivered item to the terminal state with the return
// action. Items anywhere earlier in the sequence are rejected.
func (m *Manager) Return(orderID, itemID, reason string) (*domain.Order, error) {
	return m.close(orderID, itemID, reason, domain.ActionReturn)
}

func (m *Manager) close(orderID, itemID, reason, action string) (*domain.Order, error) {
	p := m.session.Current()
	if p == nil {
		return nil, ErrLoginRequired
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}
	var updated *domain.Order
	err := m.mutate(p.ID, orderID, func(o *domain.Order) error {
		for i := range o.Items {
			if o.Items[i].OrderItemID != itemID {
				continue
			}
			if o.Items[i].StatusIndex == domain.StatusTerminal {
				return ErrTerminalItem
			}
			if action == domain.ActionReturn && o.Items[i].StatusIndex != domain.StatusDelivered {
				return ErrNotDelivered
			}
			o.Items[i].StatusIndex = domain.StatusTerminal
			o.Items[i].Action = action
			o.Items[i].Reason = reason
			updated = o
			return nil
		}
		return ErrItemNotFound
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("order item closed",
		zap.String("order", orderID),
		zap.String("item", itemID),
		zap.String("action", action))
	return updated, nil
}
