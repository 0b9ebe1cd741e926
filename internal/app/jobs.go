package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 1m", func() {
		a.SchedDeliverySweepTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if a.appConfig.Shop.NotifyRetentionDays > 0 {
		_, err = a.sched.AddFunc("@daily", func() {
			a.SchedNotificationPruneTask()
		})
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}
}

// SchedDeliverySweepTask walks every stored order and advances items whose
// elapsed share of the delivery window entitles them to the next status. A
// fresh order reaches Delivered around its expected delivery date without
// any browser-side tracker running.
func (a *Application) SchedDeliverySweepTask() {
	all, err := a.orders.AllOrders()
	if err != nil {
		zap.S().Errorf("delivery sweep scan failed: %v", err)
		return
	}
	now := time.Now()
	for _, o := range all {
		due := dueStatusIndex(&o, now)
		for behindDeliverySchedule(&o, due) {
			updated, settled, err := a.orders.AdvanceFor(o.UserID, o.ID)
			if err != nil {
				zap.S().Warnf("delivery sweep advance failed for %s: %v", o.ID, err)
				break
			}
			o = *updated
			if settled {
				break
			}
		}
	}
}

// dueStatusIndex maps elapsed time to the status an order's items should
// have reached: the delivery window is split evenly between the three
// forward transitions.
func dueStatusIndex(o *domain.Order, now time.Time) int {
	window := deliveryWindow(o)
	if window <= 0 {
		return domain.StatusDelivered
	}
	elapsed := now.Sub(o.CreatedAt)
	step := window / 3
	due := int(elapsed / step)
	if due > domain.StatusDelivered {
		due = domain.StatusDelivered
	}
	return due
}

func deliveryWindow(o *domain.Order) time.Duration {
	for i := range o.Items {
		if o.Items[i].ExpectedDelivery.After(o.CreatedAt) {
			return o.Items[i].ExpectedDelivery.Sub(o.CreatedAt)
		}
	}
	return 0
}

func behindDeliverySchedule(o *domain.Order, due int) bool {
	for i := range o.Items {
		si := o.Items[i].StatusIndex
		if si != domain.StatusTerminal && si < due {
			return true
		}
	}
	return false
}

// SchedNotificationPruneTask drops notifications older than the configured
// retention window from every principal's log. Retention is opt-in; with
// notify_retention_days unset the logs are kept whole.
func (a *Application) SchedNotificationPruneTask() {
	days := a.appConfig.Shop.NotifyRetentionDays
	if days <= 0 {
		return
	}
	retention := time.Duration(days) * 24 * time.Hour

	keys, err := a.store.Keys(kvstore.NotificationsPrefix())
	if err != nil {
		zap.S().Errorf("notification prune scan failed: %v", err)
		return
	}
	cutoff := time.Now().Add(-retention)
	for _, key := range keys {
		var list []domain.Notification
		if found, err := a.store.Get(key, &list); err != nil || !found {
			continue
		}
		kept := list[:0:0]
		for _, n := range list {
			if n.Timestamp.After(cutoff) {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(list) {
			continue
		}
		if err := a.store.Put(key, kept); err != nil {
			zap.S().Warnf("notification prune write failed for %s: %v", key, err)
		}
	}
}
