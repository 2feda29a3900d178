// Package notify tells the kitchen about new orders over the configured channels.
package notify

import (
	"context"
	"errors"
	"fmt"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
)

type Notifier interface {
	Name() string
	NotifyOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error
}

// Fanout delivers each message to every notifier. One failing notifier does
// not stop the others.
type Fanout struct {
	notifiers []Notifier
	logger    *logger.Logger
}

func NewFanout(log *logger.Logger, notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers, logger: log}
}

// Add registers another notifier.
func (f *Fanout) Add(n Notifier) {
	f.notifiers = append(f.notifiers, n)
}

func (f *Fanout) Name() string {
	return "fanout"
}

func (f *Fanout) NotifyOrderPlaced(ctx context.Context, msg *models.OrderPlacedMessage) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.NotifyOrderPlaced(ctx, msg); err != nil {
			f.logger.Error("notification_failed", fmt.Sprintf("Notifier %s failed", n.Name()), "", err, map[string]interface{}{
				"order_id": msg.OrderID,
				"notifier": n.Name(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
