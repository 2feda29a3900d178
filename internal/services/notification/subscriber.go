package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/messaging"
	"hannas-kitchen/internal/models"
)

// Subscriber prints a console notice for every order placed through the API
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
	out      io.Writer

	done chan error
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		out:      os.Stdout,
		done:     make(chan error, 1),
	}
}

// Start consumes until ctx is cancelled or the consumer stops.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, map[string]interface{}{
		"queue": messaging.NotificationsQueue,
	})

	go func() {
		s.done <- s.consumer.StartConsuming(ctx, s.handleNotification)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("graceful_shutdown", "Stopping notification subscriber", requestID, nil)
		return s.consumer.Close()
	case err := <-s.done:
		if err != nil {
			s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		}
		return err
	}
}

func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.OrderPlacedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return fmt.Errorf("failed to parse notification: %w: %w", messaging.ErrPoison, err)
	}

	s.logger.Debug("notification_received", "Received order notification", requestID, map[string]interface{}{
		"order_id":     msg.OrderID,
		"total_amount": msg.TotalAmount,
	})

	fmt.Fprintln(s.out, formatNotification(&msg))

	s.logger.Info("notification_displayed", "Notification displayed", requestID, map[string]interface{}{
		"order_id": msg.OrderID,
		"items":    len(msg.Items),
	})
	return nil
}

func formatNotification(msg *models.OrderPlacedMessage) string {
	timestamp := msg.PlacedAt.Local().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("🧁 [%s] %s", timestamp, msg.Summary())
}
