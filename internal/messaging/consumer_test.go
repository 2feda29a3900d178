package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hannas-kitchen/internal/logger"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(multiple, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestProcessDelivery(t *testing.T) {
	c := NewConsumer(nil, logger.Discard(), NotificationsQueue, "test", 1)

	tests := []struct {
		name       string
		handlerErr error
		wantAck     bool
		wantRequeue bool
	}{
		{"success acks", nil, true, false},
		{"failure requeues", errors.New("database down"), false, true},
		{"poison is dropped", fmt.Errorf("parse: %w", ErrPoison), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			var got []byte
			c.processDelivery(context.Background(), []byte(`{"order_id":"1"}`), 7, ack, func(ctx context.Context, body []byte) error {
				got = body
				return tt.handlerErr
			})

			if string(got) != `{"order_id":"1"}` {
				t.Errorf("handler got %q", got)
			}
			if ack.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", ack.acked, tt.wantAck)
			}
			if !tt.wantAck && (!ack.nacked || ack.requeued != tt.wantRequeue) {
				t.Errorf("expected nack with requeue=%v, got %+v", tt.wantRequeue, ack)
			}
		})
	}
}
