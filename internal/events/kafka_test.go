package events

import (
	"context"
	"errors"
	"testing"
)

func TestProducer_PublishCancelledContext(t *testing.T) {
	// nothing reaches the client once the request is gone
	p := &Producer{topic: "session-events"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, Event{ID: "e1", Type: SessionStarted})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
