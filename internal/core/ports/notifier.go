package ports

import (
	"context"
	"time"
)

// Event types published by the core. Delivery is fire-and-forget; the core
// never depends on it succeeding.
const (
	EventReleaseLive           = "release.live"
	EventReleaseTransitioned   = "release.transitioned"
	EventPayoutCompleted       = "payout.completed"
	EventPayoutFailed          = "payout.failed"
	EventChangeRequestResolved = "change_request.resolved"
)

// Event is a state-change notification for external collaborators.
type Event struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entityID"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Notifier publishes events to the notification collaborator. Publish must
// not block meaningfully and must swallow delivery errors after logging
// them.
type Notifier interface {
	Publish(ctx context.Context, event Event)
}
