package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mscandco/distribution_backend/internal/core/ports"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// NATSNotifier publishes lifecycle and payout events to NATS subjects of the
// form distribution.<event type>. Delivery is fire-and-forget: a failed
// publish is logged and dropped, never surfaced to the caller.
type NATSNotifier struct {
	nc *nats.Conn
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url string) (*NATSNotifier, error) {
	opts := []nats.Option{
		nats.Name("distribution-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				slog.Warn("disconnected from NATS", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("reconnected to NATS", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &NATSNotifier{nc: nc}, nil
}

var _ ports.Notifier = (*NATSNotifier)(nil)

func (n *NATSNotifier) Publish(ctx context.Context, event ports.Event) {
	logger := middleware.GetLoggerFromCtx(ctx)

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return
	}

	subject := "distribution." + event.Type
	if err := n.nc.Publish(subject, data); err != nil {
		logger.Error("failed to publish event",
			slog.String("subject", subject),
			slog.String("entity_id", event.EntityID),
			slog.String("error", err.Error()))
		return
	}

	logger.Debug("event published",
		slog.String("subject", subject),
		slog.String("entity_id", event.EntityID))
}

// Close drains the connection, flushing buffered publishes.
func (n *NATSNotifier) Close() {
	if err := n.nc.Drain(); err != nil {
		slog.Warn("failed to drain NATS connection", slog.String("error", err.Error()))
	}
}

// LogNotifier is the fallback used when no NATS URL is configured. Events
// are written to the log and otherwise dropped.
type LogNotifier struct{}

var _ ports.Notifier = LogNotifier{}

func (LogNotifier) Publish(ctx context.Context, event ports.Event) {
	middleware.GetLoggerFromCtx(ctx).Info("event",
		slog.String("event_type", event.Type),
		slog.String("entity_id", event.EntityID),
		slog.Time("occurred_at", event.OccurredAt))
}
