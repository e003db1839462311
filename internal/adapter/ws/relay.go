package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/croftlabs/verdant/internal/port/broadcast"
	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// relaySubjects are the queue subjects fanned out to connected clients.
var relaySubjects = []string{"plants.>", "plots.>", "tenants.>"}

// orgEnvelope extracts the tenant from a change event payload without
// coupling the hub to the producer's full event type.
type orgEnvelope struct {
	OrganizationID string `json:"organization_id"`
}

// Relay subscribes the broadcaster to all change-event subjects on the
// queue and forwards each event to it. The returned stop function cancels
// every subscription.
func Relay(ctx context.Context, q messagequeue.Queue, b broadcast.Broadcaster) (func(), error) {
	var cancels []func()
	stop := func() {
		for _, c := range cancels {
			c()
		}
	}

	for _, subject := range relaySubjects {
		cancel, err := q.Subscribe(ctx, subject, func(ctx context.Context, subject string, data []byte) error {
			return relayMessage(ctx, b, subject, data)
		})
		if err != nil {
			stop()
			return nil, err
		}
		cancels = append(cancels, cancel)
	}

	slog.Info("websocket relay started", "subjects", relaySubjects)
	return stop, nil
}

func relayMessage(ctx context.Context, b broadcast.Broadcaster, subject string, data []byte) error {
	if !json.Valid(data) {
		// Malformed event; ack it, a retry cannot fix the payload.
		slog.Warn("drop malformed change event", "subject", subject)
		return nil
	}

	b.BroadcastEvent(ctx, subject, json.RawMessage(data))
	return nil
}

// BroadcastEvent marshals a typed payload and sends it to the payload's
// organization, satisfying the broadcast port.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	var env orgEnvelope
	_ = json.Unmarshal(data, &env)

	h.BroadcastToOrganization(ctx, env.OrganizationID, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
