package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// ChangeEvent is the payload published on entity mutations. The websocket
// hub relays it to connected dashboards.
type ChangeEvent struct {
	Entity         string    `json:"entity"`
	Action         string    `json:"action"`
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// publishChange emits a change event on the queue. Delivery is best-effort;
// a publish failure never fails the mutation that triggered it.
func publishChange(ctx context.Context, q messagequeue.Queue, subject, entity, action, id, orgID string) {
	if q == nil {
		return
	}

	ev := ChangeEvent{
		Entity:         entity,
		Action:         action,
		ID:             id,
		OrganizationID: orgID,
		OccurredAt:     time.Now(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("marshal change event", "entity", entity, "id", id, "error", err)
		return
	}

	if err := q.Publish(ctx, subject, data); err != nil {
		slog.Warn("publish change event", "subject", subject, "id", id, "error", err)
	}
}
