// Package broadcast defines the port for pushing change events to live
// dashboard connections.
package broadcast

import "context"

// Broadcaster fans an event out to connected clients. Implementations
// scope delivery by the organization carried in the payload, so one
// tenant's changes never reach another tenant's dashboards.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
