// Package usersink forwards device report events to a go-users activity
// sink.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-devinfo/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a usertypes.ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps event onto an ActivityRecord. Actor and tenant ids that are not
// UUIDs are kept in the record data instead.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := activity.CloneMetadata(normalized.Metadata)
	actorID, ok := parseUUID(normalized.ActorID)
	if !ok && normalized.ActorID != "" {
		data = withData(data, "actor", normalized.ActorID)
	}
	tenantID, ok := parseUUID(normalized.TenantID)
	if !ok && normalized.TenantID != "" {
		data = withData(data, "tenant", normalized.TenantID)
	}

	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    actorID,
		TenantID:   tenantID,
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       data,
		OccurredAt: normalized.OccurredAt,
	})
}

func parseUUID(input string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func withData(data map[string]any, key string, value any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data[key] = value
	return data
}
