package activity

import (
	"sort"
	"strings"
	"time"
)

// Verbs and object types emitted for device reports.
const (
	VerbReportRefreshed    = "devinfo.refreshed"
	VerbProfileLayered     = "devinfo.profile.layered"
	ObjectTypeDeviceReport = "device_report"
	ObjectTypeProfile      = "device_profile"
)

// ReportEventInput describes a report whose content changed.
type ReportEventInput struct {
	ReportID string
	ActorID  string
	TenantID string
	Channel  string
	Profile  string
	// Changed maps field name to its new value.
	Changed     map[string]string
	Fingerprint string
	Metadata    map[string]any
	OccurredAt  time.Time
}

// BuildReportRefreshedEvent builds the event emitted when a refreshed report
// differs from the previous one.
func BuildReportRefreshedEvent(input ReportEventInput) Event {
	metadata := CloneMetadata(input.Metadata)
	if input.Profile != "" {
		metadata = ensureMetadata(metadata)
		metadata["profile"] = input.Profile
	}
	if input.Fingerprint != "" {
		metadata = ensureMetadata(metadata)
		metadata["fingerprint"] = input.Fingerprint
	}
	if len(input.Changed) > 0 {
		metadata = ensureMetadata(metadata)
		names := make([]string, 0, len(input.Changed))
		values := make(map[string]any, len(input.Changed))
		for name, value := range input.Changed {
			names = append(names, name)
			values[name] = value
		}
		sort.Strings(names)
		metadata["changed_fields"] = names
		metadata["changed"] = values
	}
	return Event{
		Verb:       VerbReportRefreshed,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeDeviceReport,
		ObjectID:   strings.TrimSpace(input.ReportID),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// LayerEventInput describes one profile layer that took part in a merge.
type LayerEventInput struct {
	Profile  string
	Scope    string
	Priority int
	Origin   string
	Channel  string
}

// BuildProfileLayeredEvent builds the event emitted for each profile layer
// applied by a reporter. The object id falls back from origin to scope.
func BuildProfileLayeredEvent(input LayerEventInput) Event {
	metadata := map[string]any{
		"scope_name":     input.Scope,
		"scope_priority": input.Priority,
	}
	if input.Profile != "" {
		metadata["profile"] = input.Profile
	}
	objectID := strings.TrimSpace(input.Origin)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Scope)
	}
	return Event{
		Verb:       VerbProfileLayered,
		ObjectType: ObjectTypeProfile,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
