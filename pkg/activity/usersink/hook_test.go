package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-devinfo/pkg/activity"
	"github.com/goliatone/go-devinfo/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsReportEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()
	reportID := uuid.New().String()

	event := activity.BuildReportRefreshedEvent(activity.ReportEventInput{
		ReportID:   reportID,
		ActorID:    actorID.String(),
		TenantID:   tenantID.String(),
		Channel:    "devinfo",
		Changed:    map[string]string{"ram": "12 GB"},
		OccurredAt: now,
	})
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected ids: actor %s tenant %s", record.ActorID, record.TenantID)
	}
	if record.Verb != activity.VerbReportRefreshed || record.ObjectType != activity.ObjectTypeDeviceReport || record.ObjectID != reportID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "devinfo" {
		t.Fatalf("expected channel devinfo got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if _, ok := record.Data["changed"]; !ok {
		t.Fatalf("expected changed metadata passthrough, got %v", record.Data)
	}
}

func TestHookNotifyKeepsNonUUIDActorInData(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbReportRefreshed,
		ActorID:    "pixel-8",
		ObjectType: activity.ObjectTypeDeviceReport,
		ObjectID:   "1",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.ActorID != uuid.Nil {
		t.Fatalf("expected nil actor uuid, got %s", record.ActorID)
	}
	if record.Data["actor"] != "pixel-8" {
		t.Fatalf("expected raw actor in data, got %v", record.Data)
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyDefaultsTimestampAndPropagatesErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("store down")}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbReportRefreshed,
		ObjectType: activity.ObjectTypeDeviceReport,
		ObjectID:   "1",
	})
	if err == nil {
		t.Fatalf("expected sink error")
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestNilSinkIsNoop(t *testing.T) {
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: "v", ObjectType: "t", ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
