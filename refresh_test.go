package devinfo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-devinfo/pkg/activity"
)

func TestRefresherEmitsOnlyWhenContentChanges(t *testing.T) {
	device := Profile{Name: "husky", BatteryCapacity: 4900}
	layered, err := LayerProfiles(NewLayer(DeviceScope(), device, "husky.yaml"))
	if err != nil {
		t.Fatalf("layer: %v", err)
	}
	capture := &activity.CaptureHook{}
	reporter, err := NewLayeredReporter(mapStore(risingProps), layered, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("reporter: %v", err)
	}

	calls := 0
	measurer := MeasureFunc(func(context.Context) (Measurements, error) {
		calls++
		m := pixelMeasurements()
		if calls >= 3 {
			m.BatteryCapacity = 5000
		}
		return m, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var reports []Report
	sink := func(r Report) {
		reports = append(reports, r)
		if len(reports) == 3 {
			cancel()
		}
	}

	refresher := NewRefresher(reporter, measurer, sink,
		WithRefreshInterval(time.Millisecond),
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityChannel("settings"),
	)
	if err := refresher.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected three reports, got %d", len(reports))
	}

	events := capture.Events()
	var layers, refreshed []activity.Event
	for _, e := range events {
		switch e.Verb {
		case activity.VerbProfileLayered:
			layers = append(layers, e)
		case activity.VerbReportRefreshed:
			refreshed = append(refreshed, e)
		}
		if e.Channel != "settings" {
			t.Fatalf("expected settings channel, got %q", e.Channel)
		}
	}
	if len(layers) != 2 || layers[0].ObjectID != "husky.yaml" || layers[1].ObjectID != "builtin" {
		t.Fatalf("unexpected layer events %+v", layers)
	}
	if len(refreshed) != 2 {
		t.Fatalf("expected initial and changed events, got %d", len(refreshed))
	}
	if refreshed[0].ObjectID != reports[0].ID.String() || refreshed[1].ObjectID != reports[2].ID.String() {
		t.Fatalf("events do not match reports")
	}
	changed, _ := refreshed[1].Metadata["changed_fields"].([]string)
	if len(changed) != 1 || changed[0] != "battery" {
		t.Fatalf("expected battery change, got %v", refreshed[1].Metadata["changed_fields"])
	}
	if refreshed[1].Metadata["profile"] != "husky" {
		t.Fatalf("expected profile metadata, got %v", refreshed[1].Metadata)
	}
}

func TestRefresherSkipsFailedMeasurements(t *testing.T) {
	reporter := newTestReporter(t, risingProps, DefaultProfile())
	calls := 0
	measurer := MeasureFunc(func(context.Context) (Measurements, error) {
		calls++
		if calls == 1 {
			return Measurements{}, errors.New("sensor warming up")
		}
		return pixelMeasurements(), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got []Report
	refresher := NewRefresher(reporter, measurer, func(r Report) {
		got = append(got, r)
		cancel()
	}, WithRefreshInterval(time.Millisecond))

	if err := refresher.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 2 || len(got) != 1 {
		t.Fatalf("expected one report after a failed measurement, got calls=%d reports=%d", calls, len(got))
	}
}

func TestRefresherDefaults(t *testing.T) {
	r := NewRefresher(nil, nil, nil)
	if r.Interval() != DefaultRefreshInterval {
		t.Fatalf("expected default interval, got %v", r.Interval())
	}
	if err := r.Run(context.Background()); err == nil {
		t.Fatalf("expected error without reporter")
	}
}
