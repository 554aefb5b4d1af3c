package devinfo

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-devinfo/pkg/activity"
	"github.com/hashicorp/go-hclog"
)

// Sink receives every report a Refresher collects.
type Sink func(Report)

// Refresher re-collects a report on a fixed interval, the way a live
// settings panel polls its values.
type Refresher struct {
	reporter *Reporter
	measurer Measurer
	sink     Sink
	interval time.Duration
	emitter  *activity.Emitter
	logger   hclog.Logger
}

// NewRefresher builds a Refresher. Honoured options are WithRefreshInterval,
// WithLogger, WithActivityHooks and WithActivityChannel.
func NewRefresher(reporter *Reporter, measurer Measurer, sink Sink, opts ...Option) *Refresher {
	cfg := applyOptions(opts)
	interval := cfg.interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		reporter: reporter,
		measurer: measurer,
		sink:     sink,
		interval: interval,
		emitter:  cfg.emitter(),
		logger:   cfg.log().Named("refresher"),
	}
}

// Interval returns the poll period.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Run collects immediately and then on every tick until ctx is done, and
// returns ctx.Err(). Failed collections are logged and skipped. Activity
// hooks are told about every report whose content differs from the last.
func (r *Refresher) Run(ctx context.Context) error {
	if r.reporter == nil {
		return errors.New("devinfo: refresher has no reporter")
	}
	r.announceLayers(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var last *Report
	for {
		if report, ok := r.refresh(ctx); ok {
			if last == nil || last.Fingerprint() != report.Fingerprint() {
				r.notify(ctx, report, last)
			}
			last = &report
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) (Report, bool) {
	report, err := r.reporter.CollectFrom(ctx, r.measurer)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("refresh failed", "error", err)
		}
		return Report{}, false
	}
	if r.sink != nil {
		r.sink(report)
	}
	return report, true
}

func (r *Refresher) notify(ctx context.Context, report Report, prev *Report) {
	var changed map[string]string
	if prev != nil {
		changed = report.Changed(*prev)
	} else {
		changed = report.Changed(Report{})
	}
	r.logger.Debug("report changed", "report_id", report.ID, "fields", len(changed))
	event := activity.BuildReportRefreshedEvent(activity.ReportEventInput{
		ReportID:    report.ID.String(),
		Profile:     report.Profile,
		Changed:     changed,
		Fingerprint: report.Fingerprint(),
		OccurredAt:  report.CollectedAt,
	})
	if err := r.emitter.Emit(ctx, event); err != nil {
		r.logger.Warn("activity hook failed", "error", err)
	}
}

func (r *Refresher) announceLayers(ctx context.Context) {
	if !r.emitter.Enabled() {
		return
	}
	for _, layer := range r.reporter.layers {
		event := activity.BuildProfileLayeredEvent(activity.LayerEventInput{
			Profile:  r.reporter.profile.Name,
			Scope:    layer.Scope.Name,
			Priority: layer.Scope.Priority,
			Origin:   layer.Origin,
		})
		if err := r.emitter.Emit(ctx, event); err != nil {
			r.logger.Warn("activity hook failed", "error", err)
		}
	}
}
