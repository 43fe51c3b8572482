package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultDigestSpec fires every morning at eight.
const DefaultDigestSpec = "0 8 * * *"

// Source returns the current reminder entries.
type Source func() []Entry

// Notify receives the entries due on a given day.
type Notify func(day string, entries []Entry)

// Digest delivers the reminders for today's weekday bucket on a cron
// schedule. Day buckets are matched by weekday name, so "saturday" is due on
// Saturdays; other bucket names never fire.
type Digest struct {
	log    *slog.Logger
	source Source
	notify Notify
	loc    *time.Location

	parser   cron.Parser
	schedule cron.Schedule
	spec     string

	mu sync.Mutex
	c  *cron.Cron
}

// NewDigest parses spec as a standard five-field cron expression or a
// descriptor such as "@daily".
func NewDigest(spec string, source Source, notify Notify, log *slog.Logger) (*Digest, error) {
	if log == nil {
		log = slog.Default()
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = DefaultDigestSpec
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing digest schedule %q: %w", spec, err)
	}
	return &Digest{
		log:      log,
		source:   source,
		notify:   notify,
		loc:      time.Local,
		parser:   parser,
		schedule: sched,
		spec:     spec,
	}, nil
}

// Spec returns the normalized cron expression.
func (d *Digest) Spec() string { return d.spec }

// Next returns the first firing time after t.
func (d *Digest) Next(t time.Time) time.Time {
	return d.schedule.Next(t)
}

// Due returns the entries for the weekday of t, ordered by time.
func Due(entries []Entry, t time.Time) []Entry {
	weekday := t.Weekday().String()
	var out []Entry
	for _, e := range entries {
		if strings.EqualFold(e.Day, weekday) {
			out = append(out, e)
		}
	}
	return out
}

// RunAt delivers the digest for the weekday of t and returns what was sent.
// Nothing is delivered when no entries are due.
func (d *Digest) RunAt(t time.Time) []Entry {
	due := Due(d.source(), t)
	day := strings.ToLower(t.Weekday().String())
	if len(due) == 0 {
		d.log.Debug("reminder digest empty", slog.String("day", day))
		return nil
	}
	d.notify(day, due)
	d.log.Info("reminder digest sent", slog.String("day", day), slog.Int("count", len(due)))
	return due
}

// Start begins firing on the schedule until Stop is called or ctx is done.
func (d *Digest) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.c != nil {
		return
	}
	d.c = cron.New(cron.WithParser(d.parser), cron.WithLocation(d.loc))
	d.c.Schedule(d.schedule, cron.FuncJob(func() {
		d.RunAt(time.Now().In(d.loc))
	}))
	d.c.Start()
	d.log.Info("reminder digest started", slog.String("spec", d.spec))

	go func() {
		<-ctx.Done()
		d.Stop()
	}()
}

// Stop halts the schedule and waits for a running digest to finish.
func (d *Digest) Stop() {
	d.mu.Lock()
	c := d.c
	d.c = nil
	d.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
