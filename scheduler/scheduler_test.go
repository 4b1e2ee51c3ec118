package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/display"
	"github.com/theoremus-urban-solutions/trixhub/provider"
	"github.com/theoremus-urban-solutions/trixhub/scheduler"
)

type stubProvider struct {
	name      string
	suggested time.Duration
	err       error
	gate      func(time.Time) bool
	panics    bool
	content   provider.Content
	fetches   int
}

func (p *stubProvider) Name() string                 { return p.name }
func (p *stubProvider) CacheDuration() time.Duration { return 0 }

func (p *stubProvider) ShouldRun(now time.Time) bool {
	return p.gate == nil || p.gate(now)
}

func (p *stubProvider) Fetch(context.Context) (*provider.DisplayData, error) {
	p.fetches++
	if p.panics {
		panic("fetch blew up")
	}
	if p.err != nil {
		return nil, p.err
	}
	var content provider.Content = provider.ErrorContent{Message: p.name}
	if p.content != nil {
		content = p.content
	}
	return &provider.DisplayData{
		Content:  content,
		Metadata: provider.Metadata{SuggestedDisplayDuration: p.suggested},
	}, nil
}

// nameRenderer puts the provider name in the frame body.
type nameRenderer struct{}

func (nameRenderer) Render(data *provider.DisplayData) (display.Frame, error) {
	return display.Frame{Body: []byte(data.Content.(provider.ErrorContent).Message)}, nil
}

type recordingClient struct {
	posts  []string
	clears int
}

func (c *recordingClient) Post(_ context.Context, f display.Frame) bool {
	c.posts = append(c.posts, string(f.Body))
	return true
}

func (c *recordingClient) Clear(context.Context) bool {
	c.clears++
	return true
}

// harness drives a scheduler on a fake clock that advances with every sleep.
type harness struct {
	now    time.Time
	sleeps []time.Duration
	client *recordingClient
	set    *provider.Set
	stop   func(h *harness) bool
	sched  scheduler.Scheduler
}

func newHarness(start time.Time, providers ...provider.Provider) *harness {
	h := &harness{now: start, client: &recordingClient{}, set: provider.NewSet()}
	for _, p := range providers {
		h.set.Add(p, h.clock)
	}
	return h
}

func (h *harness) clock() time.Time { return h.now }

func (h *harness) deps() scheduler.Deps {
	return scheduler.Deps{
		Providers: h.set,
		Renderer:  nameRenderer{},
		Client:    h.client,
		Now:       h.clock,
		Sleep: func(_ context.Context, d time.Duration) {
			h.sleeps = append(h.sleeps, d)
			h.now = h.now.Add(d)
			if h.stop(h) {
				h.sched.Shutdown()
			}
		},
		Logger: zerolog.Nop(),
	}
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- h.sched.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func (h *harness) slept() time.Duration {
	var total time.Duration
	for _, d := range h.sleeps {
		total += d
	}
	return total
}

var monday = time.Date(2024, 6, 17, 12, 0, 0, 0, time.UTC)

func TestRotation_DurationResolution(t *testing.T) {
	a := &stubProvider{name: "a", suggested: 20 * time.Second}
	b := &stubProvider{name: "b", suggested: 20 * time.Second}
	c := &stubProvider{name: "c"}
	h := newHarness(monday, a, b, c)
	h.stop = func(h *harness) bool { return h.slept() >= 60*time.Second }

	entries := []config.RotationEntry{{Name: "a", Duration: 10}, {Name: "b"}, {Name: "c"}}
	h.sched = scheduler.NewRotation(entries, h.deps())
	h.run(t)

	assert.Equal(t, []string{"a", "b", "c"}, h.client.posts)
	// 10s override + 20s suggested + 30s default
	assert.Equal(t, 60*time.Second, h.slept())
	for _, d := range h.sleeps {
		assert.LessOrEqual(t, d, time.Second)
	}
	stats := h.sched.Stats()
	assert.Equal(t, 3, stats.Displays)
	assert.Zero(t, stats.Failures)
}

func TestRotation_FailingProviderNeverStopsLoop(t *testing.T) {
	bad := &stubProvider{name: "bad", err: errors.New("boom")}
	h := newHarness(monday, bad)
	h.stop = func(h *harness) bool { return h.slept() >= 20*time.Second }

	h.sched = scheduler.NewRotation([]config.RotationEntry{{Name: "bad"}}, h.deps())
	h.run(t)

	stats := h.sched.Stats()
	assert.Equal(t, 10, stats.Cycles)
	assert.Equal(t, 10, stats.Failures)
	assert.Equal(t, 10, bad.fetches)
	assert.Empty(t, h.client.posts)
	// 2s backoff per failure
	assert.Equal(t, 20*time.Second, h.slept())
}

func TestRotation_PanicsCountAsFailures(t *testing.T) {
	fetchPanic := &stubProvider{name: "fetch", panics: true}
	// nameRenderer only handles ErrorContent
	renderPanic := &stubProvider{name: "render", content: provider.TimeContent{}}
	ok := &stubProvider{name: "ok", suggested: 5 * time.Second}
	h := newHarness(monday, fetchPanic, renderPanic, ok)
	h.stop = func(h *harness) bool { return len(h.client.posts) >= 2 }

	entries := []config.RotationEntry{{Name: "fetch"}, {Name: "render"}, {Name: "ok"}}
	h.sched = scheduler.NewRotation(entries, h.deps())
	h.run(t)

	assert.Equal(t, []string{"ok", "ok"}, h.client.posts)
	stats := h.sched.Stats()
	assert.Equal(t, 4, stats.Failures)
	assert.Equal(t, 2, stats.Displays)
	assert.Equal(t, 2, fetchPanic.fetches)
	assert.Equal(t, 2, renderPanic.fetches)
}

func TestRotation_SkipsUnknownAndGatedEntries(t *testing.T) {
	weekend := &stubProvider{name: "weekend", gate: func(now time.Time) bool {
		return now.Weekday() == time.Saturday || now.Weekday() == time.Sunday
	}}
	clock := &stubProvider{name: "clock", suggested: 5 * time.Second}
	h := newHarness(monday, weekend, clock)
	h.stop = func(h *harness) bool { return len(h.client.posts) >= 2 }

	entries := []config.RotationEntry{{Name: "missing"}, {Name: "weekend"}, {Name: "clock"}}
	h.sched = scheduler.NewRotation(entries, h.deps())
	h.run(t)

	assert.Equal(t, []string{"clock", "clock"}, h.client.posts)
	assert.Zero(t, weekend.fetches)
	assert.Equal(t, 4, h.sched.Stats().Skipped)
}

func TestRotation_NothingEligibleIdles(t *testing.T) {
	h := newHarness(monday)
	h.stop = func(h *harness) bool { return h.slept() >= 10*time.Second }

	h.sched = scheduler.NewRotation([]config.RotationEntry{{Name: "missing"}}, h.deps())
	h.run(t)

	assert.Equal(t, 2, h.sched.Stats().Cycles)
	assert.Len(t, h.sleeps, 10)
}

func TestRotation_ContextCancel(t *testing.T) {
	h := newHarness(monday, &stubProvider{name: "a"})
	ctx, cancel := context.WithCancel(context.Background())
	h.stop = func(*harness) bool {
		cancel()
		return false
	}
	h.sched = scheduler.NewRotation([]config.RotationEntry{{Name: "a"}}, h.deps())

	err := h.sched.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, h.sleeps, 1)
}

func at(hh, mm int) time.Time {
	return time.Date(2024, 6, 17, hh, mm, 0, 0, time.UTC)
}

func windowedConfig() []config.RotationWindow {
	return []config.RotationWindow{
		{Name: "night", TimeWindow: config.TimeWindow{Start: "21:00", End: "06:00"}, BlankScreen: true},
		{
			Name:       "workday",
			TimeWindow: config.TimeWindow{Start: "08:00", End: "17:00"},
			Conditions: &conditions.ConditionSet{DayOfWeek: []int{1, 2, 3, 4, 5}},
			Providers:  []config.RotationEntry{{Name: "bus"}},
		},
		{Name: "evening", TimeWindow: config.TimeWindow{Start: "20:00", End: "21:00"}, Providers: []config.RotationEntry{{Name: "time"}}},
		{Name: "broken", TimeWindow: config.TimeWindow{Start: "7am", End: "08:00"}, Providers: []config.RotationEntry{{Name: "time"}}},
	}
}

func TestWindowed_Active(t *testing.T) {
	s := scheduler.NewWindowed(windowedConfig(), nil, scheduler.Deps{Logger: zerolog.Nop()})

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"late night", at(23, 30), "night"},
		{"early morning", at(5, 0), "night"},
		{"start inclusive", at(21, 0), "night"},
		{"end exclusive", at(6, 0), "fallback"},
		{"weekday noon", at(12, 0), "workday"},
		{"saturday noon", at(12, 0).AddDate(0, 0, 5), "fallback"},
		{"broken window ignored", at(7, 30), "fallback"},
		{"evening", at(20, 30), "evening"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Active(tt.now))
		})
	}
}

func TestWindowed_SwitchesToBlankWindow(t *testing.T) {
	tp := &stubProvider{name: "time"}
	h := newHarness(time.Date(2024, 6, 17, 20, 59, 50, 0, time.UTC), tp)
	h.stop = func(h *harness) bool { return !h.now.Before(at(21, 1)) }

	h.sched = scheduler.NewWindowed(windowedConfig(), nil, h.deps())
	h.run(t)

	// the 30s default hold runs past 21:00; the loop then blanks once and idles
	assert.Equal(t, []string{"time"}, h.client.posts)
	assert.Equal(t, 1, h.client.clears)
	assert.Equal(t, 1, tp.fetches)
}

func TestWindowed_AbandonsRemainingEntriesOnSwitch(t *testing.T) {
	bus := &stubProvider{name: "bus", suggested: 10 * time.Second}
	other := &stubProvider{name: "other", suggested: 10 * time.Second}
	h := newHarness(at(16, 59), bus, other)
	h.stop = func(h *harness) bool { return !h.now.Before(at(17, 1)) }

	windows := []config.RotationWindow{
		{Name: "day", TimeWindow: config.TimeWindow{Start: "08:00", End: "17:00"}, Providers: []config.RotationEntry{
			{Name: "bus", Duration: 90}, {Name: "other"},
		}},
	}
	fallback := []config.RotationEntry{{Name: "other", Duration: 60}}
	h.sched = scheduler.NewWindowed(windows, fallback, h.deps())
	h.run(t)

	// bus held until 17:00:30, then "day" is over and "other" is shown from the fallback
	assert.Equal(t, []string{"bus", "other"}, h.client.posts)
	assert.Zero(t, h.client.clears)
}

func TestNew(t *testing.T) {
	deps := scheduler.Deps{Logger: zerolog.Nop()}

	s, err := scheduler.New(config.SchedulerConfig{Mode: config.ModeSimpleRotation}, deps)
	require.NoError(t, err)
	assert.IsType(t, &scheduler.Rotation{}, s)

	s, err = scheduler.New(config.SchedulerConfig{Mode: config.ModeTimeWindowedRotation}, deps)
	require.NoError(t, err)
	assert.IsType(t, &scheduler.Windowed{}, s)

	_, err = scheduler.New(config.SchedulerConfig{Mode: "shuffle"}, deps)
	assert.Error(t, err)
}
