package provider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

type countingProvider struct {
	provider.Conditional
	name  string
	ttl   time.Duration
	calls int
	err   error
	asErr bool
}

func (p *countingProvider) Name() string                 { return p.name }
func (p *countingProvider) CacheDuration() time.Duration { return p.ttl }

func (p *countingProvider) Fetch(ctx context.Context) (*provider.DisplayData, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.asErr {
		return provider.ErrorData(time.Now(), provider.TypeWeather, "down", errors.New("boom"), 30*time.Second), nil
	}
	return &provider.DisplayData{
		Timestamp: time.Now(),
		Content:   provider.NewTimeContent(time.Now()),
	}, nil
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func TestCached_ReturnsSameValueWhileLive(t *testing.T) {
	clock := newClock()
	p := &countingProvider{name: "time", ttl: 30 * time.Second}
	c := provider.NewCached(p, clock.Now)

	first, err := c.GetData(context.Background(), false)
	require.NoError(t, err)

	clock.Advance(29 * time.Second)
	second, err := c.GetData(context.Background(), false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, p.calls)
}

func TestCached_RefetchesAfterExpiry(t *testing.T) {
	clock := newClock()
	p := &countingProvider{name: "time", ttl: 30 * time.Second}
	c := provider.NewCached(p, clock.Now)

	first, err := c.GetData(context.Background(), false)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	second, err := c.GetData(context.Background(), false)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, p.calls)
}

func TestCached_ForceRefreshAlwaysFetches(t *testing.T) {
	clock := newClock()
	p := &countingProvider{name: "time", ttl: time.Hour}
	c := provider.NewCached(p, clock.Now)

	first, err := c.GetData(context.Background(), false)
	require.NoError(t, err)
	forced, err := c.GetData(context.Background(), true)
	require.NoError(t, err)

	assert.NotSame(t, first, forced)
	assert.Equal(t, 2, p.calls)

	// the forced result replaces the entry
	again, err := c.GetData(context.Background(), false)
	require.NoError(t, err)
	assert.Same(t, forced, again)
	assert.Equal(t, 2, p.calls)
}

func TestCached_ZeroDurationNeverCaches(t *testing.T) {
	p := &countingProvider{name: "image"}
	c := provider.NewCached(p, newClock().Now)

	for i := 0; i < 3; i++ {
		_, err := c.GetData(context.Background(), false)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, p.calls)
}

func TestCached_FetchErrorIsReturnedAndNotCached(t *testing.T) {
	clock := newClock()
	p := &countingProvider{name: "weather", ttl: time.Minute, err: provider.ErrSource}
	c := provider.NewCached(p, clock.Now)

	_, err := c.GetData(context.Background(), false)
	require.ErrorIs(t, err, provider.ErrSource)
	assert.Equal(t, 1, p.calls, "no retry inside the cache layer")

	p.err = nil
	data, err := c.GetData(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Equal(t, 2, p.calls)
}

func TestCached_ErrorPayloadNotCached(t *testing.T) {
	p := &countingProvider{name: "weather", ttl: time.Minute, asErr: true}
	c := provider.NewCached(p, newClock().Now)

	data, err := c.GetData(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, provider.IsError(data))
	assert.Equal(t, 30*time.Second, data.Metadata.SuggestedDisplayDuration)

	_, err = c.GetData(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestCached_ClearCache(t *testing.T) {
	p := &countingProvider{name: "time", ttl: time.Hour}
	c := provider.NewCached(p, newClock().Now)

	_, err := c.GetData(context.Background(), false)
	require.NoError(t, err)
	c.ClearCache()
	_, err = c.GetData(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, p.calls)
}

func TestConditional_ShouldRun(t *testing.T) {
	always := &countingProvider{name: "time"}
	assert.True(t, always.ShouldRun(time.Now()))

	december := &countingProvider{
		name:        "image",
		Conditional: provider.Conditional{Conditions: conditions.NewEvaluator(conditions.ConditionSet{Months: []int{12}})},
	}
	c := provider.NewCached(december, nil)
	assert.True(t, c.ShouldRun(time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.ShouldRun(time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC)))
}

func TestSet(t *testing.T) {
	set := provider.NewSet()
	a := &countingProvider{name: "time", ttl: time.Hour}
	b := &countingProvider{name: "weather", ttl: time.Hour}
	set.Add(a, nil)
	set.Add(b, nil)

	assert.Equal(t, []string{"time", "weather"}, set.Names())
	assert.Equal(t, 2, set.Len())

	c, ok := set.Get("weather")
	require.True(t, ok)
	_, err := c.GetData(context.Background(), false)
	require.NoError(t, err)

	set.ClearAll()
	_, err = c.GetData(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, b.calls)

	_, ok = set.Get("missing")
	assert.False(t, ok)
}

func TestNewTimeContent(t *testing.T) {
	tc := provider.NewTimeContent(time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC))
	assert.Equal(t, "02:05 PM", tc.Time12h)
	assert.Equal(t, "14:05", tc.Time24h)
	assert.Equal(t, "2024-03-09", tc.Date)
	assert.Equal(t, "03/09", tc.DateShort)
	assert.Equal(t, "03/09/2024", tc.DateUS)
	assert.Equal(t, "Saturday", tc.DayOfWeek)
	assert.Equal(t, "Sat", tc.DayOfWeekShort)
	assert.Equal(t, provider.TypeTime, tc.Type())
}
