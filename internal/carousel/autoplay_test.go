package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"

	"headlesskit/internal/binding"
)

const interval = 100 * time.Millisecond

func autoplayOpts(n int, loop bool) func(*Options) {
	return func(o *Options) {
		o.NumSlides = n
		o.Loop = loop
		o.AutoPlayIntervalMs = int(interval / time.Millisecond)
	}
}

func advance(clock *clockz.FakeClock) {
	clock.Advance(interval)
	clock.BlockUntilReady()
}

func waitIndex(t *testing.T, c *State, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Index() == want }, time.Second, 5*time.Millisecond,
		"index never reached %d (at %d)", want, c.Index())
}

func TestAutoplayAdvancesEachInterval(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 3, autoplayOpts(3, false), WithClock(clock))

	require.NoError(t, c.StartAutoplay())
	assert.True(t, c.Playing())
	assert.Equal(t, "off", c.LiveRegion())

	advance(clock)
	waitIndex(t, c, 1)
	advance(clock)
	waitIndex(t, c, 2)

	// Rejected at the last slide: autoplay switches itself off.
	advance(clock)
	require.Eventually(t, func() bool { return !c.Playing() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, "polite", c.LiveRegion())
}

func TestAutoplayWrapsWhenLooping(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 2, autoplayOpts(2, true), WithClock(clock))

	require.NoError(t, c.StartAutoplay())
	advance(clock)
	waitIndex(t, c, 1)
	advance(clock)
	waitIndex(t, c, 0)
	assert.True(t, c.Playing())
}

func TestAutoplayKeepsTickingUntilLastSlide(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 2, autoplayOpts(2, false), WithClock(clock))

	require.NoError(t, c.StartAutoplay())
	advance(clock)
	waitIndex(t, c, 1)

	advance(clock)
	require.Eventually(t, func() bool { return !c.Playing() }, time.Second, 5*time.Millisecond,
		"autoplay should stop once the last slide rejects next")

	for i := 0; i < 3; i++ {
		advance(clock)
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, c.Index())
	assert.False(t, c.Playing())
}

func TestStartAutoplayIsIdempotent(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 5, autoplayOpts(5, false), WithClock(clock))

	require.NoError(t, c.StartAutoplay())
	require.NoError(t, c.StartAutoplay())

	advance(clock)
	waitIndex(t, c, 1)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, c.Index(), "a second timer must not have been started")
}

func TestStopAutoplayCancelsTimer(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 5, autoplayOpts(5, false), WithClock(clock))

	require.NoError(t, c.StartAutoplay())
	require.NoError(t, c.StopAutoplay())
	assert.False(t, c.Playing())

	for i := 0; i < 3; i++ {
		advance(clock)
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, c.Index())
}

func TestCloseCancelsTimer(t *testing.T) {
	clock := clockz.NewFakeClock()
	opts := DefaultOptions()
	autoplayOpts(5, false)(&opts)
	opts.Autoplay = true
	c, err := New(opts, WithClock(clock))
	require.NoError(t, err)
	assert.True(t, c.Playing())

	c.Close()
	advance(clock)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, c.Index())
}

func TestToggleAutoplay(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 5, autoplayOpts(5, false), WithClock(clock))

	require.NoError(t, c.ToggleAutoplay())
	assert.True(t, c.Playing())
	require.NoError(t, c.ToggleAutoplay())
	assert.False(t, c.Playing())
}

func TestZeroIntervalSetsFlagWithoutTimer(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 5, nil, WithClock(clock))

	require.NoError(t, c.StartAutoplay())
	assert.True(t, c.Playing())
	clock.Advance(time.Hour)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, c.Index())
}

func TestBoundAutoplayCell(t *testing.T) {
	clock := clockz.NewFakeClock()
	playing := binding.NewValue(false)
	c := newCarousel(t, 5, autoplayOpts(5, false), WithClock(clock), WithAutoplay(playing))

	playing.Set(true)
	assert.True(t, c.Playing())
	advance(clock)
	waitIndex(t, c, 1)

	require.NoError(t, c.StopAutoplay())
	assert.False(t, playing.Get())
}

func TestChangingIntervalRestartsTimer(t *testing.T) {
	clock := clockz.NewFakeClock()
	c := newCarousel(t, 5, autoplayOpts(5, false), WithClock(clock))
	require.NoError(t, c.StartAutoplay())

	l := c.Layout()
	l.AutoPlayIntervalMs = 300
	require.NoError(t, c.SetLayout(l))

	advance(clock)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, c.Index())

	clock.Advance(200 * time.Millisecond)
	clock.BlockUntilReady()
	waitIndex(t, c, 1)
}
