package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan SlideChangedEvent, 1)
	b.Subscribe(EventSlideChanged, func(e DomainEvent) {
		if ev, ok := e.(SlideChangedEvent); ok {
			got <- ev
		}
	})

	b.Publish(SlideChangedEvent{OldIndex: 0, NewIndex: 3})

	select {
	case ev := <-got:
		assert.Equal(t, 3, ev.NewIndex)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	unsub := b.Subscribe(EventOptionSelected, func(DomainEvent) { calls.Add(1) })
	kept := make(chan struct{}, 1)
	b.Subscribe(EventOptionSelected, func(DomainEvent) { kept <- struct{}{} })

	unsub()
	b.Publish(OptionSelectedEvent{Label: "Banana"})

	select {
	case <-kept:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber was not called")
	}
	// Handlers run concurrently; give the removed one a chance to misbehave.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestHandlerPanicDoesNotKillBus(t *testing.T) {
	b := New()
	defer b.Close()

	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	ok := make(chan struct{}, 2)
	b.Subscribe(EventConfigSaved, func(DomainEvent) { ok <- struct{}{} })

	b.Publish(ErrorEvent{Message: "x"})
	b.Publish(ConfigSavedEvent{Path: "p"})

	select {
	case <-ok:
	case <-time.After(time.Second):
		t.Fatal("bus stopped dispatching after a handler panic")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	b.Close()
	require.NotPanics(t, func() {
		b.Publish(ConfigLoadedEvent{Path: "p"})
		b.Close()
	})
}
