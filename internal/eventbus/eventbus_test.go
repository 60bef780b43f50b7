package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	received []Event
}

func (r *recordingSink) Publish(evt Event) {
	r.received = append(r.received, evt)
}

func TestBroadcaster_FansOutToEveryRegisteredSink(t *testing.T) {
	b := NewBroadcaster()
	a, c := &recordingSink{}, &recordingSink{}
	b.Register(a)
	b.Register(c)

	evt := Event{Kind: ScreenerStarted, Timestamp: time.Now()}
	b.Publish(evt)

	assert.Len(t, a.received, 1)
	assert.Len(t, c.received, 1)
	assert.Equal(t, ScreenerStarted, a.received[0].Kind)
}

func TestBroadcaster_PreservesPublishOrder(t *testing.T) {
	b := NewBroadcaster()
	sink := &recordingSink{}
	b.Register(sink)

	b.Publish(Event{Kind: SignalEvent})
	b.Publish(Event{Kind: Opportunities})
	b.Publish(Event{Kind: AccountUpdate})

	wantOrder := []Kind{SignalEvent, Opportunities, AccountUpdate}
	for i, want := range wantOrder {
		assert.Equal(t, want, sink.received[i].Kind)
	}
}

func TestBroadcaster_NoSinksIsANoop(t *testing.T) {
	b := NewBroadcaster()
	assert.NotPanics(t, func() { b.Publish(Event{Kind: StatusUpdate}) })
}
