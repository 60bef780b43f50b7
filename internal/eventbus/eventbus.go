// Package eventbus defines the outbound EventSink capability (spec
// §6 "Outbound event stream") as a tagged-variant event type plus a
// broadcast sink, per spec §9's design note preferring composition
// over an emitter-per-component inheritance scheme.
package eventbus

import (
	"sync"
	"time"
)

// Kind identifies which variant an Event carries.
type Kind string

const (
	Opportunities   Kind = "OPPORTUNITIES"
	SignalEvent     Kind = "SIGNAL"
	PositionOpened  Kind = "POSITION_OPENED"
	PositionClosed  Kind = "POSITION_CLOSED"
	AccountUpdate   Kind = "ACCOUNT_UPDATE"
	CircuitBreaker  Kind = "CIRCUIT_BREAKER"
	TradeRecorded   Kind = "TRADE_RECORDED"
	ScreenerStarted Kind = "SCREENER_STARTED"
	ScreenerStopped Kind = "SCREENER_STOPPED"
	StatusUpdate    Kind = "STATUS_UPDATE"
)

// Event is one tagged-variant message; Payload's concrete type is
// determined by Kind and chosen by the publisher.
type Event struct {
	Kind      Kind
	Payload   any
	Timestamp time.Time
}

// EventSink is the narrow capability a dashboard or other consumer
// implements to receive the event stream.
type EventSink interface {
	Publish(Event)
}

// Broadcaster fans one published event out to every registered sink,
// matching the teacher's single-writer-many-reader pattern used for
// its own progress and log emitters.
type Broadcaster struct {
	mu    sync.RWMutex
	sinks []EventSink
}

// NewBroadcaster starts an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Register adds a sink that will receive every subsequently
// published event.
func (b *Broadcaster) Register(sink EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

// Publish implements EventSink, fanning the event out to every
// registered sink. A slow or blocking sink must buffer internally;
// Publish never spawns goroutines per sink to preserve the
// single-writer ordering guarantee (spec §5 "Ordering guarantees").
func (b *Broadcaster) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.sinks {
		s.Publish(evt)
	}
}
