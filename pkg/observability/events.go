// Package observability carries parse, render, cache and HTTP events from
// the library packages to the sinks a binary registers. Without a sink,
// Emit does nothing, so the rendering packages never depend on a metrics
// backend.
//
//	unregister := observability.Register(observability.NewLogSink(logger))
//	defer unregister()
//
// Library code reports a finished stage:
//
//	observability.Emit(ctx, observability.Event{
//	    Kind: observability.ParseDone, Name: name, Count: len(cmds), Duration: d, Err: err,
//	})
package observability

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Kind identifies an event.
type Kind uint8

const (
	ParseDone  Kind = iota + 1 // Count is the number of commands
	RenderDone                 // Count is the number of document elements
	ExportDone                 // Count is the total artifact size in bytes
	CacheHit
	CacheMiss
	CacheStore // Count is the stored artifact size in bytes
	Response   // Status and Duration describe the served request
)

var kindNames = [...]string{
	ParseDone:  "parse",
	RenderDone: "render",
	ExportDone: "export",
	CacheHit:   "cache hit",
	CacheMiss:  "cache miss",
	CacheStore: "cache store",
	Response:   "response",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one observation. Fields a kind does not use stay zero.
type Event struct {
	Kind     Kind
	Name     string // description name, or the request path for Response
	Method   string
	Formats  []string
	Count    int
	Status   int
	Duration time.Duration
	Err      error
}

// Sink receives events. Emit is called synchronously on the emitting
// goroutine and must not block.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Emit(ctx context.Context, e Event) { f(ctx, e) }

type registration struct{ sink Sink }

var (
	mu    sync.RWMutex
	sinks []*registration
)

// Register adds s to the sinks that receive every event. The returned
// function removes it again; calling it twice is harmless.
func Register(s Sink) (unregister func()) {
	reg := &registration{sink: s}
	mu.Lock()
	sinks = append(sinks, reg)
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			// Copy so a concurrent Emit keeps a consistent snapshot.
			sinks = slices.DeleteFunc(slices.Clone(sinks), func(r *registration) bool { return r == reg })
		})
	}
}

// Emit delivers e to every registered sink in registration order.
func Emit(ctx context.Context, e Event) {
	mu.RLock()
	regs := sinks
	mu.RUnlock()
	for _, r := range regs {
		r.sink.Emit(ctx, e)
	}
}
