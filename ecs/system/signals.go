package system

import "github.com/milk9111/arena/ecs"

// SignalSink receives every event the combat systems emitted during a tick.
type SignalSink interface {
	HandleSignal(evt ecs.Event)
}

// SignalFunc adapts a function to SignalSink.
type SignalFunc func(evt ecs.Event)

func (f SignalFunc) HandleSignal(evt ecs.Event) { f(evt) }

// SignalSystem drains the world queue into a sink. It runs last so the sink
// observes a fully resolved tick.
type SignalSystem struct {
	sink SignalSink
}

func NewSignalSystem(sink SignalSink) *SignalSystem { return &SignalSystem{sink: sink} }

func (s *SignalSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	events := w.Events().Drain()
	if s.sink == nil {
		return
	}
	for _, evt := range events {
		s.sink.HandleSignal(evt)
	}
}
