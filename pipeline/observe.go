package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kbukum/streamkit/logger"
)

// TapFunc observes a push after the wrapped stage answered it.
type TapFunc func(v Value, status Signal)

// Tap wraps stage so fn sees every value pushed into it and the signal it
// returned. Prime is forwarded untouched.
func Tap(stage Stage, fn TapFunc) Stage {
	if fn == nil {
		return stage
	}
	return &tap{next: stage, fn: fn}
}

type tap struct {
	next Stage
	fn   TapFunc
}

func (t *tap) Prime() Signal { return t.next.Prime() }

func (t *tap) Push(v Value) Signal {
	status := t.next.Push(v)
	t.fn(v, status)
	return status
}

// WithLogging logs the priming handshake and every push into stage at
// debug level. When debug is disabled stage is returned as is.
func WithLogging(stage Stage, name string, log *logger.Logger) Stage {
	if log == nil || !log.Enabled(zerolog.DebugLevel) {
		return stage
	}
	return &logged{next: stage, name: name, log: log.WithFields(logger.Fields(logger.FieldStage, name))}
}

type logged struct {
	next Stage
	name string
	log  *logger.Logger
}

func (l *logged) Prime() Signal {
	status := l.next.Prime()
	l.log.Debug("stage primed", logger.PushFields(nil, status))
	return status
}

func (l *logged) Push(v Value) Signal {
	status := l.next.Push(v)
	l.log.Debug("stage push", logger.PushFields(v, status))
	return status
}

// PushRecorder counts pushes per stage. observability.StreamMetrics
// implements it.
type PushRecorder interface {
	RecordPush(ctx context.Context, stage string, accepted bool)
}

// WithMetrics records every push into stage on rec.
func WithMetrics(ctx context.Context, stage Stage, name string, rec PushRecorder) Stage {
	if rec == nil {
		return stage
	}
	return Tap(stage, func(_ Value, status Signal) {
		rec.RecordPush(ctx, name, bool(status))
	})
}
