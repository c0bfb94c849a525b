package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// eventAdapter adapts zerolog events to the LogEvent interface.
type eventAdapter struct {
	event *zerolog.Event
}

func (ea *eventAdapter) Msg(msg string) {
	ea.event.Msg(msg)
}

func (ea *eventAdapter) Msgf(format string, args ...any) {
	ea.event.Msgf(format, args...)
}

func (ea *eventAdapter) Err(err error) LogEvent {
	return &eventAdapter{event: ea.event.Err(err)}
}

func (ea *eventAdapter) Str(key, value string) LogEvent {
	return &eventAdapter{event: ea.event.Str(key, value)}
}

func (ea *eventAdapter) Int(key string, value int) LogEvent {
	return &eventAdapter{event: ea.event.Int(key, value)}
}

func (ea *eventAdapter) Int64(key string, value int64) LogEvent {
	return &eventAdapter{event: ea.event.Int64(key, value)}
}

func (ea *eventAdapter) Float64(key string, value float64) LogEvent {
	return &eventAdapter{event: ea.event.Float64(key, value)}
}

func (ea *eventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &eventAdapter{event: ea.event.Dur(key, d)}
}

func (ea *eventAdapter) Interface(key string, i any) LogEvent {
	return &eventAdapter{event: ea.event.Interface(key, i)}
}

func (ea *eventAdapter) Bytes(key string, val []byte) LogEvent {
	return &eventAdapter{event: ea.event.Bytes(key, val)}
}
