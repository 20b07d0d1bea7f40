package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

type Logger interface {
	SetEnabled(enabled bool)
	SetLevel(level string)
	Debug(msg string, args ...any)
	Debugj(msg string, payload []byte)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

//--------------------------------------------------------------------------------------------------

var _ Logger = (*noOpLogger)(nil)

type noOpLogger struct{}

func NoOp() Logger {
	return &noOpLogger{}
}

func (n *noOpLogger) SetEnabled(_ bool)         {}
func (n *noOpLogger) SetLevel(_ string)         {}
func (n *noOpLogger) Debug(_ string, _ ...any)  {}
func (n *noOpLogger) Debugj(_ string, _ []byte) {}
func (n *noOpLogger) Info(_ string, _ ...any)   {}
func (n *noOpLogger) Error(_ string, _ ...any)  {}

//--------------------------------------------------------------------------------------------------

var _ Logger = (*logger)(nil)

type logger struct {
	mux     sync.RWMutex
	enabled bool
	level   zerolog.Level
	zl      zerolog.Logger
}

// New writes one JSON object per line to w. The level starts at "error".
func New(w io.Writer) Logger {
	return &logger{
		enabled: true,
		level:   zerolog.ErrorLevel,
		zl: zerolog.New(w).With().
			Timestamp().
			Logger(),
	}
}

// With returns a logger that adds the given field to every line. Loggers that
// are not backed by zerolog are returned unchanged.
func With(l Logger, key, value string) Logger {
	zl, ok := l.(*logger)
	if !ok {
		return l
	}
	zl.mux.RLock()
	defer zl.mux.RUnlock()
	return &logger{
		enabled: zl.enabled,
		level:   zl.level,
		zl:      zl.zl.With().Str(key, value).Logger(),
	}
}

func (l *logger) SetEnabled(enabled bool) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.enabled = enabled
}

func (l *logger) SetLevel(level string) {
	lvl, err := parseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	l.level = lvl
}

func (l *logger) Debug(msg string, args ...any) {
	if e := l.event(zerolog.DebugLevel); e != nil {
		e.Msgf(msg, args...)
	}
}

func (l *logger) Debugj(msg string, payload []byte) {
	e := l.event(zerolog.DebugLevel)
	if e == nil {
		return
	}
	if json.Valid(payload) {
		e = e.RawJSON("payload", payload)
	} else {
		e = e.Str("payload", string(payload))
	}
	e.Msg(msg)
}

func (l *logger) Info(msg string, args ...any) {
	if e := l.event(zerolog.InfoLevel); e != nil {
		e.Msgf(msg, args...)
	}
}

func (l *logger) Error(msg string, args ...any) {
	if e := l.event(zerolog.ErrorLevel); e != nil {
		e.Msgf(msg, args...)
	}
}

func (l *logger) event(level zerolog.Level) *zerolog.Event {
	l.mux.RLock()
	_enabled, _level := l.enabled, l.level
	l.mux.RUnlock()
	if !_enabled || level < _level {
		return nil
	}
	return l.zl.WithLevel(level)
}

func parseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}
