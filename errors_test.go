package framez

import (
	"errors"
	"testing"
	"time"
)

func TestFilterErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	ferr := &FilterError{Substrate: "f", Index: 3, Err: cause, Timestamp: time.Now()}
	if !errors.Is(ferr, cause) {
		t.Fatalf("errors.Is(ferr, cause) = false, want true")
	}
	if ferr.Error() == "" {
		t.Fatalf("Error() returned empty string")
	}
}

func TestConstructErrorUnwrap(t *testing.T) {
	cause := errors.New("bad dependency")
	cerr := &ConstructError{Substrate: "f", Index: 9, Err: cause, Timestamp: time.Now()}
	if !errors.Is(cerr, cause) {
		t.Fatalf("errors.Is(cerr, cause) = false, want true")
	}
}

func TestPanicFatalLogsAndPanics(t *testing.T) {
	var logged bool
	logger := loggerFunc(func(level Level, msg string, fields ...Field) {
		if level == LevelWarning {
			logged = true
		}
	})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("panicFatal did not panic")
		}
		if _, ok := r.(*FatalError); !ok {
			t.Fatalf("recovered value is %T, want *FatalError", r)
		}
		if !logged {
			t.Fatalf("panicFatal did not log at LevelWarning")
		}
	}()
	panicFatal(logger, "test fatal")
}

type loggerFunc func(level Level, msg string, fields ...Field)

func (f loggerFunc) Log(level Level, msg string, fields ...Field) { f(level, msg, fields...) }
