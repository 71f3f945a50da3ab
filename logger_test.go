package framez

import "testing"

func TestWithLoggerNormalizesNil(t *testing.T) {
	l := withLogger(nil)
	if _, ok := l.(nopLogger); !ok {
		t.Fatalf("withLogger(nil) = %T, want nopLogger", l)
	}
}

func TestWithLoggerPassesThroughNonNil(t *testing.T) {
	l := withLogger(stderrLogger{})
	if _, ok := l.(stderrLogger); !ok {
		t.Fatalf("withLogger(stderrLogger{}) = %T, want stderrLogger", l)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarning: "WARNING",
		Level(999):   "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
