package framez

import (
	"runtime"
	"testing"
)

func TestDefaultConfigUsesNumCPU(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ThreadCount != runtime.NumCPU() {
		t.Errorf("DefaultConfig().ThreadCount = %d, want %d", cfg.ThreadCount, runtime.NumCPU())
	}
}

func TestNormalizedClampsNonPositiveThreadCount(t *testing.T) {
	cfg := Config{ThreadCount: 0}.normalized()
	if cfg.ThreadCount <= 0 {
		t.Errorf("normalized().ThreadCount = %d, want > 0", cfg.ThreadCount)
	}

	cfg = Config{ThreadCount: -5}.normalized()
	if cfg.ThreadCount <= 0 {
		t.Errorf("normalized().ThreadCount = %d, want > 0", cfg.ThreadCount)
	}
}

func TestNormalizedPreservesPositiveThreadCount(t *testing.T) {
	cfg := Config{ThreadCount: 3}.normalized()
	if cfg.ThreadCount != 3 {
		t.Errorf("normalized().ThreadCount = %d, want 3", cfg.ThreadCount)
	}
}
