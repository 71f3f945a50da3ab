package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/framez"
)

type singleThreadedScenario struct{}

func (singleThreadedScenario) Name() string { return "single-threaded" }
func (singleThreadedScenario) Description() string {
	return "SINGLE_THREADED filter serializes 100 frames across 8 workers"
}

func (singleThreadedScenario) Run(ctx context.Context) error {
	cfg := framez.DefaultConfig()
	cfg.ThreadCount = 8
	eng := framez.New(cfg)
	defer eng.Close()

	const frameCount = 100
	substrate := eng.RegisterFilter("sleepy", newSleepyFilter(frameCount, 10*time.Millisecond))
	out := eng.NewOutput(substrate)

	start := time.Now()
	var wg sync.WaitGroup
	for i := uint64(0); i < frameCount; i++ {
		wg.Add(1)
		out.GetFrame(ctx, i, func(*framez.Frame, error) { wg.Done() })
	}
	wg.Wait()
	elapsed := time.Since(start)

	if elapsed < time.Second {
		return fmt.Errorf("100 frames at 10ms serialized took %s, want >= 1s", elapsed)
	}
	fmt.Printf("100 serialized frames took %s\n", elapsed)
	return nil
}
