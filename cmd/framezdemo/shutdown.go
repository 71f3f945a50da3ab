package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/framez"
)

type shutdownScenario struct{}

func (shutdownScenario) Name() string { return "shutdown" }
func (shutdownScenario) Description() string {
	return "10000 requests against a slow filter, engine closed mid-flight"
}

func (shutdownScenario) Run(ctx context.Context) error {
	eng := framez.New(framez.DefaultConfig())

	const requestCount = 10000
	substrate := eng.RegisterFilter("slow", newSleepyFilter(requestCount, time.Millisecond))
	out := eng.NewOutput(substrate)

	for i := uint64(0); i < requestCount; i++ {
		out.GetFrame(ctx, i, func(*framez.Frame, error) {})
	}

	closed := make(chan struct{})
	go func() {
		eng.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("engine did not shut down within 10s")
	}

	fmt.Println("engine closed cleanly under load")
	return nil
}
