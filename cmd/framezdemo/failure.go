package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/framez"
)

type failureCascadeScenario struct{}

func (failureCascadeScenario) Name() string { return "failure-cascade" }
func (failureCascadeScenario) Description() string {
	return "a failure at one index kills only that index's tree, not siblings"
}

func (failureCascadeScenario) Run(ctx context.Context) error {
	eng := framez.New(framez.DefaultConfig())
	defer eng.Close()

	f := eng.RegisterFilter("F", newUpstreamFilter(8, 5))
	e := eng.RegisterFilter("E", newDoublerFilter(8, f))
	out := eng.NewOutput(e)

	indices := []uint64{3, 4, 5, 6, 7}
	var wg sync.WaitGroup
	results := make(map[uint64]error)
	var mu sync.Mutex

	for _, idx := range indices {
		wg.Add(1)
		idx := idx
		out.GetFrame(ctx, idx, func(_ *framez.Frame, err error) {
			defer wg.Done()
			mu.Lock()
			results[idx] = err
			mu.Unlock()
		})
	}
	wg.Wait()

	for _, idx := range indices {
		err := results[idx]
		if idx == 5 {
			if err == nil {
				return fmt.Errorf("index 5 expected to fail, succeeded")
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("index %d expected to succeed, got %v", idx, err)
		}
	}
	fmt.Println("indices 3,4,6,7 succeeded; index 5 failed as expected")
	return nil
}
