package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/framez"
)

type makeLinearScenario struct{}

func (makeLinearScenario) Name() string { return "make-linear" }
func (makeLinearScenario) Description() string {
	return "MAKE_LINEAR filter runs its frames strictly in index order"
}

func (makeLinearScenario) Run(ctx context.Context) error {
	eng := framez.New(framez.DefaultConfig())
	defer eng.Close()

	substrate := eng.RegisterFilter("linear", newLinearFilter(5))
	out := eng.NewOutput(substrate)

	var mu sync.Mutex
	var startOrder []uint64
	_, err := eng.Hooks().Hook(framez.EventInstanceRunning, func(_ context.Context, ev framez.InstanceEvent) error {
		mu.Lock()
		startOrder = append(startOrder, ev.Index)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("registering hook: %w", err)
	}

	var wg sync.WaitGroup
	for i := uint64(0); i < 5; i++ {
		wg.Add(1)
		out.GetFrame(ctx, i, func(*framez.Frame, error) { wg.Done() })
	}
	wg.Wait()

	mu.Lock()
	order := append([]uint64(nil), startOrder...)
	mu.Unlock()

	for i := 1; i < len(order); i++ {
		if order[i] < order[i-1] {
			return fmt.Errorf("observed start order %v is not non-decreasing", order)
		}
	}
	fmt.Printf("observed start order: %v\n", order)
	return nil
}
