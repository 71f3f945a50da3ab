package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/framez"
)

type chainScenario struct{}

func (chainScenario) Name() string        { return "chain" }
func (chainScenario) Description() string { return "filter B depends on filter A at the same index" }

func (chainScenario) Run(ctx context.Context) error {
	eng := framez.New(framez.DefaultConfig())
	defer eng.Close()

	a := eng.RegisterFilter("A", newIdentityFilter(1))
	b := eng.RegisterFilter("B", newDoublerFilter(1, a))
	out := eng.NewOutput(b)

	var wg sync.WaitGroup
	var result byte
	var callErr error

	wg.Add(1)
	out.GetFrame(ctx, 0, func(frame *framez.Frame, err error) {
		defer wg.Done()
		if err != nil {
			callErr = err
			return
		}
		result = frame.GetPlane(0).Bytes()[0]
	})
	wg.Wait()

	if callErr != nil {
		return callErr
	}
	if result != 2 {
		return fmt.Errorf("B[0] byte 0 = %d, want 2", result)
	}
	fmt.Printf("B[0] byte 0 = %d\n", result)
	return nil
}
