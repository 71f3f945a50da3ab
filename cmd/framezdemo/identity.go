package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/framez"
)

type identityScenario struct{}

func (identityScenario) Name() string        { return "identity" }
func (identityScenario) Description() string { return "no-dependency filter producing three frames" }

func (identityScenario) Run(ctx context.Context) error {
	eng := framez.New(framez.DefaultConfig())
	defer eng.Close()

	substrate := eng.RegisterFilter("identity", newIdentityFilter(3))
	out := eng.NewOutput(substrate)

	var wg sync.WaitGroup
	results := make([]byte, 3)
	errs := make([]error, 3)

	for i := uint64(0); i < 3; i++ {
		wg.Add(1)
		i := i
		out.GetFrame(ctx, i, func(frame *framez.Frame, err error) {
			defer wg.Done()
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = frame.GetPlane(0).Bytes()[0]
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	for i, b := range results {
		if int(b) != i+1 {
			return fmt.Errorf("frame %d: byte 0 = %d, want %d", i, b, i+1)
		}
	}
	fmt.Printf("frames 0..2 -> bytes %v\n", results)
	return nil
}
