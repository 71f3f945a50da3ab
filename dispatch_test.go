package framez

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewDispatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	defer func() {
		d.Stop()
		<-d.Done()
	}()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		i := i
		d.Post(func(*Frame, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}, nil, nil)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("delivery order = %v, want strictly increasing", order)
		}
	}
}

func TestDispatcherRecoversPanickingCallback(t *testing.T) {
	d := NewDispatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	defer func() {
		d.Stop()
		<-d.Done()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	d.Post(func(*Frame, error) { defer wg.Done(); panic("boom") }, nil, nil)
	d.Post(func(*Frame, error) { wg.Done() }, nil, nil)
	wg.Wait() // if the panic took the dispatcher down, the second Post would hang
}

func TestDispatcherStopEndsRunLoop(t *testing.T) {
	d := NewDispatcher(nil)
	go d.Run(context.Background())
	d.Stop()
	<-d.Done()
}

func TestDispatcherDeliversError(t *testing.T) {
	d := NewDispatcher(nil)
	go d.Run(context.Background())
	defer func() {
		d.Stop()
		<-d.Done()
	}()

	wantErr := errors.New("boom")
	done := make(chan error, 1)
	d.Post(func(_ *Frame, err error) { done <- err }, nil, wantErr)

	if got := <-done; got != wantErr {
		t.Fatalf("delivered error = %v, want %v", got, wantErr)
	}
}
