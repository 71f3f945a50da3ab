package framez

import (
	"sync"
	"testing"
)

func TestQueuePushPop(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok, err := q.Pop(false)
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if !ok || got != want {
			t.Fatalf("Pop() = %v, %v, want %v, true", got, ok, want)
		}
	}

	if _, ok, err := q.Pop(false); err != nil || ok {
		t.Fatalf("Pop on empty queue = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestQueueRequestStop(t *testing.T) {
	q := NewQueue[int]()
	q.RequestStop()

	if _, _, err := q.Pop(true); err != ErrStopRequested {
		t.Fatalf("Pop after RequestStop = %v, want ErrStopRequested", err)
	}
}

func TestQueueRequestStopAbandonsBacklog(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 1000; i++ {
		q.Push(i)
	}

	q.RequestStop()

	// A backlog sitting ahead of the stop signal must not be drained: the
	// very next Pop observes the stop flag immediately, not after working
	// through the 1000 already-queued values.
	if _, ok, err := q.Pop(true); err != ErrStopRequested || ok {
		t.Fatalf("Pop() after RequestStop with a pending backlog = ok=%v err=%v, want ok=false err=ErrStopRequested", ok, err)
	}
}

func TestQueueBlockingPopWakesOnPush(t *testing.T) {
	q := NewQueue[int]()
	var wg sync.WaitGroup
	wg.Add(1)

	var got int
	var ok bool
	go func() {
		defer wg.Done()
		got, ok, _ = q.Pop(true)
	}()

	q.Push(42)
	wg.Wait()

	if !ok || got != 42 {
		t.Fatalf("blocking Pop() = %v, %v, want 42, true", got, ok)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue[int]()
	const producers, perProducer = 8, 200

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		_, ok, err := q.Pop(false)
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != producers*perProducer {
		t.Fatalf("drained %d items, want %d", count, producers*perProducer)
	}
}
