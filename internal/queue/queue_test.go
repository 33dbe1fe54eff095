package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := New[string]()
	q.Enqueue("a")
	q.Enqueue("b")

	if q.Size() != 2 {
		t.Errorf("Size() = %d, want 2", q.Size())
	}

	ctx := context.Background()
	for _, want := range []string{"a", "b"} {
		got, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue() error = %v", err)
		}
		if got != want {
			t.Errorf("Dequeue() = %q, want %q", got, want)
		}
	}
	if q.Size() != 0 {
		t.Errorf("Size() = %d, want 0", q.Size())
	}
}

func TestQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := New[int]()
	got := make(chan int, 1)

	go func() {
		v, err := q.Dequeue(context.Background())
		if err != nil {
			t.Error(err)
			return
		}
		got <- v
	}()

	select {
	case v := <-got:
		t.Fatalf("Dequeue() returned %d from an empty queue", v)
	case <-time.After(50 * time.Millisecond):
	}

	q.Enqueue(42)

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("Dequeue() = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue() did not wake up after Enqueue")
	}
}

func TestQueue_DequeueCancelled(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Dequeue() error = %v, want DeadlineExceeded", err)
	}
}

func TestQueue_Snapshot(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 3; i++ {
		q.Enqueue(i)
	}

	snap := q.Snapshot()
	snap[0] = 99

	if got, _ := q.Dequeue(context.Background()); got != 1 {
		t.Errorf("Snapshot must be a copy, head = %d", got)
	}
	if snap := q.Snapshot(); len(snap) != 2 || snap[0] != 2 || snap[1] != 3 {
		t.Errorf("Snapshot() = %v, want [2 3]", snap)
	}
}

func TestQueue_ConcurrentProducerConsumer(t *testing.T) {
	const n = 1000
	q := New[int]()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Enqueue(i)
			if i%10 == 0 {
				q.Snapshot()
				q.Size()
			}
		}
	}()

	for want := 0; want < n; want++ {
		got, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Dequeue() = %d, want %d", got, want)
		}
	}
	wg.Wait()
}
