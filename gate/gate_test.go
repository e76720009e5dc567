package gate

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestGate_QueuedCallbacksRunInOrder(t *testing.T) {
	var g Gate
	var order []int

	for i := 0; i < 5; i++ {
		g.Register(func() { order = append(order, i) })
	}
	if len(order) != 0 {
		t.Fatalf("callbacks ran before completion: %v", order)
	}

	g.Complete()

	if len(order) != 5 {
		t.Fatalf("ran %d callbacks, want 5", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Errorf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestGate_RegisterAfterCompleteRunsImmediately(t *testing.T) {
	var g Gate
	g.Complete()

	calls := 0
	g.Register(func() { calls++ })
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	g.Complete()
	if calls != 1 {
		t.Errorf("second Complete re-ran callback: calls = %d", calls)
	}
}

func TestGate_CompleteWithNoCallbacks(t *testing.T) {
	var g Gate
	g.Complete()
	if !g.Completed() {
		t.Error("Completed() = false after Complete")
	}
}

func TestGate_NilCallbackIgnored(t *testing.T) {
	var g Gate
	g.Register(nil)
	g.Complete()
	g.Register(nil)
}

func TestGate_ReentrantRegistration(t *testing.T) {
	var g Gate
	var inner, outer int

	g.Register(func() {
		outer++
		g.Register(func() { inner++ })
	})
	g.Complete()

	if outer != 1 || inner != 1 {
		t.Errorf("outer = %d, inner = %d; want 1, 1", outer, inner)
	}
}

func TestGate_DrainDropsQueue(t *testing.T) {
	var g Gate
	g.Register(func() {})
	g.Complete()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		t.Error("pending queue retained after completion")
	}
}

func TestGate_ConcurrentRegistration(t *testing.T) {
	var g Gate
	var calls atomic.Int64
	const workers = 50

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			g.Register(func() { calls.Add(1) })
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		g.Complete()
	}()

	close(start)
	wg.Wait()

	if got := calls.Load(); got != workers {
		t.Errorf("calls = %d, want %d", got, workers)
	}
}

// However registrations interleave with completion, every callback runs
// exactly once.
func TestGate_ExactlyOnce_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("each callback runs exactly once", prop.ForAll(
		func(before, after int) bool {
			var g Gate
			counts := make([]int, before+after)

			for i := 0; i < before; i++ {
				g.Register(func() { counts[i]++ })
			}
			g.Complete()
			for i := before; i < before+after; i++ {
				g.Register(func() { counts[i]++ })
			}
			g.Complete()

			for _, c := range counts {
				if c != 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
