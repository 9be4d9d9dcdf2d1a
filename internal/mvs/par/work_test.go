package par

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkRunsEachItemOnce(t *testing.T) {
	var w Work[int]
	var mu sync.Mutex
	seen := make(map[int]int)

	for i := 0; i < 10; i++ {
		w.Add(i)
		w.Add(i) // duplicate adds are ignored
	}
	w.Do(4, func(item int) {
		mu.Lock()
		seen[item]++
		mu.Unlock()
	})

	if len(seen) != 10 {
		t.Fatalf("processed %d items, want 10", len(seen))
	}
	for item, n := range seen {
		if n != 1 {
			t.Errorf("item %d processed %d times", item, n)
		}
	}
}

func TestWorkAddDuringDo(t *testing.T) {
	var w Work[int]
	var count atomic.Int64

	w.Add(0)
	w.Do(4, func(item int) {
		count.Add(1)
		if item < 100 {
			w.Add(item + 1)
		}
	})

	if got := count.Load(); got != 101 {
		t.Errorf("processed %d items, want 101", got)
	}
}

func TestWorkDoPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Do(0, ...) did not panic")
		}
	}()
	var w Work[int]
	w.Do(0, func(int) {})
}
