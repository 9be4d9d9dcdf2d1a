// Package par provides a parallel work queue that runs each item at most
// once, used when exploring the module requirement graph.
package par

import (
	"math/rand"
	"sync"
)

// Work is a set of work items processed in parallel, each at most once.
// Items must be valid map keys. The zero value is ready to use.
type Work[T comparable] struct {
	f       func(T)
	running int

	mu      sync.Mutex
	added   map[T]bool // everything ever added, done or not
	todo    []T
	wait    sync.Cond // signaled when todo grows
	waiting int
}

// Add adds item to the work set unless it was added before.
// It may be called from inside the function passed to Do.
func (w *Work[T]) Add(item T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.added == nil {
		w.added = make(map[T]bool)
	}
	if w.added[item] {
		return
	}
	w.added[item] = true
	w.todo = append(w.todo, item)
	if w.waiting > 0 {
		w.wait.Signal()
	}
}

// Do processes the work set with at most n concurrent invocations of f
// and returns once every item, including items added by f itself, has
// been processed. Do must be called at most once per Work.
func (w *Work[T]) Do(n int, f func(item T)) {
	if n < 1 {
		panic("par.Work.Do: n < 1")
	}
	if w.running >= 1 {
		panic("par.Work.Do: already called Do")
	}

	w.running = n
	w.f = f
	w.wait.L = &w.mu

	for i := 0; i < n-1; i++ {
		go w.runner()
	}
	w.runner()
}

// runner loops taking items until the set is drained and every runner is
// idle, at which point all runners return together.
func (w *Work[T]) runner() {
	for {
		w.mu.Lock()
		for len(w.todo) == 0 {
			w.waiting++
			if w.waiting == w.running {
				w.wait.Broadcast()
				w.mu.Unlock()
				return
			}
			w.wait.Wait()
			w.waiting--
		}

		// Take a random item so runners that were woken together do not
		// all chase the same recently added entries.
		i := rand.Intn(len(w.todo))
		item := w.todo[i]
		w.todo[i] = w.todo[len(w.todo)-1]
		w.todo = w.todo[:len(w.todo)-1]
		w.mu.Unlock()

		w.f(item)
	}
}
