package util

import (
	"runtime"
	"sync"
)

var workerPool chan func()

func init() {
	maxProcs := runtime.GOMAXPROCS(0)
	if maxProcs < 1 {
		maxProcs = 1
	}
	workerPool = make(chan func(), maxProcs)
	for idx := 0; idx < maxProcs; idx++ {
		go func() {
			for f := range workerPool {
				f()
			}
		}()
	}
}

// WorkerGo submits a job to a pool of GOMAXPROCS worker goroutines.
// This is meant for short non-blocking functions f() where you could just go f(),
// but you want some kind of backpressure to prevent spawning endless goroutines.
// WorkerGo returns as soon as the function is queued to run, not when it finishes.
func WorkerGo(f func()) {
	workerPool <- f
}

// WorkerFor calls f(i) for every i in [0, n), splitting the range into at
// most `workers` contiguous batches that run on the worker pool. It returns
// only after every call has finished, so it doubles as a barrier.
// With workers <= 1 everything runs on the calling goroutine.
// WorkerFor must not be called from inside a pool job.
func WorkerFor(n, workers int, f func(i int)) {
	if n <= 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	var wg sync.WaitGroup
	batch := (n + workers - 1) / workers
	for start := 0; start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}
		wg.Add(1)
		WorkerGo(func(start, end int) func() {
			return func() {
				defer wg.Done()
				for i := start; i < end; i++ {
					f(i)
				}
			}
		}(start, end))
	}
	wg.Wait()
}
