package util

import (
	"sync/atomic"
	"testing"
)

func TestWorkerForVisitsEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8, 1000} {
		const n = 257
		var seen [n]int32
		var calls int32
		WorkerFor(n, workers, func(i int) {
			atomic.AddInt32(&seen[i], 1)
			atomic.AddInt32(&calls, 1)
		})
		if calls != n {
			t.Fatalf("workers=%d: expected %d calls, got %d", workers, n, calls)
		}
		for i, v := range seen {
			if v != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, v)
			}
		}
	}
}

func TestWorkerForEmpty(t *testing.T) {
	WorkerFor(0, 4, func(int) {
		t.Fatal("no calls expected for an empty range")
	})
}
