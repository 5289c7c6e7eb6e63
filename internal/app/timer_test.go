package app

import (
	"sync"
	"testing"
	"time"
)

func TestTickerDeliversGeneration(t *testing.T) {
	tk := NewTicker(5 * time.Millisecond)
	defer tk.Stop()

	var mu sync.Mutex
	seen := map[uint64]int{}
	record := func(gen uint64) {
		mu.Lock()
		seen[gen]++
		mu.Unlock()
	}
	count := func(gen uint64) int {
		mu.Lock()
		defer mu.Unlock()
		return seen[gen]
	}

	tk.Start(1, record)
	waitFor(t, "first generation ticks", func() bool { return count(1) >= 2 })

	tk.Start(2, record)
	if gen, running := tk.Generation(); !running || gen != 2 {
		t.Fatalf("expected generation 2 running, got %d %v", gen, running)
	}
	time.Sleep(10 * time.Millisecond)
	before := count(1)
	waitFor(t, "second generation ticks", func() bool { return count(2) >= 2 })
	if count(1) != before {
		t.Fatalf("replaced countdown kept ticking")
	}

	tk.Stop()
	if _, running := tk.Generation(); running {
		t.Fatalf("expected ticker stopped")
	}
	time.Sleep(10 * time.Millisecond)
	stopped := count(2)
	time.Sleep(20 * time.Millisecond)
	if count(2) != stopped {
		t.Fatalf("stopped ticker kept ticking")
	}
}

func TestDelayerKeepsOnlyLatest(t *testing.T) {
	var d delayer
	var mu sync.Mutex
	fired := []int{}
	d.After(20*time.Millisecond, func() { mu.Lock(); fired = append(fired, 1); mu.Unlock() })
	d.After(5*time.Millisecond, func() { mu.Lock(); fired = append(fired, 2); mu.Unlock() })
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != 2 {
		t.Fatalf("expected only the latest callback, got %v", fired)
	}
}
