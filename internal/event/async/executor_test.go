package async

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPoolSpawnRuns(t *testing.T) {
	p := NewPool(2, 2)
	defer p.Shutdown(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	p.Spawn(func(ctx context.Context) {
		ran = true
		wg.Done()
	})

	waitOrTimeout(t, &wg, time.Second)
	if !ran {
		t.Fatal("Spawn'd function did not run")
	}
}

func TestPoolSpawnBlockingSeparatePool(t *testing.T) {
	p := NewPool(1, 1)
	defer p.Shutdown(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	// A normal Spawn should not be starved by a blocking job hogging
	// the blocking pool's single worker.
	block := make(chan struct{})
	p.SpawnBlocking(func(ctx context.Context) {
		<-block
		wg.Done()
	})
	p.Spawn(func(ctx context.Context) {
		wg.Done()
	})

	time.Sleep(20 * time.Millisecond)
	close(block)
	waitOrTimeout(t, &wg, time.Second)
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("timed out waiting for goroutines")
	}
}
