// Package parallel runs independent jobs on a bounded pool of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers int // Number of worker goroutines; 1 or less runs sequentially.
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
	}
}

// For executes f(i) for i in [0, n) and returns once every call finished.
// With more than one worker the calls run concurrently, so f must only
// touch state owned by index i.
func For(n int, f func(i int), cfg Config) {
	if cfg.Workers <= 1 || n <= 1 {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(cfg.Workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
