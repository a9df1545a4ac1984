package pdfprep

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for external tool child processes.
	cpuDivisor = 2
)

// PreparerPool manages a pool of Preparer instances for parallel
// processing. Each preparer owns its own browser instance, enabling
// true parallelism for HTML-rendered inputs. Preparers are created
// lazily on first acquire to avoid startup delay.
type PreparerPool struct {
	size      int
	opts      []Option
	preparers []*Preparer
	sem       chan *Preparer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewPreparerPool creates a pool with capacity for n Preparer
// instances, each configured with opts.
func NewPreparerPool(n int, opts ...Option) *PreparerPool {
	if n < 1 {
		n = 1
	}

	return &PreparerPool{
		size:      n,
		opts:      opts,
		preparers: make([]*Preparer, 0, n),
		sem:       make(chan *Preparer, n),
	}
}

// Acquire gets a preparer from the pool, creating one if needed.
// Blocks if all preparers are in use.
func (p *PreparerPool) Acquire() (*Preparer, error) {
	// Try to get an existing preparer (non-blocking)
	select {
	case prep := <-p.sem:
		return prep, nil
	default:
	}

	// Check if we can create a new preparer
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new preparer outside the lock
		prep, err := NewPreparer(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.preparers = append(p.preparers, prep)
		p.mu.Unlock()

		return prep, nil
	}
	p.mu.Unlock()

	// All preparers created, wait for one to be released
	return <-p.sem, nil
}

// Release returns a preparer to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *PreparerPool) Release(prep *Preparer) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- prep
}

// Close releases all browser resources.
// Returns an aggregated error if multiple preparers fail to close.
func (p *PreparerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	preparers := p.preparers
	p.mu.Unlock()

	var errs []error
	for _, prep := range preparers {
		if err := prep.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *PreparerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
