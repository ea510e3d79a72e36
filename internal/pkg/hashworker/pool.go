// Package hashworker runs adaptive password hashing on a fixed set of worker
// goroutines. bcrypt is intentionally CPU-slow; bounding the number of
// concurrent hashes keeps request-serving goroutines responsive under a
// burst of logins.
package hashworker

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultWorkers = 4
	queueBuffer    = 64
)

// Pool executes submitted jobs on a fixed number of workers. Start must be
// called before the first submission.
type Pool struct {
	jobs    chan func()
	workers int
}

// New creates a Pool with numWorkers workers. If numWorkers <= 0,
// defaultWorkers is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Pool{
		jobs:    make(chan func(), queueBuffer),
		workers: numWorkers,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx)
	}
}

func (p *Pool) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
		}
	}
}

// do submits f and blocks until it has run. A nil pool runs f inline, which
// keeps the Hasher usable without workers (tests, single-shot tools).
func (p *Pool) do(f func()) {
	if p == nil {
		f()
		return
	}
	done := make(chan struct{})
	p.jobs <- func() {
		defer close(done)
		f()
	}
	<-done
}

// Hasher hashes and verifies passwords with bcrypt, dispatching the work to
// the pool. The salt is embedded in the produced digest.
type Hasher struct {
	pool *Pool
	cost int
}

// NewHasher returns a Hasher using the given pool and bcrypt cost. A cost of
// 0 selects bcrypt.DefaultCost; pool may be nil to hash inline.
func NewHasher(pool *Pool, cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{pool: pool, cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	var (
		digest []byte
		err    error
	)
	h.pool.do(func() {
		digest, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	})
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests are
// reported as a mismatch, never an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	var ok bool
	h.pool.do(func() {
		ok = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	})
	return ok
}
