package barrier

import (
	"context"
	"fmt"
	"sync"

	"github.com/jzx17/rendezvous/pkg/types"
)

// Action is the aggregation action of a barrier. It runs exactly once per
// generation, on the last arriving participant, after every participant has
// arrived and before any participant is released.
type Action func() error

// Barrier is a reusable rendezvous point for a fixed number of participants
type Barrier struct {
	parties int
	action  Action

	// count is the number of arrivals in the current generation; waiting is
	// the subset of arrivals currently parked on the release channel
	count      int
	waiting    int
	generation int64

	// release is closed to broadcast the end of the current generation,
	// either a normal release or a breakage
	release chan struct{}

	broken bool
	cause  error

	mu sync.Mutex
}

// New creates a barrier for the given number of participants. The action
// may be nil, in which case the barrier only synchronizes.
func New(parties int, action Action) (*Barrier, error) {
	if parties <= 0 {
		return nil, fmt.Errorf("%w: parties must be positive, got %d", types.ErrInvalidArgument, parties)
	}
	return &Barrier{
		parties: parties,
		action:  action,
		release: make(chan struct{}),
	}, nil
}

// Await signals arrival at the barrier and blocks until the whole cohort
// has arrived. The last arriving participant runs the action before anyone
// is released.
//
// Await returns nil once the generation completes normally. It returns an
// error matching types.ErrBrokenBarrier if the barrier is or becomes broken,
// and breaks the barrier itself if ctx is cancelled while arriving or
// waiting, so that no other participant waits forever.
func (b *Barrier) Await(ctx context.Context) error {
	b.mu.Lock()

	if b.broken {
		cause := b.cause
		b.mu.Unlock()
		return brokenErr(cause)
	}

	// Arriving with an already-cancelled context breaks the barrier: the
	// cohort can no longer be satisfied as a whole.
	if err := ctx.Err(); err != nil {
		b.breakLocked(err)
		b.mu.Unlock()
		return fmt.Errorf("%w: %w", types.ErrBrokenBarrier, err)
	}

	b.count++
	if b.count == b.parties {
		err := b.trip()
		b.mu.Unlock()
		return err
	}

	gen := b.generation
	release := b.release
	b.waiting++
	b.mu.Unlock()

	select {
	case <-release:
		b.mu.Lock()
		defer b.mu.Unlock()
		b.waiting--
		if b.broken && b.generation == gen {
			return brokenErr(b.cause)
		}
		return nil
	case <-ctx.Done():
		return b.cancelWhileWaiting(gen, ctx.Err())
	}
}

// trip completes the current generation. Called with the lock held by the
// last arriving participant.
func (b *Barrier) trip() error {
	if b.action != nil {
		if err := b.action(); err != nil {
			b.breakLocked(err)
			return brokenErr(err)
		}
	}
	b.generation++
	b.count = 0
	close(b.release)
	b.release = make(chan struct{})
	return nil
}

// breakLocked transitions the barrier to broken state and wakes all waiters.
// Called with the lock held. The generation does not advance, so woken
// waiters can tell a breakage from a normal release.
func (b *Barrier) breakLocked(cause error) {
	b.broken = true
	b.cause = cause
	close(b.release)
}

// cancelWhileWaiting handles a context cancellation observed while parked
// at the barrier. The release may have raced with the cancellation, in
// which case the participant proceeds normally.
func (b *Barrier) cancelWhileWaiting(gen int64, ctxErr error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.waiting--

	if b.generation != gen {
		// Released before the cancellation was observed.
		return nil
	}
	if b.broken {
		return brokenErr(b.cause)
	}
	b.breakLocked(ctxErr)
	return fmt.Errorf("%w: %w", types.ErrBrokenBarrier, ctxErr)
}

// Reset returns a broken barrier to a usable state and starts a fresh
// generation. It fails if any participant is still parked at the barrier,
// because a partially-satisfied generation cannot be safely discarded.
func (b *Barrier) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.waiting > 0 {
		return fmt.Errorf("cannot reset barrier: %d participants still waiting", b.waiting)
	}

	b.broken = false
	b.cause = nil
	b.release = make(chan struct{})
	b.count = 0
	b.generation++
	return nil
}

// Parties returns the number of participants required per generation
func (b *Barrier) Parties() int {
	return b.parties
}

// NumWaiting returns the number of participants that have arrived in the
// current generation
func (b *Barrier) NumWaiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Generation returns the number of completed generations
func (b *Barrier) Generation() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// IsBroken checks if the barrier is broken
func (b *Barrier) IsBroken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}

// brokenErr wraps the breakage cause in types.ErrBrokenBarrier
func brokenErr(cause error) error {
	if cause == nil {
		return types.ErrBrokenBarrier
	}
	return fmt.Errorf("%w: %w", types.ErrBrokenBarrier, cause)
}
