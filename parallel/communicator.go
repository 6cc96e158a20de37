package parallel

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Communicator is the view one writer rank has of its group
type Communicator interface {
	Rank() int
	Size() int
	Barrier(ctx context.Context) error
}

// LocalWorld is a group of ranks running as goroutines in one process.
// A barrier abandoned through its context leaves the world unusable.
type LocalWorld struct {
	size    int
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func NewLocalWorld(size int) (lw *LocalWorld) {
	if size < 1 {
		panic(fmt.Errorf("invalid world size %d", size))
	}
	return &LocalWorld{
		size:    size,
		release: make(chan struct{}),
	}
}

func (lw *LocalWorld) Size() int { return lw.size }

// Comm returns the communicator of one rank
func (lw *LocalWorld) Comm(rank int) Communicator {
	if rank < 0 || rank >= lw.size {
		panic(fmt.Errorf("rank %d outside of world of size %d", rank, lw.size))
	}
	return &localComm{world: lw, rank: rank}
}

func (lw *LocalWorld) barrier(ctx context.Context) error {
	lw.mu.Lock()
	release := lw.release
	lw.arrived++
	if lw.arrived == lw.size {
		lw.arrived = 0
		lw.release = make(chan struct{})
		close(release)
		lw.mu.Unlock()
		return nil
	}
	lw.mu.Unlock()
	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type localComm struct {
	world *LocalWorld
	rank  int
}

func (lc *localComm) Rank() int { return lc.rank }

func (lc *localComm) Size() int { return lc.world.size }

func (lc *localComm) Barrier(ctx context.Context) error { return lc.world.barrier(ctx) }

// Serial is the communicator of a single process run
func Serial() Communicator { return NewLocalWorld(1).Comm(0) }

// Run starts one goroutine per rank and waits for all of them. The first
// failing rank cancels the context handed to the others.
func Run(ctx context.Context, size int, fn func(ctx context.Context, comm Communicator) error) error {
	var (
		world  = NewLocalWorld(size)
		g, gtx = errgroup.WithContext(ctx)
	)
	for rank := 0; rank < size; rank++ {
		comm := world.Comm(rank)
		g.Go(func() error {
			if err := fn(gtx, comm); err != nil {
				return fmt.Errorf("rank %d: %w", comm.Rank(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
