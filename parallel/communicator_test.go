package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWorld(t *testing.T) {
	{ // Nobody passes the barrier before everyone has arrived
		var (
			size    = 8
			arrived int32
			passed  int32
		)
		err := Run(context.Background(), size, func(ctx context.Context, comm Communicator) error {
			atomic.AddInt32(&arrived, 1)
			if err := comm.Barrier(ctx); err != nil {
				return err
			}
			if atomic.LoadInt32(&arrived) != int32(size) {
				return errors.New("passed barrier early")
			}
			atomic.AddInt32(&passed, 1)
			// The barrier is reusable
			return comm.Barrier(ctx)
		})
		require.NoError(t, err)
		assert.Equal(t, int32(size), passed)
	}
	{ // Ranks are distinct and the size is shared
		seen := make([]int32, 5)
		require.NoError(t, Run(context.Background(), 5, func(ctx context.Context, comm Communicator) error {
			assert.Equal(t, 5, comm.Size())
			atomic.AddInt32(&seen[comm.Rank()], 1)
			return nil
		}))
		for _, s := range seen {
			assert.Equal(t, int32(1), s)
		}
	}
	{ // A failing rank releases the ranks waiting at the barrier
		boom := errors.New("boom")
		err := Run(context.Background(), 4, func(ctx context.Context, comm Communicator) error {
			if comm.Rank() == 2 {
				return boom
			}
			return comm.Barrier(ctx)
		})
		assert.ErrorIs(t, err, boom)
	}
	{ // Barrier honors cancellation
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		comm := NewLocalWorld(2).Comm(0)
		assert.ErrorIs(t, comm.Barrier(ctx), context.DeadlineExceeded)
	}
	{ // Single rank never blocks
		assert.NoError(t, Serial().Barrier(context.Background()))
		assert.Panics(t, func() { NewLocalWorld(0) })
		assert.Panics(t, func() { NewLocalWorld(2).Comm(2) })
	}
}
