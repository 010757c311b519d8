package lockx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop_NeverBlocks(t *testing.T) {
	var l Locker = Noop{}
	u1, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	u2, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	u1()
	u2()
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	k := NewKeyedMutex()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(context.Background(), "alice")
			if err != nil {
				t.Error(err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, k.size(), "entries are dropped after release")
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	k := NewKeyedMutex()

	ua, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer ua()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ub, err := k.Lock(ctx, "b")
	require.NoError(t, err)
	ub()
}

func TestKeyedMutex_ContextCancelWhileWaiting(t *testing.T) {
	k := NewKeyedMutex()

	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Lock(ctx, "a")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op
	assert.Equal(t, 0, k.size())
}

type failingLocker struct {
	failOn string
	held   map[string]bool
}

func (f *failingLocker) Lock(_ context.Context, key string) (Unlock, error) {
	if key == f.failOn {
		return nil, errors.New("nope")
	}
	f.held[key] = true
	return func() { delete(f.held, key) }, nil
}

func TestLockAll_SortsDedupsAndReleases(t *testing.T) {
	k := NewKeyedMutex()

	unlock, err := LockAll(context.Background(), k, "user:b", "user:a", "user:b")
	require.NoError(t, err)
	assert.Equal(t, 2, k.size())
	unlock()
	assert.Equal(t, 0, k.size())
}

func TestLockAll_ReleasesOnFailure(t *testing.T) {
	f := &failingLocker{failOn: "z", held: map[string]bool{}}

	_, err := LockAll(context.Background(), f, "z", "a")
	require.Error(t, err)
	assert.Empty(t, f.held)
}
