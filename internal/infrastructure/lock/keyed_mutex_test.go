package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/lock"
)

func TestKeyedMutex_SerializaMismaClave(t *testing.T) {
	km := lock.NewKeyedMutex()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := km.Acquire(context.Background(), "BlockProduction:1")
			require.NoError(t, err)
			defer release()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside, "nunca dos dueños a la vez")
	assert.Equal(t, 0, km.Len(), "las claves sin dueño se liberan")
}

func TestKeyedMutex_ClavesDistintasNoSeBloquean(t *testing.T) {
	km := lock.NewKeyedMutex()
	releaseA, err := km.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := km.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()
	assert.Equal(t, 1, km.Len())
}

func TestKeyedMutex_ContextoCancelado(t *testing.T) {
	km := lock.NewKeyedMutex()
	release, err := km.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = km.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release() // liberar dos veces no hace nada
	assert.Equal(t, 0, km.Len())
}
