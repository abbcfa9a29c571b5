package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocuments_GetCachesBody(t *testing.T) {
	d := NewDocuments()
	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{"ok":true}`), nil
	}

	first, err := d.Get(context.Background(), "a", fetch)
	require.NoError(t, err)
	second, err := d.Get(context.Background(), "a", fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, d.Len())
}

func TestDocuments_ErrorsAreNotCached(t *testing.T) {
	d := NewDocuments()
	boom := errors.New("boom")

	_, err := d.Get(context.Background(), "a", func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, d.Len())

	body, err := d.Get(context.Background(), "a", func(ctx context.Context) ([]byte, error) {
		return []byte("x"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), body)
}

func TestDocuments_ConcurrentMissesShareFetch(t *testing.T) {
	d := NewDocuments()
	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("doc"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := d.Get(context.Background(), "k", fetch)
			assert.NoError(t, err)
			assert.Equal(t, []byte("doc"), body)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(10))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	assert.Equal(t, 1, d.Len())
}

func TestDocuments_PrewarmBoundsConcurrency(t *testing.T) {
	d := NewDocuments()
	var inFlight, peak int32

	keys := make([]string, 20)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	fetch := func(ctx context.Context, key string) ([]byte, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if key == "key-3" {
			return nil, errors.New("upstream down")
		}
		return []byte(key), nil
	}

	warmed := d.Prewarm(context.Background(), keys, fetch, 4)

	assert.Equal(t, 19, warmed)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))

	body, err := d.Get(context.Background(), "key-7", func(ctx context.Context) ([]byte, error) {
		t.Fatal("key-7 should be cached")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("key-7"), body)
}
