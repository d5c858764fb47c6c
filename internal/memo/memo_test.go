package memo

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

func TestMemo_CachesSuccess(t *testing.T) {
	ctx := context.Background()
	m, err := New[string](4)
	require.NoError(t, err)

	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "상위권대학교", nil
	}

	v, cached, err := m.Do(ctx, "k", fn)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "상위권대학교", v)

	v, cached, err = m.Do(ctx, "k", fn)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "상위권대학교", v)
	assert.Equal(t, 1, calls)

	hits, misses := m.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestMemo_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	m, err := New[int](4)
	require.NoError(t, err)

	_, _, err = m.Do(ctx, "k", func(context.Context) (int, error) { return 0, errors.New("llm unavailable") })
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())

	v, _, err := m.Do(ctx, "k", func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestMemo_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m, err := New[int](2)
	require.NoError(t, err)

	value := func(n int) func(context.Context) (int, error) { return func(context.Context) (int, error) { return n, nil } }

	_, _, _ = m.Do(ctx, "a", value(1))
	_, _, _ = m.Do(ctx, "b", value(2))
	_, _, _ = m.Do(ctx, "a", value(1)) // touch a
	_, _, _ = m.Do(ctx, "c", value(3)) // evicts b

	_, cached, _ := m.Do(ctx, "a", value(1))
	assert.True(t, cached)

	calls := 0
	_, cached, _ = m.Do(ctx, "b", func(context.Context) (int, error) { calls++; return 2, nil })
	assert.False(t, cached)
	assert.Equal(t, 1, calls)
}

func TestMemo_ConcurrentMissesShareOneCall(t *testing.T) {
	m, err := New[string](8)
	require.NoError(t, err)

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "중위권대학교", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := m.Do(context.Background(), "same", fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "중위권대학교", r)
	}
}

func TestMemo_CancelledCallerDoesNotFailOthers(t *testing.T) {
	m, err := New[string](8)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var sawCancel atomic.Bool
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			sawCancel.Store(true)
			return "", ctx.Err()
		}
		return "상위권대학교", nil
	}

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := m.Do(first, "same", fn)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, _, err := m.Do(context.Background(), "same", fn)
		second <- result{v, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "상위권대학교", got.v)
	assert.False(t, sawCancel.Load())
	assert.Equal(t, int32(1), calls.Load())

	v, cached, err := m.Do(context.Background(), "same", fn)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "상위권대학교", v)
}

func TestMemo_CallKeepsContextValues(t *testing.T) {
	type key struct{}
	m, err := New[string](4)
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), key{}, "req-1")
	v, _, err := m.Do(ctx, "k", func(ctx context.Context) (string, error) {
		s, _ := ctx.Value(key{}).(string)
		return s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", v)
}

func TestMemo_TimeoutBoundsSharedCall(t *testing.T) {
	m, err := New[string](4, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, _, err = m.Do(context.Background(), "k", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, m.Len())
}

func TestMemo_AlreadyCancelledCallerSkipsCall(t *testing.T) {
	m, err := New[string](4)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, _, err = m.Do(ctx, "k", func(context.Context) (string, error) {
		called = true
		return "x", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFingerprint_Deterministic(t *testing.T) {
	a, err := Fingerprint(map[string]int{"b": 2, "a": 1}, []string{"x"}, "template")
	require.NoError(t, err)
	b, err := Fingerprint(map[string]int{"a": 1, "b": 2}, []string{"x"}, "template")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprint_TemplateChangesKey(t *testing.T) {
	a, _ := Fingerprint("서울대학교", "prompt v1")
	b, _ := Fingerprint("서울대학교", "prompt v2")

	assert.NotEqual(t, a, b)
}

func TestFingerprint_UnencodableInput(t *testing.T) {
	_, err := Fingerprint(make(chan int))
	assert.Error(t, err)
}
