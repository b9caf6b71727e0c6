package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()

	l := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func TestInline(t *testing.T) {
	ran := false
	Inline(func() { ran = true })
	assert.True(t, ran)
}

func TestLoop_runs_in_post_order(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := range 100 {
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Call(context.Background(), func() {}))

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_Post_from_many_goroutines(t *testing.T) {
	l := startLoop(t)

	count := 0
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				l.Post(func() { count++ })
			}
		}()
	}
	wg.Wait()

	var final int
	require.NoError(t, l.Call(context.Background(), func() { final = count }))
	assert.Equal(t, 500, final)
}

func TestLoop_Post_from_inside_loop(t *testing.T) {
	l := startLoop(t)

	var order []string
	done := make(chan struct{})
	l.Post(func() {
		order = append(order, "outer")
		l.Post(func() {
			order = append(order, "inner")
			close(done)
		})
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested post did not run")
	}
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestLoop_recovers_panics(t *testing.T) {
	l := startLoop(t)

	recovered := make(chan any, 1)
	l.OnPanic(func(r any) { recovered <- r })
	l.OnPanic(func(any) { panic("hooks may panic too") })

	l.Post(func() { panic("boom") })

	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran, "loop keeps running after a panic")
	assert.Equal(t, "boom", <-recovered)
}

func TestLoop_Run_returns_on_cancel(t *testing.T) {
	l := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestLoop_Call_respects_context(t *testing.T) {
	l := New(zerolog.Nop()) // never run

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Call(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.Len())
}
