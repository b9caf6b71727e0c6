package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_Advance_fires_in_instant_order(t *testing.T) {
	m := NewManual(epoch)

	var fired []string
	_, err := m.AfterFunc(epoch.Add(3*time.Second), func() { fired = append(fired, "3s") })
	require.NoError(t, err)
	_, err = m.AfterFunc(epoch.Add(1*time.Second), func() { fired = append(fired, "1s") })
	require.NoError(t, err)
	_, err = m.AfterFunc(epoch.Add(5*time.Second), func() { fired = append(fired, "5s") })
	require.NoError(t, err)

	m.Advance(4 * time.Second)

	assert.Equal(t, []string{"1s", "3s"}, fired)
	assert.Equal(t, epoch.Add(4*time.Second), m.Now())
	assert.Equal(t, 1, m.Active())
}

func TestManual_callback_sees_timer_instant(t *testing.T) {
	m := NewManual(epoch)

	var seen time.Time
	_, err := m.AfterFunc(epoch.Add(2*time.Second), func() { seen = m.Now() })
	require.NoError(t, err)

	m.Advance(10 * time.Second)

	assert.Equal(t, epoch.Add(2*time.Second), seen)
}

func TestManual_callback_can_arm_within_window(t *testing.T) {
	m := NewManual(epoch)

	count := 0
	var arm func()
	arm = func() {
		count++
		if count < 3 {
			_, _ = m.AfterFunc(m.Now().Add(time.Second), arm)
		}
	}
	_, err := m.AfterFunc(epoch.Add(time.Second), arm)
	require.NoError(t, err)

	m.Advance(5 * time.Second)

	assert.Equal(t, 3, count)
	assert.Zero(t, m.Active())
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	h, err := m.AfterFunc(epoch.Add(time.Second), func() { fired = true })
	require.NoError(t, err)

	h.Stop()
	h.Stop()
	m.Advance(time.Minute)

	assert.False(t, fired)
	assert.Zero(t, m.Active())
}

func TestManual_past_instant_fires_on_zero_advance(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	_, err := m.AfterFunc(epoch.Add(-time.Second), func() { fired = true })
	require.NoError(t, err)

	m.Advance(0)

	assert.True(t, fired)
	assert.Equal(t, epoch, m.Now(), "clock never moves backwards")
}

func TestManual_FailNext(t *testing.T) {
	m := NewManual(epoch)
	boom := errors.New("boom")

	m.FailNext(boom)
	_, err := m.AfterFunc(epoch, func() {})
	require.ErrorIs(t, err, boom)

	_, err = m.AfterFunc(epoch, func() {})
	assert.NoError(t, err)
}

func TestManual_Next(t *testing.T) {
	m := NewManual(epoch)

	_, ok := m.Next()
	assert.False(t, ok)

	_, _ = m.AfterFunc(epoch.Add(2*time.Second), func() {})
	_, _ = m.AfterFunc(epoch.Add(time.Second), func() {})

	next, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(time.Second), next)
}

func TestManual_Set_does_not_fire(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	_, err := m.AfterFunc(epoch.Add(time.Second), func() { fired = true })
	require.NoError(t, err)

	m.Set(epoch.Add(time.Hour))
	assert.False(t, fired)
	assert.Equal(t, epoch.Add(time.Hour), m.Now())

	m.Advance(0)
	assert.True(t, fired)
}
