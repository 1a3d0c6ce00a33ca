package liststore

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerOnlyLastTriggerFires(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var got atomic.Value
	var fires atomic.Int32
	for _, v := range []string{"a", "ab", "abc"} {
		v := v
		d.Trigger(func() {
			got.Store(v)
			fires.Add(1)
		})
	}

	require.Eventually(t, func() bool {
		return fires.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "abc", got.Load())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
}

func TestDebouncerCancelDropsPendingCallback(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fires atomic.Int32
	d.Trigger(func() { fires.Add(1) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fires.Load())
}

func TestDebouncerReusableAfterCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var fires atomic.Int32
	d.Trigger(func() { fires.Add(1) })
	d.Cancel()
	d.Trigger(func() { fires.Add(1) })

	require.Eventually(t, func() bool {
		return fires.Load() == 1
	}, time.Second, 5*time.Millisecond)
}
