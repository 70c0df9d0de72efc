package mem

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func TestTTLCache_Expires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string](time.Minute, clock.Now)

	c.Set("prompt", "v1")
	v, ok := c.Get("prompt")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	clock.now = clock.now.Add(59 * time.Second)
	_, ok = c.Get("prompt")
	assert.True(t, ok)

	clock.now = clock.now.Add(time.Second)
	_, ok = c.Get("prompt")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestTTLCache_GetOrLoad(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := NewTTLCache[int](time.Minute, clock.Now)

	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.now = clock.now.Add(2 * time.Minute)
	v, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestTTLCache_LoaderErrorNotCached(t *testing.T) {
	c := NewTTLCache[string](time.Minute, nil)
	_, err := c.GetOrLoad("k", func() (string, error) { return "", errors.New("db down") })
	assert.Error(t, err)
	assert.Zero(t, c.Len())

	c.Set("k", "v")
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}
