package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownHook_RunsNewestFirst(t *testing.T) {
	hook := NewShutdownHook()

	var order []string
	for _, name := range []string{"touchpad", "virtual mouse", "controller"} {
		hook.Register(name, func() error {
			order = append(order, name)
			return nil
		})
	}
	require.Equal(t, 3, hook.Count())

	require.NoError(t, hook.Shutdown())
	assert.Equal(t, []string{"controller", "virtual mouse", "touchpad"}, order)
	assert.Equal(t, 0, hook.Count())
}

func TestShutdownHook_ContinuesAfterError(t *testing.T) {
	hook := NewShutdownHook()
	boom := errors.New("cleanup failed")

	ran := 0
	hook.Register("first", func() error { ran++; return nil })
	hook.Register("failing", func() error { ran++; return boom })
	hook.Register("last", func() error { ran++; return nil })

	err := hook.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.Equal(t, 3, ran)
	assert.Equal(t, 0, hook.Count())
}

func TestShutdownHook_Empty(t *testing.T) {
	assert.NoError(t, NewShutdownHook().Shutdown())
}

func TestShutdownHook_RunsOnce(t *testing.T) {
	hook := NewShutdownHook()
	calls := 0
	hook.Register("once", func() error { calls++; return nil })

	require.NoError(t, hook.Shutdown())
	require.NoError(t, hook.Shutdown())
	assert.Equal(t, 1, calls)
}

func TestShutdownHook_ConcurrentRegister(t *testing.T) {
	hook := NewShutdownHook()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hook.Register(fmt.Sprintf("hook-%d", n), func() error { return nil })
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, hook.Count())
	assert.NoError(t, hook.Shutdown())
}
