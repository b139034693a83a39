package bt

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlackboard_BasicOperations(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)

	// Test Set and Get
	bb.Set("key1", "value1")
	require.Equal(t, "value1", bb.Get("key1"))

	// Test non-existent key
	require.Nil(t, bb.Get("nonexistent"))

	// Test Has
	require.True(t, bb.Has("key1"))
	require.False(t, bb.Has("nonexistent"))

	// Test various types
	bb.Set("int", 42)
	bb.Set("bool", true)
	bb.Set("slice", []int{1, 2, 3})

	require.Equal(t, 42, bb.Get("int"))
	require.Equal(t, true, bb.Get("bool"))
	require.Equal(t, []int{1, 2, 3}, bb.Get("slice"))
}

func TestBlackboard_ZeroValueReads(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	require.Nil(t, bb.Snapshot())
	require.Zero(t, bb.Len())
	require.False(t, bb.GetBool("x"))
	require.False(t, bb.Has("x"))
}

func TestBlackboard_GetBool(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	bb.Set("yes", true)
	bb.Set("no", false)
	bb.Set("one", 1)

	require.True(t, bb.GetBool("yes"))
	require.False(t, bb.GetBool("no"))
	require.False(t, bb.GetBool("one"))
	require.False(t, bb.GetBool("missing"))
}

func TestBlackboard_MergeAndUpdate(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	bb.Merge(map[string]any{"wood": 0, "has_axe": false})
	require.Equal(t, 2, bb.Len())

	err := bb.Update(func(data map[string]any) error {
		data["wood"] = data["wood"].(int) + 1
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, bb.Get("wood"))

	boom := errors.New("boom")
	require.ErrorIs(t, bb.Update(func(map[string]any) error { return boom }), boom)
}

func TestBlackboard_Snapshot(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	bb.Set("a", 1)
	bb.Set("b", "two")

	snapshot := bb.Snapshot()

	require.Equal(t, 1, snapshot["a"])
	require.Equal(t, "two", snapshot["b"])
	require.Len(t, snapshot, 2)

	// Verify snapshot is a copy (modifying it doesn't affect original)
	snapshot["c"] = 3
	require.False(t, bb.Has("c"))
}

func TestBlackboard_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	bb.Set("counter", 0)

	const workers = 16
	const iterations = 100
	var wg sync.WaitGroup
	for g := 0; g < workers; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = bb.Update(func(data map[string]any) error {
					data["counter"] = data["counter"].(int) + 1
					return nil
				})
				bb.Set(fmt.Sprintf("key-%d", id), i)
				_ = bb.Snapshot()
				_ = bb.Len()
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, workers*iterations, bb.Get("counter"))
	require.Equal(t, workers+1, bb.Len())
}
