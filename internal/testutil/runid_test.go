package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIDs_Sequence(t *testing.T) {
	ids := NewRunIDs("batch")

	assert.Equal(t, "batch-0001", ids.Next())
	assert.Equal(t, "batch-0002", ids.Next())

	ids.Reset()
	assert.Equal(t, "batch-0001", ids.Next())
}

func TestRunIDs_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "run-0001", NewRunIDs("").Next())
}

func TestRunIDs_Concurrent(t *testing.T) {
	ids := NewRunIDs("")

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := ids.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
	assert.Equal(t, "run-1001", ids.Next())
}

func TestFixedRunID(t *testing.T) {
	gen := FixedRunID("run-0001")
	assert.Equal(t, "run-0001", gen())
	assert.Equal(t, "run-0001", gen())
}
