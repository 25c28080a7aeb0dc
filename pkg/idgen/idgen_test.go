package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Unique(t *testing.T) {
	gen, err := New(7)
	require.NoError(t, err)

	const workers, perWorker = 8, 500
	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.NextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNew_RejectsOutOfRangeNode(t *testing.T) {
	_, err := New(4096)
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	a := Default().NextInt64()
	b := Default().NextInt64()
	assert.Greater(t, b, a)
}
