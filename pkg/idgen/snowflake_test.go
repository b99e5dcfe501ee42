package idgen

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDUnique(t *testing.T) {
	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				ids = append(ids, NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker, "ids must be unique across goroutines")
}

func TestGenerateTransactionNo(t *testing.T) {
	nos := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		nos = append(nos, GenerateTransactionNo())
	}

	for _, no := range nos {
		require.True(t, strings.HasPrefix(no, "TXN"), "unexpected format %q", no)
	}

	// lexical order must follow creation order, the history query relies on it
	assert.True(t, sort.StringsAreSorted(nos), "transaction numbers must sort in creation order")

	unique := make(map[string]struct{}, len(nos))
	for _, no := range nos {
		unique[no] = struct{}{}
	}
	assert.Len(t, unique, len(nos))
}
