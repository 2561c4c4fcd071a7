package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNanoID(t *testing.T) {
	nanoID, err := ClassicNanoID(8)
	require.NoError(t, err)
	seen := make(map[string]struct{}, 1000)
	// 1000 ids exhaust the 8*8*8 bytes pool several times.
	for i := 0; i < 1000; i++ {
		id := nanoID()
		require.Len(t, id, 8)
		for _, c := range id {
			require.True(t, strings.ContainsRune(nanoIDAlphabet, c))
		}
		seen[id] = struct{}{}
	}
	require.Greater(t, len(seen), 990)
}

func TestNanoID_InvalidLength(t *testing.T) {
	for _, length := range []int{-1, 0, 1, 256} {
		_, err := ClassicNanoID(length)
		require.ErrorIs(t, err, ErrInvalidNanoIDLength)
	}
}

func TestNanoID_Concurrent(t *testing.T) {
	nanoID, err := ClassicNanoID(12)
	require.NoError(t, err)
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		ids  = make(map[string]struct{}, 800)
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := nanoID()
				lock.Lock()
				ids[id] = struct{}{}
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, ids, 800)
}

func BenchmarkNanoID(b *testing.B) {
	nanoID, err := ClassicNanoID(8)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = nanoID()
	}
	b.ReportAllocs()
}
