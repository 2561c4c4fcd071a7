package id

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"sync"
)

// NanoIDGen returns a new URL-safe random ID on every call.
type NanoIDGen func() string

var ErrInvalidNanoIDLength = errors.New("[nano-id] length must be within [2, 255]")

const nanoIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// ClassicNanoID reads random bytes in batches of length*length*8 and maps
// each byte to the 64 symbols alphabet by its low 6 bits.
func ClassicNanoID(length int) (NanoIDGen, error) {
	if length < 2 || length > 255 {
		return nil, fmt.Errorf("length %d: %w", length, ErrInvalidNanoIDLength)
	}

	preAllocSize := length * length * 8
	pool := make([]byte, preAllocSize)
	if _, err := crand.Read(pool); err != nil {
		return nil, fmt.Errorf("[nano-id] pre-allocate bytes failed, %w", err)
	}
	nanoID := make([]byte, length)
	offset := 0
	mask := byte(len(nanoIDAlphabet) - 1)

	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if offset == preAllocSize {
			if _, err := crand.Read(pool); /* impossible */ err != nil {
				panic(fmt.Errorf("[nano-id] pre-allocate bytes failed (run out of data), %w", err))
			}
			offset = 0
		}
		for i := 0; i < length; i++ {
			nanoID[i] = nanoIDAlphabet[pool[i+offset]&mask]
		}
		offset += length
		return string(nanoID)
	}, nil
}
