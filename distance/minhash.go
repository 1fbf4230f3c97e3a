// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package distance

import (
	"math"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"

	"go.chromium.org/luci/common/data/stringset"
)

// DefaultNumHashes is the default MinHash signature length.
const DefaultNumHashes = 128

// Signature is a MinHash signature of a set.
type Signature []uint64

// MinHash estimates Jaccard distance from MinHash signatures.
//
// Signatures are memoized by set identity, so sets passed to SetDistance must
// not be modified afterwards. Coverage stores satisfy this. Memoized sets are
// retained for the lifetime of the MinHash; use one MinHash per group of
// stores.
type MinHash struct {
	seeds []uint64
	cache sync.Map // uintptr -> *cacheEntry
}

// NewMinHash creates a MinHash metric with numHashes hash functions derived
// from seed. If numHashes <= 0, DefaultNumHashes is used.
func NewMinHash(numHashes int, seed uint64) *MinHash {
	if numHashes <= 0 {
		numHashes = DefaultNumHashes
	}
	m := &MinHash{seeds: make([]uint64, numHashes)}
	for i := range m.seeds {
		seed += 0x9e3779b97f4a7c15
		m.seeds[i] = mix(seed)
	}
	return m
}

// Signature computes the signature of s.
func (m *MinHash) Signature(s stringset.Set) Signature {
	sig := make(Signature, len(m.seeds))
	for i := range sig {
		sig[i] = math.MaxUint64
	}
	for e := range s {
		h := xxhash.Sum64String(e)
		for i, seed := range m.seeds {
			if v := mix(h ^ seed); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// SetDistance implements SetMetric.
func (m *MinHash) SetDistance(a, b stringset.Set) float64 {
	sa := m.cached(a)
	sb := m.cached(b)
	same := 0
	for i := range sa {
		if sa[i] == sb[i] {
			same++
		}
	}
	return 1 - float64(same)/float64(len(sa))
}

func (m *MinHash) cached(s stringset.Set) Signature {
	if s == nil {
		return m.Signature(s)
	}
	key := reflect.ValueOf(s).Pointer()
	if e, ok := m.cache.Load(key); ok {
		return e.(*cacheEntry).sig
	}
	e, _ := m.cache.LoadOrStore(key, &cacheEntry{set: s, sig: m.Signature(s)})
	return e.(*cacheEntry).sig
}

// cacheEntry is a memoized signature.
// It references the set, so the set's address is not reused while cached.
type cacheEntry struct {
	set stringset.Set
	sig Signature
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
