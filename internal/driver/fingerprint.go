package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"nestml/internal/units"
)

// Digest is a SHA-256 value used to key cached check outcomes.
type Digest [sha256.Size]byte

// IsZero reports an unset digest.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// fingerprintTargets hashes the canonical-target table so a cache built
// under one magnitude convention never serves another. Nil means the
// built-in defaults and hashes the same for every caller.
func fingerprintTargets(targets units.Targets) Digest {
	if targets == nil {
		targets = units.DefaultTargets()
	}
	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(targets[k]))
		h.Write([]byte{0})
	}
	var out Digest
	h.Sum(out[:0])
	return out
}

// modelKey binds the cache entry to the exact dump bytes, the target
// table, and the payload schema.
func modelKey(content, targets Digest) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	h.Write(schema[:])
	h.Write(content[:])
	h.Write(targets[:])
	var out Digest
	h.Sum(out[:0])
	return out
}
