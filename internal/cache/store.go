// Package cache provides content-addressed storage for compilation
// artifacts. Entries are keyed by the digest of the canonical compiler
// input, so identical inputs resolve to identical keys no matter which
// project or machine produced them.
package cache

import (
	"fmt"
)

// Kind selects which document an entry holds for a given key.
type Kind string

const (
	// KindInput stores the compiler input document that produced a key.
	KindInput Kind = "compile_config"

	// KindOutput stores the compiler output document for a key.
	KindOutput Kind = "compile_output"
)

// CacheSubdir is the subdirectory for compilation cache entries under
// the tool's home directory.
const CacheSubdir = "cache/compile"

// Store is the cache backend used by the compilation pipeline. A key is
// the hex digest of the canonical compiler input; both the input and
// output documents are filed under the same key.
type Store interface {
	// Has reports whether an entry exists for the key.
	Has(kind Kind, key string) bool

	// Read returns the stored document for the key.
	Read(kind Kind, key string) ([]byte, error)

	// Write stores a document under the key, replacing any previous entry.
	Write(kind Kind, key string, data []byte) error

	// Lock acquires an exclusive per-key lock and returns the release
	// function. Concurrent compilations of the same input serialize on
	// this lock so only one of them invokes the compiler.
	Lock(key string) (func() error, error)
}

// Filename returns the entry file name for a kind and key.
func Filename(kind Kind, key string) string {
	return fmt.Sprintf("%s_%s.json", kind, key)
}

// isValidKey checks that a key is a 64-character lowercase hex digest.
func isValidKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// NotCachedError reports a cache miss on Read.
type NotCachedError struct {
	Kind Kind
	Key  string
}

func (e *NotCachedError) Error() string {
	return fmt.Sprintf("no cached %s entry for key %s", e.Kind, e.Key)
}

// InvalidKeyError reports a key that is not a hex digest.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid cache key: %q", e.Key)
}
