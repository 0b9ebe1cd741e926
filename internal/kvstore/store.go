// Package kvstore is the persistence layer of the storefront: a flat,
// string-keyed store of JSON blobs surviving restarts, the server-side
// equivalent of one browser profile's local storage. Every domain
// collection is serialized whole under a per-principal key.
package kvstore

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is a string-keyed JSON blob store. Implementations must treat a
// corrupt stored blob as absent so a damaged collection degrades to empty
// instead of failing the caller.
type Store interface {
	// Get unmarshals the blob under key into out and reports whether a
	// usable value was found.
	Get(key string, out interface{}) (bool, error)

	// Put serializes val and stores it whole under key, replacing any
	// previous blob.
	Put(key string, val interface{}) error

	Delete(key string) error

	// Keys returns all keys with the given prefix.
	Keys(prefix string) ([]string, error)

	Close() error
}

// Notifier is implemented by stores that can report key changes, the
// stand-in for the cross-tab storage change listener.
type Notifier interface {
	OnChange(fn func(key string))
}
