// Package memory provides the in-memory key-value store for respkv.
//
// Each key maps to an Entry holding a string value, its creation time and
// an optional expiry time. Expiry is lazy: nothing sweeps the map in the
// background, an expired entry stays resident until a read observes it
// and removes it (see Store.DeleteIfExpired). Workloads that write many
// short-lived keys and never read them back grow memory accordingly.
//
// Thread Safety:
//
// All operations are thread-safe. Get and IsExpired take read locks, Set
// and Delete take write locks, on top of the sharded map in pkg/cmap.
// With the default single shard this is one reader-writer lock over the
// whole store.
package memory
