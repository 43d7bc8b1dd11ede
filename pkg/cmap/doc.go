// Package cmap provides the concurrent map behind the respkv store.
//
// Keys are spread over a power-of-two number of shards by their murmur3
// hash, each shard guarded by its own sync.RWMutex. Get takes the shard's
// read lock; Swap, Pop and DeleteIf take its write lock.
//
// The default is a single shard, which gives the classic single
// reader-writer lock: concurrent readers never block each other, a writer
// excludes all readers and writers. Raising the shard count lets writers
// on one key proceed alongside readers of keys in other shards.
//
//	m := cmap.New[*Entry](16)
//	m.Swap("key", entry)
//	val, ok := m.Get("key")
package cmap
