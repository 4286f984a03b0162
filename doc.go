// Package pvector implements a persistent, bit-partitioned vector trie:
// an immutable, ordered collection offering effectively O(1) indexed
// access, append, update, and removal via structural sharing, plus a
// transient companion type for batched in-place mutation.
package pvector
