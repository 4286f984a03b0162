package pvector

import "iter"

// ChunkedSeq is a lazy, chunk-granular view over a PersistentVector's
// elements, per spec.md §4.1.7. Advancing element by element (Next) still
// only fetches a new trie leaf once per branchFactor elements; ChunkedNext
// advances a full chunk at a time.
type ChunkedSeq[T any] struct {
	vec    PersistentVector[T]
	leaf   []T
	base   int
	offset int
}

func newChunkedSeq[T any](vec PersistentVector[T], base, offset int) ChunkedSeq[T] {
	return ChunkedSeq[T]{
		vec:    vec,
		leaf:   vec.leafChunk(base),
		base:   base,
		offset: offset,
	}
}

// First returns the element the sequence currently points to.
func (s ChunkedSeq[T]) First() T {
	return s.leaf[s.offset]
}

// Next advances the sequence by one element, returning false once the
// underlying vector is exhausted.
func (s ChunkedSeq[T]) Next() (ChunkedSeq[T], bool) {
	if s.offset+1 < len(s.leaf) {
		s.offset++
		return s, true
	}
	return s.ChunkedNext()
}

// ChunkedFirst returns the full chunk (leaf or tail) the sequence's current
// position falls in.
func (s ChunkedSeq[T]) ChunkedFirst() []T {
	return s.leaf
}

// ChunkedNext skips directly to the start of the next chunk, returning
// false if there is none.
func (s ChunkedSeq[T]) ChunkedNext() (ChunkedSeq[T], bool) {
	nextBase := s.base + len(s.leaf)
	if nextBase >= s.vec.count {
		return ChunkedSeq[T]{}, false
	}
	return newChunkedSeq(s.vec, nextBase, 0), true
}

// Count returns the number of elements remaining in the sequence,
// including the current one.
func (s ChunkedSeq[T]) Count() int {
	return s.vec.count - s.base - s.offset
}

// Drop skips n elements ahead of the sequence's current position.
func (s ChunkedSeq[T]) Drop(n int) (ChunkedSeq[T], bool) {
	return s.vec.Drop(s.base + s.offset + n)
}

// Reduce folds f over the sequence's remaining elements. Combine may return
// a Reduced value to stop early.
func (s ChunkedSeq[T]) Reduce(f Combiner) any {
	acc := f.Identity()
	return s.ReduceFrom(f.Combine, acc)
}

// ReduceFrom folds f over the sequence's remaining elements, starting from
// init.
func (s ChunkedSeq[T]) ReduceFrom(f func(acc, x any) any, init any) any {
	acc := init
	seq, ok := s, true
	for ok {
		for i := seq.offset; i < len(seq.leaf); i++ {
			acc = f(acc, seq.leaf[i])
			if IsReduced(acc) {
				return Unwrap(acc)
			}
		}
		seq, ok = seq.ChunkedNext()
	}
	return acc
}

// All returns a stdlib iterator over the sequence's remaining elements,
// for use with range-over-func.
func (s ChunkedSeq[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		seq, ok := s, true
		for ok {
			for i := seq.offset; i < len(seq.leaf); i++ {
				if !yield(seq.leaf[i]) {
					return
				}
			}
			seq, ok = seq.ChunkedNext()
		}
	}
}
