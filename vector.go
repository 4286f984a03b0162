package pvector

import (
	"fmt"
	"iter"
)

// PersistentVector is the immutable, reference-counted-by-the-Go-runtime
// ordered collection described in spec.md §3. Every operation that changes
// its contents returns a new PersistentVector; the receiver is never
// mutated.
type PersistentVector[T any] struct {
	count int
	shift int
	root  *node[T]
	tail  []T
	meta  map[string]any
}

// tailoff returns the boundary between trie-resident and tail-resident
// indices for a vector of the given count: elements [0, tailoff) live in
// the trie, [tailoff, count) live in the tail.
func tailoff(count int) int {
	if count < branchFactor {
		return 0
	}
	return ((count - 1) >> bitsPerLevel) << bitsPerLevel
}

// isDeepEnoughToAppend reports whether a tree of the given shift has room
// for one more leaf without growing taller.
func isDeepEnoughToAppend(shift, count int) bool {
	return (count >> bitsPerLevel) <= (1 << shift)
}

func cloneValues[T any](s []T) []T {
	c := make([]T, len(s))
	copy(c, s)
	return c
}

// Empty returns an empty vector: count 0 and a frozen sentinel root, which
// each call constructs afresh and every vector derived from it shares. shift floors at bitsPerLevel rather than 0: the push
// arithmetic in pushTail/newPath assumes the root's immediate children are
// leaves once the tail first overflows, which only holds if shift starts
// at one full level, exactly as the teacher's newVector does.
func Empty[T any]() PersistentVector[T] {
	return PersistentVector[T]{shift: bitsPerLevel, root: emptyNode[T]()}
}

// FromArray builds a vector containing a copy of arr's elements, in order.
func FromArray[T any](arr []T) PersistentVector[T] {
	tv := Empty[T]().AsTransient()
	for _, v := range arr {
		_ = tv.Conj(v) // Conj cannot fail on a freshly created transient.
	}
	pv, _ := tv.Persistent()
	return pv
}

// FromSequence consumes seq and builds a vector from its values, in order.
func FromSequence[T any](seq iter.Seq[T]) PersistentVector[T] {
	tv := Empty[T]().AsTransient()
	for v := range seq {
		_ = tv.Conj(v)
	}
	pv, _ := tv.Persistent()
	return pv
}

// Adopt takes ownership of arr as a vector's tail, avoiding the copy
// FromArray makes. Per spec.md §9, this is only well-formed when
// len(arr) <= branchFactor (a single full leaf's worth, with an otherwise
// empty tree); larger arrays are rejected with ErrInvalidAdopt rather than
// silently reconstructed, since adopt's whole point is avoiding the
// reconstruction cost FromSequence pays.
func Adopt[T any](arr []T) (PersistentVector[T], error) {
	if len(arr) > branchFactor {
		return PersistentVector[T]{}, newError(KindInvalidAdopt, "Adopt",
			fmt.Sprintf("array of length %d exceeds branch factor %d; use FromSequence instead", len(arr), branchFactor))
	}
	return PersistentVector[T]{
		count: len(arr),
		shift: bitsPerLevel,
		root:  emptyNode[T](),
		tail:  arr,
	}, nil
}

// Count returns the number of elements in v.
func (v PersistentVector[T]) Count() int { return v.count }

// Meta returns v's attached metadata, or nil if none is attached.
func (v PersistentVector[T]) Meta() map[string]any { return v.meta }

// WithMeta returns a copy of v with its metadata replaced.
func (v PersistentVector[T]) WithMeta(meta map[string]any) PersistentVector[T] {
	v.meta = meta
	return v
}

// EmptyOf returns the empty vector, preserving v's metadata.
func (v PersistentVector[T]) EmptyOf() PersistentVector[T] {
	return PersistentVector[T]{shift: bitsPerLevel, root: emptyNode[T](), meta: v.meta}
}

// Nth returns the element at index i, or IndexOutOfBounds if i is outside
// [0, Count()).
func (v PersistentVector[T]) Nth(i int) (T, error) {
	var zero T
	if i < 0 || i >= v.count {
		return zero, indexOutOfBoundsError("Nth", i, v.count)
	}
	return v.nthUnchecked(i), nil
}

// NthOr returns the element at index i, or notFound if i is out of range.
func (v PersistentVector[T]) NthOr(i int, notFound T) T {
	if i < 0 || i >= v.count {
		return notFound
	}
	return v.nthUnchecked(i)
}

func (v PersistentVector[T]) nthUnchecked(i int) T {
	if i >= tailoff(v.count) {
		return v.tail[indexAt(0, i)]
	}
	n := v.root
	for level := v.shift; level > 0; level -= bitsPerLevel {
		n = n.childAt(indexAt(level, i))
	}
	return n.valueAt(indexAt(0, i))
}

// AssocN returns a new vector with position i set to val, path-copying from
// root to leaf and sharing every untouched subtree. i == Count() behaves
// like Cons; any other index outside [0, Count()] is IndexOutOfBounds.
func (v PersistentVector[T]) AssocN(i int, val T) (PersistentVector[T], error) {
	if i == v.count {
		return v.Cons(val), nil
	}
	if i < 0 || i >= v.count {
		return PersistentVector[T]{}, indexOutOfBoundsError("AssocN", i, v.count)
	}
	if i >= tailoff(v.count) {
		newTail := cloneValues(v.tail)
		newTail[indexAt(0, i)] = val
		return PersistentVector[T]{count: v.count, shift: v.shift, root: v.root, tail: newTail, meta: v.meta}, nil
	}
	newRoot := doAssoc(v.shift, v.root, i, val)
	return PersistentVector[T]{count: v.count, shift: v.shift, root: newRoot, tail: v.tail, meta: v.meta}, nil
}

func doAssoc[T any](level int, n *node[T], i int, val T) *node[T] {
	ret := n.clone(frozenToken)
	if level == 0 {
		ret.array[indexAt(0, i)] = val
		return ret
	}
	idx := indexAt(level, i)
	ret.array[idx] = doAssoc(level-bitsPerLevel, n.childAt(idx), i, val)
	return ret
}

// Cons returns a new vector with val appended, per spec.md §4.1.4.
func (v PersistentVector[T]) Cons(val T) PersistentVector[T] {
	if v.count-tailoff(v.count) < branchFactor {
		newTail := make([]T, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = val
		return PersistentVector[T]{count: v.count + 1, shift: v.shift, root: v.root, tail: newTail, meta: v.meta}
	}

	tailNode := newLeafFromTail[T](frozenToken, v.tail)
	newShift := v.shift
	var newRoot *node[T]

	if !isDeepEnoughToAppend(v.shift, v.count) {
		newRoot = newInternalNode[T](frozenToken)
		newRoot.array[0] = v.root
		newRoot.array[1] = newPath(frozenToken, v.shift, tailNode)
		newShift = v.shift + bitsPerLevel
	} else {
		newRoot = pushTail(frozenToken, v.shift, v.count, v.root, tailNode)
	}

	return PersistentVector[T]{
		count: v.count + 1,
		shift: newShift,
		root:  newRoot,
		tail:  []T{val},
		meta:  v.meta,
	}
}

func pushTail[T any](token *editToken, level, count int, parent, tailNode *node[T]) *node[T] {
	idx := indexAt(level, count-1)
	ret := parent.clone(token)

	var toInsert *node[T]
	if level == bitsPerLevel {
		toInsert = tailNode
	} else if child := parent.childAt(idx); child != nil {
		toInsert = pushTail(token, level-bitsPerLevel, count, child, tailNode)
	} else {
		toInsert = newPath(token, level-bitsPerLevel, tailNode)
	}

	ret.array[idx] = toInsert
	return ret
}

// Pop returns a new vector without its last element. Pop on an empty vector
// is EmptyPop.
func (v PersistentVector[T]) Pop() (PersistentVector[T], error) {
	switch {
	case v.count == 0:
		return PersistentVector[T]{}, newError(KindEmptyPop, "Pop", "pop on empty vector")
	case v.count == 1:
		return PersistentVector[T]{shift: bitsPerLevel, root: emptyNode[T](), meta: v.meta}, nil
	}

	if v.count-tailoff(v.count) > 1 {
		newTail := cloneValues(v.tail[:len(v.tail)-1])
		return PersistentVector[T]{count: v.count - 1, shift: v.shift, root: v.root, tail: newTail, meta: v.meta}, nil
	}

	newTail := v.leafValuesFor(v.count - 2)
	newRoot := popTail(frozenToken, v.shift, v.count, v.root)
	newShift := v.shift
	if newRoot == nil {
		newRoot = emptyNode[T]()
	}
	// Per spec.md §4.1.5: if the surviving root has at most a single child
	// at slot 0 and there's more than one level left, the tree sheds a
	// level. (The teacher's equivalent check detects this case but never
	// swaps the child in; that looks like a latent bug in a small personal
	// repo rather than an intentional choice, so this port follows the
	// spec's explicit contract — see DESIGN.md.)
	if v.shift > bitsPerLevel && newRoot.childAt(1) == nil {
		if child := newRoot.childAt(0); child != nil {
			newRoot = child
		} else {
			newRoot = emptyNode[T]()
		}
		newShift -= bitsPerLevel
	}

	return PersistentVector[T]{count: v.count - 1, shift: newShift, root: newRoot, tail: newTail, meta: v.meta}, nil
}

// leafValuesFor returns a fresh copy of the full leaf array holding index i.
func (v PersistentVector[T]) leafValuesFor(i int) []T {
	n := v.root
	for level := v.shift; level > 0; level -= bitsPerLevel {
		n = n.childAt(indexAt(level, i))
	}
	out := make([]T, branchFactor)
	for j := range out {
		out[j] = n.valueAt(j)
	}
	return out
}

func popTail[T any](token *editToken, level, count int, n *node[T]) *node[T] {
	subidx := indexAt(level, count-2)
	if level > bitsPerLevel {
		newChild := popTail(token, level-bitsPerLevel, count, n.childAt(subidx))
		if newChild == nil && subidx == 0 {
			return nil
		}
		ret := n.clone(token)
		ret.array[subidx] = newChild
		return ret
	}
	if subidx == 0 {
		return nil
	}
	ret := n.clone(token)
	ret.array[subidx] = nil
	return ret
}

// AsTransient snapshots v into a TransientVector for a batch of in-place
// mutations, per spec.md §3/§4.2.1.
func (v PersistentVector[T]) AsTransient() *TransientVector[T] {
	token := newEditToken()
	var tail [branchFactor]T
	copy(tail[:], v.tail)
	return &TransientVector[T]{
		token: token,
		count: v.count,
		shift: v.shift,
		root:  v.root.clone(token),
		tail:  tail,
		tailN: len(v.tail),
	}
}

// Seq returns a ChunkedSeq positioned at the start of v, or false if v is
// empty.
func (v PersistentVector[T]) Seq() (ChunkedSeq[T], bool) {
	if v.count == 0 {
		return ChunkedSeq[T]{}, false
	}
	return newChunkedSeq(v, 0, 0), true
}

// ChunkedSeq is an alias for Seq: the sequence view over a vector is always
// chunk-granular (spec.md §4.1.7).
func (v PersistentVector[T]) ChunkedSeq() (ChunkedSeq[T], bool) {
	return v.Seq()
}

// Drop returns a ChunkedSeq starting at index n, per spec.md §4.1.8.
func (v PersistentVector[T]) Drop(n int) (ChunkedSeq[T], bool) {
	if n <= 0 {
		return v.Seq()
	}
	if n >= v.count {
		return ChunkedSeq[T]{}, false
	}
	base := n - (n % branchFactor)
	offset := n % branchFactor
	return newChunkedSeq(v, base, offset), true
}

// leafChunk returns the chunk of up to branchFactor elements covering
// global index base: the tail if base is at or past the tail boundary, or
// a copy of the trie leaf otherwise.
func (v PersistentVector[T]) leafChunk(base int) []T {
	if base >= tailoff(v.count) {
		return v.tail
	}
	n := v.root
	for level := v.shift; level > 0; level -= bitsPerLevel {
		n = n.childAt(indexAt(level, base))
	}
	out := make([]T, branchFactor)
	for i := range out {
		out[i] = n.valueAt(i)
	}
	return out
}

// Reduce folds f over v's elements left to right. On an empty vector it
// returns f's identity element without calling f, per spec.md §4.1.9.
func (v PersistentVector[T]) Reduce(f Combiner) any {
	seq, ok := v.Seq()
	if !ok {
		return f.Identity()
	}
	return seq.Reduce(f)
}

// ReduceFrom folds f over v's elements left to right, starting from init.
func (v PersistentVector[T]) ReduceFrom(f func(acc, x any) any, init any) any {
	seq, ok := v.Seq()
	if !ok {
		return init
	}
	return seq.ReduceFrom(f, init)
}

// KVReduce folds f over v's (index, element) pairs left to right, starting
// from init, walking one chunk at a time.
func (v PersistentVector[T]) KVReduce(f func(acc any, i int, x T) any, init any) any {
	acc := init
	seq, ok := v.Seq()
	for ok {
		for i := seq.offset; i < len(seq.leaf); i++ {
			acc = f(acc, seq.base+i, seq.leaf[i])
			if IsReduced(acc) {
				return Unwrap(acc)
			}
		}
		seq, ok = seq.ChunkedNext()
	}
	return acc
}

// String renders v the way the fmt "%v" verb renders a Go slice.
func (v PersistentVector[T]) String() string {
	s := "["
	for i := 0; i < v.count; i++ {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v", v.nthUnchecked(i))
	}
	return s + "]"
}
