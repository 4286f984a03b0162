package pvector

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
)

// editToken is the shared, atomically-settable ownership cell described in
// spec.md §3. While live it holds the id of the one goroutine allowed to
// mutate nodes tagged with it; once frozen (owner == nil) it never becomes
// live again.
//
// A token is shared by every node belonging to one TransientVector — nodes
// reference the token, they don't carry ownership state of their own.
type editToken struct {
	owner atomic.Pointer[uint64]
}

// frozenToken is shared by every node that belongs to a PersistentVector.
// Its owner pointer is never stored to, so it reads "frozen" permanently.
var frozenToken = &editToken{}

// newEditToken allocates a token live-owned by the calling goroutine.
func newEditToken() *editToken {
	t := &editToken{}
	id := goroutineID()
	t.owner.Store(&id)
	return t
}

// ensureEditable reports whether the calling goroutine may mutate nodes
// tagged with t, returning the appropriate spec.md §7 error otherwise.
func (t *editToken) ensureEditable(op string) error {
	owner := t.owner.Load()
	if owner == nil {
		return newError(KindUseAfterPersistent, op, "transient vector already frozen by Persistent")
	}
	if *owner != goroutineID() {
		return newError(KindCrossThreadEdit, op, "transient vector mutated from a goroutine other than its owner")
	}
	return nil
}

// freeze atomically marks t frozen. Per the invariant in spec.md §3, this
// is only ever called once per token, from Persistent.
func (t *editToken) freeze() {
	t.owner.Store(nil)
}

// owns reports whether n is already tagged with t, meaning it can be
// mutated in place without cloning first.
func (n *node[T]) owns(t *editToken) bool {
	return n != nil && n.token == t
}

// editableChild returns the child of n at slot i, cloning it (and writing
// the clone back into n) if it isn't already owned by token. n itself must
// already be owned by token.
func editableChild[T any](token *editToken, n *node[T], i int) *node[T] {
	child := n.childAt(i)
	if child.owns(token) {
		return child
	}
	clone := child.clone(token)
	n.array[i] = clone
	return clone
}

// goroutineID returns an identifier for the calling goroutine. The runtime
// does not expose goroutine identity through any public API; parsing the
// header line of a captured stack trace is the standard stdlib-only
// workaround, and is only needed here to implement the CrossThreadEdit
// check spec.md §7 requires. See DESIGN.md.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}

	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		// Unreachable barring a runtime.Stack format change.
		panic("pvector: could not parse goroutine id: " + err.Error())
	}
	return id
}
