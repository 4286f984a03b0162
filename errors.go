package pvector

import "fmt"

// Kind identifies which of the error taxonomy entries in spec.md §7 an
// *Error represents.
type Kind int

const (
	// KindIndexOutOfBounds is raised by Nth and AssocN when the index falls
	// outside [0, count) (or [0, count] for AssocN's append case).
	KindIndexOutOfBounds Kind = iota
	// KindEmptyPop is raised by Pop on an empty vector.
	KindEmptyPop
	// KindUseAfterPersistent is raised by any TransientVector operation
	// performed after Persistent has been called on it.
	KindUseAfterPersistent
	// KindCrossThreadEdit is raised by any TransientVector operation
	// invoked from a goroutine other than the one that created it.
	KindCrossThreadEdit
	// KindKeyTypeMismatch is raised by TransientVector.Assoc when given a
	// non-integral key.
	KindKeyTypeMismatch
	// KindInvalidAdopt is raised by Adopt when the supplied array is too
	// large to become a tail directly (spec.md §9 Open Question; see
	// SPEC_FULL.md and DESIGN.md).
	KindInvalidAdopt
)

func (k Kind) String() string {
	switch k {
	case KindIndexOutOfBounds:
		return "IndexOutOfBounds"
	case KindEmptyPop:
		return "EmptyPop"
	case KindUseAfterPersistent:
		return "UseAfterPersistent"
	case KindCrossThreadEdit:
		return "CrossThreadEdit"
	case KindKeyTypeMismatch:
		return "KeyTypeMismatch"
	case KindInvalidAdopt:
		return "InvalidAdopt"
	default:
		return "Unknown"
	}
}

// Error is the single error type every fallible operation in this module
// returns. Callers that only care about the category of failure should use
// errors.Is against the Err* sentinels below rather than inspecting Msg.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func newError(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("pvector: %s: %s: %s", e.Op, e.Kind, e.Msg)
}

// Is implements the errors.Is protocol: two *Errors match if they share a
// Kind, regardless of Op/Msg. This lets callers write
// errors.Is(err, pvector.ErrIndexOutOfBounds).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrIndexOutOfBounds   = &Error{Kind: KindIndexOutOfBounds}
	ErrEmptyPop           = &Error{Kind: KindEmptyPop}
	ErrUseAfterPersistent = &Error{Kind: KindUseAfterPersistent}
	ErrCrossThreadEdit    = &Error{Kind: KindCrossThreadEdit}
	ErrKeyTypeMismatch    = &Error{Kind: KindKeyTypeMismatch}
	ErrInvalidAdopt       = &Error{Kind: KindInvalidAdopt}
)

func indexOutOfBoundsError(op string, index, count int) error {
	return newError(KindIndexOutOfBounds, op,
		fmt.Sprintf("index out of range [%d] with length %d", index, count))
}
