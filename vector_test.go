package pvector_test

import (
	"testing"

	"github.com/arborough/pvector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	t.Parallel()

	v := pvector.Empty[int]()
	assert.Zero(t, v.Count(), "empty vector should have zero count")

	_, err := v.Nth(0)
	assert.ErrorIs(t, err, pvector.ErrIndexOutOfBounds)

	_, err = v.Pop()
	assert.ErrorIs(t, err, pvector.ErrEmptyPop)
}

func TestConsAndNth(t *testing.T) {
	t.Parallel()
	t.Helper()

	const n = 4096
	v := pvector.Empty[int]()
	for i := 0; i < n; i++ {
		v = v.Cons(i)
	}

	require.Equal(t, n, v.Count())
	first, err := v.Nth(0)
	require.NoError(t, err)
	require.Zero(t, first)

	last, err := v.Nth(n - 1)
	require.NoError(t, err)
	require.Equal(t, n-1, last)
}

func TestPop(t *testing.T) {
	t.Parallel()

	const n = 4096
	v := pvector.FromArray(makeRange(n))

	var err error
	for i := n - 1; i >= 0; i-- {
		v, err = v.Pop()
		require.NoError(t, err)
		require.Equal(t, i, v.Count())
	}

	_, err = v.Pop()
	assert.ErrorIs(t, err, pvector.ErrEmptyPop)
}

func TestAssocN(t *testing.T) {
	t.Parallel()
	t.Helper()

	const n = 4096
	v := pvector.FromArray(makeRange(n))

	t.Run("Overwrite", func(t *testing.T) {
		orig := v
		for i := 0; i < n; i++ {
			var err error
			v, err = v.AssocN(i, -i)
			require.NoError(t, err)
		}
		for i := 0; i < n; i++ {
			got, err := v.Nth(i)
			require.NoError(t, err)
			assert.LessOrEqual(t, got, 0)
		}
		// orig must be untouched: structural sharing, not mutation.
		untouched, err := orig.Nth(0)
		require.NoError(t, err)
		assert.Zero(t, untouched)
	})

	t.Run("AppendViaAssocN", func(t *testing.T) {
		v2, err := v.AssocN(v.Count(), -1)
		require.NoError(t, err)
		assert.NotEqual(t, v.Count(), v2.Count())
		assert.Equal(t, n+1, v2.Count())
		got, err := v2.Nth(n)
		require.NoError(t, err)
		assert.Equal(t, -1, got)
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		t.Parallel()

		_, err := v.Nth(9001)
		assert.ErrorIs(t, err, pvector.ErrIndexOutOfBounds)

		_, err = v.Nth(-1)
		assert.ErrorIs(t, err, pvector.ErrIndexOutOfBounds)

		_, err = v.AssocN(9001, 9001)
		assert.ErrorIs(t, err, pvector.ErrIndexOutOfBounds)

		_, err = v.AssocN(-1, 9001)
		assert.ErrorIs(t, err, pvector.ErrIndexOutOfBounds)
	})
}

func TestFromArray(t *testing.T) {
	t.Parallel()

	const n = 4096
	v := pvector.FromArray(makeRange(n))
	assert.Equal(t, n, v.Count())

	for i := 0; i < n; i++ {
		got, err := v.Nth(i)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
}

func TestAdopt(t *testing.T) {
	t.Parallel()

	small := makeRange(10)
	v, err := pvector.Adopt(small)
	require.NoError(t, err)
	assert.Equal(t, 10, v.Count())

	tooBig := makeRange(64)
	_, err = pvector.Adopt(tooBig)
	assert.ErrorIs(t, err, pvector.ErrInvalidAdopt)
}

// S1-S8: boundary scenarios.

func TestBoundaryScenarios(t *testing.T) {
	t.Parallel()

	t.Run("S1_SingleElement", func(t *testing.T) {
		v := pvector.Empty[int]().Cons(42)
		assert.Equal(t, 1, v.Count())
		got, err := v.Nth(0)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("S2_ExactlyOneFullLeaf", func(t *testing.T) {
		v := pvector.FromArray(makeRange(32))
		assert.Equal(t, 32, v.Count())
		got, err := v.Nth(31)
		require.NoError(t, err)
		assert.Equal(t, 31, got)
	})

	t.Run("S3_OneElementPastFullLeaf", func(t *testing.T) {
		v := pvector.FromArray(makeRange(33))
		assert.Equal(t, 33, v.Count())
		got, err := v.Nth(32)
		require.NoError(t, err)
		assert.Equal(t, 32, got)
	})

	// The root (32 leaf slots at one trie level) overflows only once
	// (count>>5) exceeds 32, i.e. at count == 33*32 == 1056 (1024 elements
	// in the trie plus a full 32-element tail); the 1057th element is what
	// forces a taller tree.
	const rootCapacity = 33 * 32

	t.Run("S4_TreeGrowsATaller", func(t *testing.T) {
		v := pvector.FromArray(makeRange(rootCapacity + 1))
		assert.Equal(t, rootCapacity+1, v.Count())
		got, err := v.Nth(rootCapacity)
		require.NoError(t, err)
		assert.Equal(t, rootCapacity, got)
	})

	t.Run("S5_PopCollapsesRootLevel", func(t *testing.T) {
		v := pvector.FromArray(makeRange(rootCapacity + 1))
		var err error
		for v.Count() > rootCapacity {
			v, err = v.Pop()
			require.NoError(t, err)
		}
		assert.Equal(t, rootCapacity, v.Count())
		got, err := v.Nth(0)
		require.NoError(t, err)
		assert.Zero(t, got)
		last, err := v.Nth(v.Count() - 1)
		require.NoError(t, err)
		assert.Equal(t, rootCapacity-1, last)
	})

	t.Run("S6_PopToEmpty", func(t *testing.T) {
		v := pvector.Empty[int]().Cons(1)
		v, err := v.Pop()
		require.NoError(t, err)
		assert.Zero(t, v.Count())
	})

	t.Run("S7_AssocAtLastValidIndex", func(t *testing.T) {
		v := pvector.FromArray(makeRange(10))
		v2, err := v.AssocN(9, 999)
		require.NoError(t, err)
		got, err := v2.Nth(9)
		require.NoError(t, err)
		assert.Equal(t, 999, got)
	})

	t.Run("S8_AdoptAtExactlyBranchFactor", func(t *testing.T) {
		v, err := pvector.Adopt(makeRange(32))
		require.NoError(t, err)
		assert.Equal(t, 32, v.Count())
	})
}

func TestWithMetaAndEmptyOf(t *testing.T) {
	t.Parallel()

	v := pvector.FromArray(makeRange(5))
	meta := map[string]any{"label": "range"}
	v = v.WithMeta(meta)
	assert.Equal(t, meta, v.Meta())

	empty := v.EmptyOf()
	assert.Zero(t, empty.Count())
	assert.Equal(t, meta, empty.Meta())
}

func TestString(t *testing.T) {
	t.Parallel()

	v := pvector.FromArray([]int{1, 2, 3})
	assert.Equal(t, "[1 2 3]", v.String())
}

func makeRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
