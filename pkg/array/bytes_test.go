package array

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssungk/sharedarray/pkg/linmath"
)

func float32Bytes(values ...float32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.NativeEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func TestSetFromBytes(t *testing.T) {
	a := New[float32]()
	defer a.Release()

	require.NoError(t, a.SetFromBytes(float32Bytes(1.5, -2, 3), 4))
	assert.Equal(t, []float32{1.5, -2, 3}, a.Slice())

	// Raw bytes are accepted with item size 1.
	require.NoError(t, a.SetFromBytes(float32Bytes(7), 1))
	assert.Equal(t, []float32{7}, a.Slice())
}

func TestSetFromBytesTypeMismatch(t *testing.T) {
	a := FromSlice([]float64{1})
	defer a.Release()

	err := a.SetFromBytes(make([]byte, 16), 4)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, []float64{1}, a.Slice())
}

func TestSetFromBytesSizeMismatchLeavesTargetUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		n := rng.Intn(200)
		if n%16 == 0 {
			n++
		}
		data := make([]byte, n)
		rng.Read(data)

		a := FromSlice([]linmath.Vec4f{{1, 2, 3, 4}})
		before := a.Bytes()
		err := a.SetFromBytes(data, 1)
		assert.ErrorIs(t, err, ErrSizeMismatch, "length %d", n)
		assert.Equal(t, before, a.Bytes())
		a.Release()

		null := New[linmath.Vec4f]()
		assert.ErrorIs(t, null.SetFromBytes(data, 1), ErrSizeMismatch)
		assert.True(t, null.IsNull())
	}
}

func TestSetFromBytesEmptyClears(t *testing.T) {
	a := FromSlice([]int32{1, 2})
	require.NoError(t, a.SetFromBytes(nil, 4))
	assert.False(t, a.IsNull())
	assert.Zero(t, a.Len())
	a.Release()

	null := New[int32]()
	require.NoError(t, null.SetFromBytes([]byte{}, 1))
	assert.False(t, null.IsNull())
	assert.True(t, null.IsEmpty())
	null.Release()
}

func TestBytesRoundTripThroughDeepCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		data := make([]byte, 8*rng.Intn(64))
		rng.Read(data)

		a, err := FromBytes[float64](data, 1)
		require.NoError(t, err)
		dup := a.DeepCopy()

		view, err := dup.ExportView(ViewSimple)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, view.Bytes()))
		assert.True(t, bytes.Equal(data, dup.Bytes()))
		require.NoError(t, view.Release())

		a.Release()
		dup.Release()
	}
}

func TestBytesNullVsEmpty(t *testing.T) {
	assert.Nil(t, New[uint8]().Bytes())

	empty := Make[uint8](0)
	got := empty.Bytes()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	empty.Release()
}

func TestSubrangeBytesClamping(t *testing.T) {
	a := FromSlice([]uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	defer a.Release()

	elems := func(b []byte) []uint32 {
		out := make([]uint32, len(b)/4)
		for i := range out {
			out[i] = binary.NativeEndian.Uint32(b[4*i:])
		}
		return out
	}

	testCases := []struct {
		name  string
		start int
		count int
		want  []uint32
	}{
		{"whole", 0, 10, []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"middle", 2, 3, []uint32{2, 3, 4}},
		{"count past end", 7, 100, []uint32{7, 8, 9}},
		{"start at end", 10, 5, []uint32{}},
		{"start past end", 25, 5, []uint32{}},
		{"negative start", -3, 2, []uint32{0, 1}},
		{"negative count", 4, -1, []uint32{}},
		{"count below start is raised", 4, 1, []uint32{4, 5, 6, 7}},
		{"raised count still clamped", 6, 2, []uint32{6, 7, 8, 9}},
		{"zero count at zero", 0, 0, []uint32{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.SubrangeBytes(tc.start, tc.count)
			assert.Equal(t, tc.want, elems(got))
		})
	}
}

func TestSubrangeBytesNeverExceedsRemaining(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		n := rng.Intn(20)
		a := Make[int16](n)
		start := rng.Intn(40) - 10
		count := rng.Intn(40) - 10

		got := a.SubrangeBytes(start, count)
		remaining := n - min(max(start, 0), n)
		assert.LessOrEqual(t, len(got), remaining*2)
		if start >= n {
			assert.Empty(t, got)
		}
		a.Release()
	}
}

func TestSetSubrangeBytes(t *testing.T) {
	a := FromSlice([]uint8{0, 1, 2, 3, 4})
	defer a.Release()

	// Same size replacement.
	require.NoError(t, a.SetSubrangeBytes(1, 2, []byte{10, 20}))
	assert.Equal(t, []uint8{0, 10, 20, 3, 4}, a.Slice())

	// Grow.
	require.NoError(t, a.SetSubrangeBytes(1, 1, []byte{7, 8, 9}))
	assert.Equal(t, []uint8{0, 7, 8, 9, 20, 3, 4}, a.Slice())

	// Shrink.
	require.NoError(t, a.SetSubrangeBytes(0, 4, []byte{1}))
	assert.Equal(t, []uint8{1, 20, 3, 4}, a.Slice())

	// Insert at end.
	require.NoError(t, a.SetSubrangeBytes(4, 0, []byte{5}))
	assert.Equal(t, []uint8{1, 20, 3, 4, 5}, a.Slice())

	assert.ErrorIs(t, a.SetSubrangeBytes(3, 3, nil), ErrOutOfRange)
	assert.ErrorIs(t, a.SetSubrangeBytes(-1, 0, nil), ErrOutOfRange)

	f := FromSlice([]float32{1})
	assert.ErrorIs(t, f.SetSubrangeBytes(0, 1, []byte{1, 2}), ErrSizeMismatch)
	f.Release()
}
