package linmath

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixKindLayout(t *testing.T) {
	testCases := []struct {
		kind     MatrixKind
		size     int
		itemSize int
		byteSize uintptr
		format   string
	}{
		{KindMat3f, 3, 4, unsafe.Sizeof(Mat3f{}), "f"},
		{KindMat3d, 3, 8, unsafe.Sizeof(Mat3d{}), "d"},
		{KindMat4f, 4, 4, unsafe.Sizeof(Mat4f{}), "f"},
		{KindMat4d, 4, 8, unsafe.Sizeof(Mat4d{}), "d"},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.True(t, tc.kind.Valid())
			assert.Equal(t, tc.size, tc.kind.Size())
			assert.Equal(t, tc.itemSize, tc.kind.ItemSize())
			assert.Equal(t, int(tc.byteSize), tc.kind.ByteSize())
			assert.GreaterOrEqual(t, tc.kind.ByteSize(), tc.size*tc.size*tc.itemSize)
			assert.Equal(t, tc.format, tc.kind.Format())
		})
	}
}

func TestMatrixKindInvalid(t *testing.T) {
	var k MatrixKind
	assert.False(t, k.Valid())
	assert.Zero(t, k.Size())
	assert.Zero(t, k.ByteSize())
	assert.Empty(t, k.Format())
	assert.Equal(t, "unknown(0)", k.String())
}

func TestParseMatrixKind(t *testing.T) {
	for _, k := range []MatrixKind{KindMat3f, KindMat3d, KindMat4f, KindMat4d} {
		parsed, err := ParseMatrixKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseMatrixKind("mat5f")
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(Ident4d())
	assert.True(t, ok)
	assert.Equal(t, KindMat4d, k)

	k, ok = KindOf(Ident3f())
	assert.True(t, ok)
	assert.Equal(t, KindMat3f, k)

	_, ok = KindOf(Vec3f{})
	assert.False(t, ok)
	_, ok = KindOf([4][4]float64{})
	assert.False(t, ok)
}
