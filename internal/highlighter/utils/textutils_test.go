package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnStarts(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, ColumnStarts([]byte("abc")))
	// "h" + "ü" (2 bytes) + "x"
	assert.Equal(t, []int{0, 1, 3}, ColumnStarts([]byte("h\u00fcx")))
	// e + combining acute forms one cluster.
	assert.Equal(t, []int{0, 3}, ColumnStarts([]byte("e\u0301z")))
	assert.Empty(t, ColumnStarts(nil))
}

func TestByteOffsetToColumn(t *testing.T) {
	line := []byte("h\u00fcx")
	starts := ColumnStarts(line)

	cases := map[int]int{-1: 0, 0: 0, 1: 1, 2: 1, 3: 2, 4: 3, 9: 3}
	for offset, want := range cases {
		assert.Equal(t, want, ByteOffsetToColumn(starts, len(line), offset), "offset %d", offset)
	}
}

func TestCaptureNameToStyleName(t *testing.T) {
	assert.Equal(t, "keyword", CaptureNameToStyleName("@keyword"))
	assert.Equal(t, "function.call", CaptureNameToStyleName("function.call"))
	assert.Equal(t, "", CaptureNameToStyleName(""))
}
