package bitvector_test

import (
	"testing"

	"github.com/stefanhoelzl/go-candb/bitvector"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		name         string
		length       int
		value        int64
		littleEndian bool
		signed       bool
		expectBits   []bool
		expectInt    int64
	}{
		{
			name:         "unsigned little-endian",
			length:       5,
			value:        19,
			littleEndian: true,
			signed:       false,
			expectBits:   []bool{true, true, false, false, true},
			expectInt:    19,
		},
		{
			name:         "signed big-endian negative",
			length:       5,
			value:        -5,
			littleEndian: false,
			signed:       true,
			expectBits:   []bool{true, false, true, false, true},
			expectInt:    -5,
		},
		{
			name:         "unsigned big-endian zero",
			length:       8,
			value:        0,
			littleEndian: false,
			signed:       false,
			expectBits:   []bool{false, false, false, false, false, false, false, false},
			expectInt:    0,
		},
		{
			name:         "unsigned big-endian max",
			length:       4,
			value:        15,
			littleEndian: false,
			signed:       false,
			expectBits:   []bool{true, true, true, true},
			expectInt:    15,
		},
		{
			name:         "signed positive little-endian",
			length:       5,
			value:        5,
			littleEndian: true,
			signed:       true,
			expectBits:   []bool{true, false, true, false, false},
			expectInt:    5,
		},
		{
			name:         "truncation drops high order magnitude bits",
			length:       4,
			value:        19, // 10011, only low 4 bits of magnitude fit
			littleEndian: false,
			signed:       false,
			expectBits:   []bool{false, false, true, true},
			expectInt:    3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bv := bitvector.New(tc.length, tc.value, tc.littleEndian, tc.signed)

			bits := make([]bool, bv.Len())
			for i := 0; i < bv.Len(); i++ {
				bits[i] = bv.Get(i)
			}
			assert.Equal(t, tc.expectBits, bits)
			assert.Equal(t, tc.expectInt, bv.ToInt())
		})
	}
}

func TestEndiannessSymmetry(t *testing.T) {
	for length := 1; length <= 16; length++ {
		for _, signed := range []bool{false, true} {
			var maxV int64
			if signed {
				maxV = (int64(1) << uint(length-1)) - 1
			} else {
				maxV = (int64(1) << uint(length)) - 1
			}
			for v := -maxV; v <= maxV; v++ {
				if !signed && v < 0 {
					continue
				}
				be := bitvector.New(length, v, false, signed)
				le := bitvector.New(length, v, true, signed)

				beBits := make([]bool, be.Len())
				for i := 0; i < be.Len(); i++ {
					beBits[i] = be.Get(i)
				}
				reversed := make([]bool, len(beBits))
				for i, b := range beBits {
					reversed[len(beBits)-1-i] = b
				}
				leBits := make([]bool, le.Len())
				for i := 0; i < le.Len(); i++ {
					leBits[i] = le.Get(i)
				}
				assert.Equal(t, reversed, leBits, "length=%d signed=%v value=%d", length, signed, v)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for length := 1; length <= 24; length++ {
		for _, signed := range []bool{false, true} {
			for _, littleEndian := range []bool{false, true} {
				var maxV int64
				if signed {
					maxV = (int64(1) << uint(length-1)) - 1
				} else {
					maxV = (int64(1) << uint(length)) - 1
				}
				step := int64(1)
				if maxV > 2000 {
					step = maxV / 2000
				}
				for v := int64(0); v <= maxV; v += step {
					bv := bitvector.New(length, v, littleEndian, signed)
					assert.Equal(t, v, bv.ToInt(), "length=%d signed=%v little=%v value=%d", length, signed, littleEndian, v)

					if signed {
						bvNeg := bitvector.New(length, -v, littleEndian, signed)
						assert.Equal(t, -v, bvNeg.ToInt(), "length=%d signed=%v little=%v value=%d", length, signed, littleEndian, -v)
					}
				}
			}
		}
	}
}

func TestSetOverwritesPreviousContent(t *testing.T) {
	bv := bitvector.New(8, 200, false, false)
	bv.Set(3)
	assert.Equal(t, int64(3), bv.ToInt())
}

func TestSetBitAndGet(t *testing.T) {
	bv := bitvector.New(4, 0, false, false)
	bv.SetBit(0, true)
	assert.True(t, bv.Get(0))
	assert.False(t, bv.Get(1))
}
