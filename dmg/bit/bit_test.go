package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0xABCD), Combine(0xAB, 0xCD))
	assert.Equal(t, uint16(0x0000), Combine(0x00, 0x00))
	assert.Equal(t, uint16(0xFFFF), Combine(0xFF, 0xFF))
}

func TestHighLow(t *testing.T) {
	assert.Equal(t, uint8(0xAB), High(0xABCD))
	assert.Equal(t, uint8(0xCD), Low(0xABCD))
}

func TestSetClearIsSet(t *testing.T) {
	var b uint8 = 0x00
	for i := uint8(0); i < 8; i++ {
		assert.False(t, IsSet(i, b))
		b = Set(i, b)
		assert.True(t, IsSet(i, b))
		b = Clear(i, b)
		assert.False(t, IsSet(i, b))
	}
}

func TestSetThenResetRestoresBit(t *testing.T) {
	var b uint8 = 0b10110100
	for k := uint8(0); k < 8; k++ {
		original := IsSet(k, b)
		set := Set(k, b)
		roundTrip := Reset(k, set)
		assert.Equal(t, original, IsSet(k, roundTrip))
	}
}

func TestExtractBits(t *testing.T) {
	assert.Equal(t, uint8(0b101), ExtractBits(0b11010110, 6, 4))
}

func TestValue(t *testing.T) {
	assert.Equal(t, uint8(1), Value(3, 0b00001000))
	assert.Equal(t, uint8(0), Value(3, 0b00000000))
}
