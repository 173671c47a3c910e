package mathx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBps(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		bps   int64
		want  int64
	}{
		{"direct reward on 1000", 1000, 500, 50},
		{"second tier on 1000", 1000, 200, 20},
		{"truncates toward zero", 12345, 500, 617},
		{"immediate share", 12_500_000, 2000, 2_500_000},
		{"bonus", 12_500_000, 1000, 1_250_000},
		{"zero rate", 999, 0, 0},
		{"full rate", 999, 10_000, 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bps(tt.value, tt.bps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMulDiv_Errors(t *testing.T) {
	_, err := MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = MulDiv(-1, 1, 1)
	assert.ErrorIs(t, err, ErrNegative)

	_, err = MulDiv(math.MaxInt64, math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMulDiv_LargeIntermediate(t *testing.T) {
	// the product overflows 64 bits but the quotient does not
	got, err := MulDiv(math.MaxInt64, 10_000, 10_000)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestMulAdd(t *testing.T) {
	got, err := Mul(1000, 12_500)
	require.NoError(t, err)
	assert.Equal(t, int64(12_500_000), got)

	_, err = Mul(math.MaxInt64, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	got, err = Add(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	_, err = Add(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}
