package galois

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldAddIsXor(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x0f), f.Add(0xAA, 0xA5))
}

func TestFieldMulByZeroAndOne(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	for a := uint32(0); a < f.Size; a++ {
		require.EqualValues(t, 0, f.Mul(a, 0))
		require.EqualValues(t, a, f.Mul(a, 1))
	}
}

func TestFieldMulCommutative(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	for a := uint32(1); a < f.Size; a += 37 {
		for b := uint32(1); b < f.Size; b += 53 {
			require.Equal(t, f.Mul(a, b), f.Mul(b, a))
		}
	}
}

func TestFieldDivInvertsMul(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	for a := uint32(1); a < f.Size; a++ {
		for b := uint32(1); b < f.Size; b += 29 {
			product := f.Mul(a, b)
			require.Equal(t, a, f.Div(product, b))
		}
	}
}

func TestFieldDivByZeroReturnsSentinelInsteadOfPanicking(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	require.NotPanics(t, func() {
		require.Equal(t, f.Size, f.Div(1, 0))
		require.Equal(t, f.Size, f.Div(0, 0))
	})
}

func TestFieldExpMatchesRepeatedMul(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	a := uint32(3)
	want := uint32(1)
	for p := uint(0); p < 10; p++ {
		require.Equal(t, want, f.Exp(a, p))
		want = f.Mul(want, a)
	}
}

func TestFieldInverseRoundTrips(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	for a := uint32(1); a < f.Size; a++ {
		inv := f.Inverse(a)
		require.EqualValues(t, 1, f.Mul(a, inv))
	}
}

func TestNewFieldRejectsUnsupportedWidth(t *testing.T) {
	_, err := NewField(9, 0)
	require.Error(t, err)
	_, err = NewField(0, 0)
	require.Error(t, err)
}
