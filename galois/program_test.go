package galois

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildProgramZeroConstantIsEmpty(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	prog, err := BuildProgram(f, 0)
	require.NoError(t, err)
	require.Empty(t, prog.Ops)

	for in := uint32(0); in < 256; in += 17 {
		require.EqualValues(t, 0, prog.Run(f.W, in))
	}
}

func TestBuildProgramIdentityConstant(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	prog, err := BuildProgram(f, 1)
	require.NoError(t, err)

	for in := uint32(0); in < 256; in++ {
		require.EqualValues(t, in, prog.Run(f.W, in))
	}
}

// TestBuildProgramMatchesTableMultiply is the exhaustive 256x256
// equivalence check: every generated straight-line program must agree
// with Field.Mul for every possible input byte.
func TestBuildProgramMatchesTableMultiply(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)

	for k := uint32(0); k < f.Size; k++ {
		prog, err := BuildProgram(f, k)
		require.NoError(t, err)
		for in := uint32(0); in < f.Size; in++ {
			want := f.Mul(k, in)
			got := prog.Run(f.W, in)
			require.Equalf(t, want, got, "k=%d in=%d", k, in)
		}
	}
}

func TestBuildProgramRejectsOutOfRangeConstant(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	_, err = BuildProgram(f, 256)
	require.Error(t, err)
}

func TestProgramWidthIsTwiceFieldWidth(t *testing.T) {
	f, err := NewField(8, 0)
	require.NoError(t, err)
	prog, err := BuildProgram(f, 42)
	require.NoError(t, err)
	require.Equal(t, 16, prog.Width)
}
