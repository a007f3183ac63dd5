// Package galois implements GF(2^w) arithmetic and the straight-line
// XOR programs used to multiply by a field constant without a table
// lookup, the foundation of the erasure-coding encode/decode matrix
// (spec.md §4.6 "Galois field codec", C9). Ported from
// original_source/xlators/cluster/ec/src/ec-galois.c's
// ec_gf_init_tables/ec_gf_add/ec_gf_mul/ec_gf_div/ec_gf_exp.
package galois

import "github.com/pkg/errors"

// Field is a GF(2^w) arithmetic context built from a primitive
// polynomial, holding log/antilog tables the way ec_gf_init_tables does.
type Field struct {
	W    uint
	Size uint32 // 2^W
	Mod  uint32 // reduction polynomial, degree W, low W bits significant

	log []uint32 // log[0..Size-1], log[0] is the sentinel "undefined"
	exp []uint32 // exp[0..2*(Size-1)], doubled so Mul can avoid a modulo
}

// defaultMod8 is the primitive polynomial conventionally used for
// GF(2^8) Reed-Solomon coding (x^8+x^4+x^3+x^2+1), matching the constant
// ec-galois.c initializes its w=8 table with.
const defaultMod8 = 0x11d

// NewField builds a Field for the given width w (spec.md's w_k ∈
// [8,11], though any 1<=w<=16 works here), using mod as the reduction
// polynomial. Pass 0 for mod to use the standard GF(2^8) polynomial when
// w==8; other widths must supply an explicit primitive polynomial.
func NewField(w uint, mod uint32) (*Field, error) {
	if w == 0 || w > 16 {
		return nil, errors.Errorf("galois: unsupported width %d", w)
	}
	if mod == 0 {
		if w != 8 {
			return nil, errors.Errorf("galois: width %d requires an explicit modulus", w)
		}
		mod = defaultMod8
	}

	size := uint32(1) << w
	f := &Field{W: w, Size: size, Mod: mod}
	f.initTables()
	return f, nil
}

// initTables builds the log/antilog tables by repeated doubling with
// XOR reduction against Mod whenever the top bit would overflow W bits,
// the same construction as ec_gf_init_tables.
func (f *Field) initTables() {
	size := f.Size
	f.exp = make([]uint32, 2*(size-1)+1)
	f.log = make([]uint32, size)

	f.exp[0] = 1
	f.log[0] = size // sentinel: log(0) is undefined
	f.log[1] = 0

	val := uint32(1)
	for i := uint32(1); i < size-1; i++ {
		val <<= 1
		if val&size != 0 {
			val ^= f.Mod
		}
		f.exp[i] = val
		f.log[val] = i
	}
	for i := size - 1; i < uint32(len(f.exp)); i++ {
		f.exp[i] = f.exp[i-(size-1)]
	}
}

// Add is GF(2^w) addition, which is XOR.
func (f *Field) Add(a, b uint32) uint32 {
	return a ^ b
}

// Mul multiplies a and b within the field.
func (f *Field) Mul(a, b uint32) uint32 {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[f.log[a]+f.log[b]]
}

// Div divides a by b. Division by zero is a defined, in-range input: it
// returns the sentinel f.Size, the same way ec_gf_div returns gf->size
// rather than aborting.
func (f *Field) Div(a, b uint32) uint32 {
	if b == 0 {
		return f.Size
	}
	if a == 0 {
		return 0
	}
	diff := int64(f.log[a]) - int64(f.log[b])
	for diff < 0 {
		diff += int64(f.Size) - 1
	}
	return f.exp[diff]
}

// Exp raises a to the given non-negative power within the field.
func (f *Field) Exp(a uint32, power uint) uint32 {
	if power == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	e := (uint64(f.log[a]) * uint64(power)) % uint64(f.Size-1)
	return f.exp[e]
}

// Inverse returns the multiplicative inverse of a (a must be nonzero).
func (f *Field) Inverse(a uint32) uint32 {
	return f.Div(1, a)
}
