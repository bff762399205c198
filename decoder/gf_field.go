// Package decoder turns detected symbol geometry into corrected codewords
// and parses them into text, bytes and macro metadata.
package decoder

import "github.com/scanline/pdf417/internal"

// gfField is the prime field GF(929) with generator 3, represented by
// exponent and logarithm tables over the generator's powers.
type gfField struct {
	expTable []int
	logTable []int
	modulus  int
	zero     *gfPoly
	one      *gfPoly
}

// field929 must be a package-level var (not built in init) so that other
// package-level vars can depend on it through Go's initialization order.
var field929 = newGFField(internal.NumCodewords, 3)

func newGFField(modulus, generator int) *gfField {
	f := &gfField{
		modulus:  modulus,
		expTable: make([]int, modulus),
		logTable: make([]int, modulus),
	}
	x := 1
	for i := 0; i < modulus; i++ {
		f.expTable[i] = x
		x = (x * generator) % modulus
	}
	for i := 0; i < modulus-1; i++ {
		f.logTable[f.expTable[i]] = i
	}
	f.zero = newGFPoly(f, []int{0})
	f.one = newGFPoly(f, []int{1})
	return f
}

func (f *gfField) add(a, b int) int {
	return (a + b) % f.modulus
}

func (f *gfField) subtract(a, b int) int {
	return (f.modulus + a - b) % f.modulus
}

func (f *gfField) exp(a int) int {
	return f.expTable[a]
}

// log panics on 0, which has no logarithm.
func (f *gfField) log(a int) int {
	if a == 0 {
		panic("decoder: log of zero")
	}
	return f.logTable[a]
}

// inverse panics on 0, which has no inverse.
func (f *gfField) inverse(a int) int {
	if a == 0 {
		panic("decoder: inverse of zero")
	}
	return f.expTable[f.modulus-f.logTable[a]-1]
}

func (f *gfField) multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.expTable[(f.logTable[a]+f.logTable[b])%(f.modulus-1)]
}

// monomial returns coefficient * x^degree.
func (f *gfField) monomial(degree, coefficient int) *gfPoly {
	if degree < 0 {
		panic("decoder: negative degree")
	}
	if coefficient == 0 {
		return f.zero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return newGFPoly(f, coefficients)
}
