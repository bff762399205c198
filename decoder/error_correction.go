package decoder

import "github.com/scanline/pdf417/internal"

// correctCodewords runs Reed-Solomon correction over GF(929) on the
// received codewords in place. numECCodewords is the count of check
// codewords at the end of the array; erasures lists positions known to be
// unreadable. It returns the number of corrected positions, or
// ErrChecksum when the codewords cannot be repaired.
func correctCodewords(received []int, numECCodewords int, erasures []int) (int, error) {
	poly := newGFPoly(field929, received)
	syndromeCoefficients := make([]int, numECCodewords)
	hasError := false
	for i := numECCodewords; i > 0; i-- {
		eval := poly.evaluateAt(field929.exp(i))
		syndromeCoefficients[numECCodewords-i] = eval
		if eval != 0 {
			hasError = true
		}
	}
	if !hasError {
		return 0, nil
	}

	// The erasure locator is built but not folded into the Euclidean
	// step below; erasure positions are recovered as ordinary errors, so
	// only numECCodewords/2 of them can actually be repaired.
	knownErrors := field929.one
	for _, erasure := range erasures {
		b := field929.exp(len(received) - 1 - erasure)
		term := newGFPoly(field929, []int{field929.subtract(0, b), 1})
		knownErrors = knownErrors.multiply(term)
	}
	_ = knownErrors

	syndrome := newGFPoly(field929, syndromeCoefficients)
	sigma, omega, err := runEuclideanAlgorithm(
		field929.monomial(numECCodewords, 1), syndrome, numECCodewords)
	if err != nil {
		return 0, err
	}

	errorLocations, err := findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	errorMagnitudes := findErrorMagnitudes(omega, sigma, errorLocations)

	for i, location := range errorLocations {
		position := len(received) - 1 - field929.log(location)
		if position < 0 {
			return 0, internal.ErrChecksum
		}
		received[position] = field929.subtract(received[position], errorMagnitudes[i])
	}
	return len(errorLocations), nil
}

// runEuclideanAlgorithm computes the error locator (sigma) and error
// evaluator (omega) polynomials from the syndrome via the extended
// Euclidean algorithm, stopping once the remainder degree drops below
// R/2.
func runEuclideanAlgorithm(a, b *gfPoly, R int) (sigma, omega *gfPoly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}

	rLast, r := a, b
	tLast, t := field929.zero, field929.one

	for r.degree() >= R/2 {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t

		if rLast.isZero() {
			// Division by the zero polynomial; the sequence terminated
			// before reaching the target degree.
			return nil, nil, internal.ErrChecksum
		}
		r = rLastLast
		q := field929.zero
		dltInverse := field929.inverse(rLast.coefficient(rLast.degree()))
		for r.degree() >= rLast.degree() && !r.isZero() {
			degreeDiff := r.degree() - rLast.degree()
			scale := field929.multiply(r.coefficient(r.degree()), dltInverse)
			q = q.add(field929.monomial(degreeDiff, scale))
			r = r.subtract(rLast.multiplyByMonomial(degreeDiff, scale))
		}

		t = q.multiply(tLast).subtract(tLastLast).negative()
	}

	sigmaTildeAtZero := t.coefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, internal.ErrChecksum
	}
	inverse := field929.inverse(sigmaTildeAtZero)
	return t.multiplyScalar(inverse), r.multiplyScalar(inverse), nil
}

// findErrorLocations finds the roots of the error locator by exhaustive
// search over the field (Chien search) and returns their inverses.
func findErrorLocations(errorLocator *gfPoly) ([]int, error) {
	numErrors := errorLocator.degree()
	result := make([]int, 0, numErrors)
	for i := 1; i < field929.modulus && len(result) < numErrors; i++ {
		if errorLocator.evaluateAt(i) == 0 {
			result = append(result, field929.inverse(i))
		}
	}
	if len(result) != numErrors {
		return nil, internal.ErrChecksum
	}
	return result, nil
}

// findErrorMagnitudes applies Forney's formula at each located position.
func findErrorMagnitudes(errorEvaluator, errorLocator *gfPoly, errorLocations []int) []int {
	errorLocatorDegree := errorLocator.degree()
	if errorLocatorDegree < 1 {
		return []int{}
	}
	derivativeCoefficients := make([]int, errorLocatorDegree)
	for i := 1; i <= errorLocatorDegree; i++ {
		derivativeCoefficients[errorLocatorDegree-i] =
			field929.multiply(i, errorLocator.coefficient(i))
	}
	formalDerivative := newGFPoly(field929, derivativeCoefficients)

	result := make([]int, len(errorLocations))
	for i, location := range errorLocations {
		xiInverse := field929.inverse(location)
		numerator := field929.subtract(0, errorEvaluator.evaluateAt(xiInverse))
		denominator := field929.inverse(formalDerivative.evaluateAt(xiInverse))
		result[i] = field929.multiply(numerator, denominator)
	}
	return result
}
