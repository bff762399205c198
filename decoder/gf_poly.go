package decoder

// gfPoly is a polynomial over gfField, stored highest-degree coefficient
// first with no leading zeros (except the zero polynomial itself).
type gfPoly struct {
	field        *gfField
	coefficients []int
}

func newGFPoly(field *gfField, coefficients []int) *gfPoly {
	if len(coefficients) == 0 {
		panic("decoder: polynomial without coefficients")
	}
	if len(coefficients) > 1 && coefficients[0] == 0 {
		firstNonZero := 1
		for firstNonZero < len(coefficients) && coefficients[firstNonZero] == 0 {
			firstNonZero++
		}
		if firstNonZero == len(coefficients) {
			coefficients = []int{0}
		} else {
			trimmed := make([]int, len(coefficients)-firstNonZero)
			copy(trimmed, coefficients[firstNonZero:])
			coefficients = trimmed
		}
	}
	return &gfPoly{field: field, coefficients: coefficients}
}

func (p *gfPoly) degree() int {
	return len(p.coefficients) - 1
}

func (p *gfPoly) isZero() bool {
	return p.coefficients[0] == 0
}

func (p *gfPoly) coefficient(degree int) int {
	return p.coefficients[len(p.coefficients)-1-degree]
}

func (p *gfPoly) evaluateAt(a int) int {
	if a == 0 {
		return p.coefficient(0)
	}
	if a == 1 {
		result := 0
		for _, c := range p.coefficients {
			result = p.field.add(result, c)
		}
		return result
	}
	result := p.coefficients[0]
	for _, c := range p.coefficients[1:] {
		result = p.field.add(p.field.multiply(a, result), c)
	}
	return result
}

func (p *gfPoly) add(other *gfPoly) *gfPoly {
	if p.isZero() {
		return other
	}
	if other.isZero() {
		return p
	}
	smaller, larger := p.coefficients, other.coefficients
	if len(smaller) > len(larger) {
		smaller, larger = larger, smaller
	}
	result := make([]int, len(larger))
	lengthDiff := len(larger) - len(smaller)
	copy(result, larger[:lengthDiff])
	for i := lengthDiff; i < len(larger); i++ {
		result[i] = p.field.add(smaller[i-lengthDiff], larger[i])
	}
	return newGFPoly(p.field, result)
}

func (p *gfPoly) subtract(other *gfPoly) *gfPoly {
	if other.isZero() {
		return p
	}
	return p.add(other.negative())
}

func (p *gfPoly) negative() *gfPoly {
	result := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		result[i] = p.field.subtract(0, c)
	}
	return newGFPoly(p.field, result)
}

func (p *gfPoly) multiply(other *gfPoly) *gfPoly {
	if p.isZero() || other.isZero() {
		return p.field.zero
	}
	product := make([]int, len(p.coefficients)+len(other.coefficients)-1)
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			product[i+j] = p.field.add(product[i+j], p.field.multiply(a, b))
		}
	}
	return newGFPoly(p.field, product)
}

func (p *gfPoly) multiplyScalar(scalar int) *gfPoly {
	if scalar == 0 {
		return p.field.zero
	}
	if scalar == 1 {
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.multiply(c, scalar)
	}
	return newGFPoly(p.field, product)
}

func (p *gfPoly) multiplyByMonomial(degree, coefficient int) *gfPoly {
	if degree < 0 {
		panic("decoder: negative degree")
	}
	if coefficient == 0 {
		return p.field.zero
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.multiply(c, coefficient)
	}
	return newGFPoly(p.field, product)
}
