package entity

// CNPJLength is the number of digits in an unformatted CNPJ
const CNPJLength = 14

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidCNPJ checks an unformatted CNPJ: 14 digits, not a single repeated
// digit, with both modulo-11 check digits correct
func ValidCNPJ(cnpj string) bool {
	if len(cnpj) != CNPJLength {
		return false
	}

	digits := make([]int, CNPJLength)
	repeated := true
	for i := 0; i < CNPJLength; i++ {
		c := cnpj[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
		if digits[i] != digits[0] {
			repeated = false
		}
	}
	if repeated {
		return false
	}

	return digits[12] == cnpjCheckDigit(digits[:12], cnpjFirstWeights) &&
		digits[13] == cnpjCheckDigit(digits[:13], cnpjSecondWeights)
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}

	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
