package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUKPostcode(t *testing.T) {
	valid := []string{"SW1A 1AA", "M1 1AE", "B33 8TH", "CR2 6XH", "DN55 1PT", "ec1a1bb"}
	for _, p := range valid {
		assert.True(t, ValidUKPostcode(p), p)
	}
	invalid := []string{"", "12345", "SW1A", "AAAA 1AA", "SW1A 1A"}
	for _, p := range invalid {
		assert.False(t, ValidUKPostcode(p), p)
	}
}

func TestValidUKPhone(t *testing.T) {
	valid := []string{"020 7946 0958", "+44 20 7946 0958", "07700 900123", "0113 496 0123"}
	for _, p := range valid {
		assert.True(t, ValidUKPhone(p), p)
	}
	invalid := []string{"", "12345", "999", "+1 555 0100"}
	for _, p := range invalid {
		assert.False(t, ValidUKPhone(p), p)
	}
}

func TestValidNINumber(t *testing.T) {
	valid := []string{"AB123456A", "CE123456B", "jh 12 34 56 d"}
	for _, n := range valid {
		assert.True(t, ValidNINumber(n), n)
	}
	invalid := []string{"", "AB123456E", "DA123456A", "BG123456A", "AB12345A", "AO123456A"}
	for _, n := range invalid {
		assert.False(t, ValidNINumber(n), n)
	}
}

func TestValidNHSNumber(t *testing.T) {
	// 943 476 5919 is the published NHS example number
	assert.True(t, ValidNHSNumber("9434765919"))
	assert.True(t, ValidNHSNumber("943 476 5919"))

	invalid := []string{"", "943476591", "9434765918", "943476591X", "12345678901"}
	for _, n := range invalid {
		assert.False(t, ValidNHSNumber(n), n)
	}
}
