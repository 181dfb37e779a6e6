package shortcode

import (
	"errors"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = int64(len(alphabet))

// offset keeps codes derived from small sequential ids at a reasonable
// minimum length. It is not a security boundary: Decode inverts it trivially.
const offset = 100000

const (
	MinCodeLength = 1
	MaxCodeLength = 10
)

var ErrInvalidCharacter = errors.New("invalid character in base62 string")

// Encode renders n in base 62 using 0-9, a-z, A-Z. Zero maps to "0".
func Encode(n int64) string {
	if n == 0 {
		return string(alphabet[0])
	}

	buf := make([]byte, 0, 11)
	for n > 0 {
		buf = append(buf, alphabet[n%base])
		n /= base
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// Decode is the inverse of Encode.
func Decode(s string) (int64, error) {
	var n int64
	for _, c := range s {
		v := strings.IndexRune(alphabet, c)
		if v < 0 {
			return 0, ErrInvalidCharacter
		}
		n = n*base + int64(v)
	}
	return n, nil
}

// Derive computes the final short code for a store-assigned id.
func Derive(id uint) string {
	return Encode(int64(id) + offset)
}

// IsValid reports whether code is a well-formed short code or custom alias:
// 1 to 10 characters, all from the base62 alphabet.
func IsValid(code string) bool {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(alphabet, c) {
			return false
		}
	}
	return true
}
