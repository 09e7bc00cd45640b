// Package testutils holds shared test helpers, adapted from the teacher
// repo's package of the same name: that version held big.Int/byte-slice
// assertion helpers for a project that predated this repo's adoption of
// testify; this one keeps the package's role (shared test scaffolding)
// but carries the one piece of scaffolding every package's tests actually
// duplicate — a crypto/rand-backed transcript.RandomSource.
package testutils

import "crypto/rand"

// RandomBytes draws n cryptographically random bytes, satisfying the
// transcript.RandomSource / kvac signature shape used throughout this
// module's tests.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
