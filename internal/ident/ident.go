// Package ident generates the short opaque ids carried by page-tree nodes.
package ident

import (
	"crypto/rand"
	"encoding/hex"
)

// Length is the number of hex characters in a generated id.
const Length = 7

// Source produces node ids. Generate is the production source; tests may
// substitute a deterministic one.
type Source func() string

// Generate returns a 7-character lowercase hex id derived from 4 random bytes.
// Uniqueness is probabilistic (2^28 space); use Fresh when a tree's ids are known.
func Generate() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("ident: read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b[:])[:Length]
}

// maxAttempts bounds collision retries in Fresh. At realistic tree sizes a
// single retry is already vanishingly rare.
const maxAttempts = 64

// Fresh draws ids from src until one is not in used, records it in used and
// returns it. If used is nil it behaves like src().
func Fresh(src Source, used *Set) string {
	if src == nil {
		src = Generate
	}
	if used == nil {
		return src()
	}
	id := src()
	for i := 0; i < maxAttempts && used.Contains(id); i++ {
		id = src()
	}
	used.Add(id)
	return id
}
