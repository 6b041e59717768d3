// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// Package crypto provides the Keccak hashing used to derive circuit
// identifiers embedded in generated verifier contracts.
package crypto

import (
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"
)

// DigestLength is the byte length of a Keccak256 digest.
const DigestLength = 32

// KeccakState wraps sha3.state. In addition to the usual hash methods, it
// also supports Read to get a variable amount of data from the hash state.
// Read is faster than Sum because it doesn't copy the internal state, but
// also modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState creates a new KeccakState.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, DigestLength)
	d := NewKeccakState()
	for _, x := range data {
		d.Write(x)
	}
	d.Read(b)
	return b
}

// Keccak256Hex returns the Keccak256 hash of data as a 0x-prefixed hex string.
func Keccak256Hex(data ...[]byte) string {
	return "0x" + hex.EncodeToString(Keccak256(data...))
}

// CircuitID derives the 32-byte identifier for a named circuit. Generated
// contracts use it to bind a verifying-key slot to its circuit.
func CircuitID(name string) string {
	return Keccak256Hex([]byte("cypher.circuit." + name))
}
