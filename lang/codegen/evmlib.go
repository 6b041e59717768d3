// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

package codegen

import (
	"strings"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	cypherLibOnce sync.Once
	cypherLibSrc  string
)

// CypherLibSource returns the Solidity source of the shared Groth16
// verification library emitted alongside every EVM compile. The source is
// constant for a given compiler build; the BN254 field moduli are taken from
// gnark-crypto so they cannot drift from the proving side.
func CypherLibSource() string {
	cypherLibOnce.Do(func() {
		cypherLibSrc = strings.NewReplacer(
			"@PRIME_Q@", fp.Modulus().String(),
			"@SCALAR_FIELD@", fr.Modulus().String(),
		).Replace(cypherLibTemplate)
	})
	return cypherLibSrc
}

// cypherLibTemplate is the library body. It targets the BN254 precompiles:
// 0x06 point addition, 0x07 scalar multiplication, 0x08 pairing check over
// four (G1, G2) pairs.
const cypherLibTemplate = `// SPDX-License-Identifier: MIT
// Generated by the CypherLang compiler. Do not edit.
pragma solidity ^0.8.19;

library CypherLib {
    struct G1Point {
        uint256 x;
        uint256 y;
    }

    // G2 coordinates are elements of Fp2, encoded as [imaginary, real] to
    // match the precompile input layout.
    struct G2Point {
        uint256[2] x;
        uint256[2] y;
    }

    struct Proof {
        G1Point a;
        G2Point b;
        G1Point c;
    }

    struct VerifyingKey {
        G1Point alpha;
        G2Point beta;
        G2Point gamma;
        G2Point delta;
        G1Point[] ic;
    }

    // Base field modulus of BN254.
    uint256 internal constant PRIME_Q = @PRIME_Q@;

    // Scalar field modulus of BN254. Every public input must be reduced
    // below this bound before entering the pairing check.
    uint256 internal constant SNARK_SCALAR_FIELD = @SCALAR_FIELD@;

    /// @notice The negation of p, i.e. p.plus(p.negate()) is the point at
    /// infinity.
    function negate(G1Point memory p) internal pure returns (G1Point memory) {
        if (p.x == 0 && p.y == 0) {
            return G1Point(0, 0);
        }
        return G1Point(p.x, PRIME_Q - (p.y % PRIME_Q));
    }

    /// @notice Elliptic curve point addition via the 0x06 precompile.
    function pointAdd(G1Point memory p1, G1Point memory p2)
        internal
        view
        returns (G1Point memory r)
    {
        uint256[4] memory input;
        input[0] = p1.x;
        input[1] = p1.y;
        input[2] = p2.x;
        input[3] = p2.y;
        bool ok;
        assembly {
            ok := staticcall(gas(), 0x06, input, 0x80, r, 0x40)
        }
        require(ok, "CypherLib: ec addition failed");
    }

    /// @notice Elliptic curve scalar multiplication via the 0x07 precompile.
    function scalarMul(G1Point memory p, uint256 s)
        internal
        view
        returns (G1Point memory r)
    {
        uint256[3] memory input;
        input[0] = p.x;
        input[1] = p.y;
        input[2] = s;
        bool ok;
        assembly {
            ok := staticcall(gas(), 0x07, input, 0x60, r, 0x40)
        }
        require(ok, "CypherLib: ec scalar multiplication failed");
    }

    /// @notice Pairing check over four (G1, G2) pairs via the 0x08
    /// precompile. Returns true iff the product of the pairings is one.
    function pairing(
        G1Point memory a1,
        G2Point memory a2,
        G1Point memory b1,
        G2Point memory b2,
        G1Point memory c1,
        G2Point memory c2,
        G1Point memory d1,
        G2Point memory d2
    ) internal view returns (bool) {
        G1Point[4] memory p1 = [a1, b1, c1, d1];
        G2Point[4] memory p2 = [a2, b2, c2, d2];

        uint256[24] memory input;
        for (uint256 i = 0; i < 4; i++) {
            uint256 j = i * 6;
            input[j + 0] = p1[i].x;
            input[j + 1] = p1[i].y;
            input[j + 2] = p2[i].x[0];
            input[j + 3] = p2[i].x[1];
            input[j + 4] = p2[i].y[0];
            input[j + 5] = p2[i].y[1];
        }

        uint256[1] memory out;
        bool ok;
        assembly {
            ok := staticcall(gas(), 0x08, input, 0x300, out, 0x20)
        }
        require(ok, "CypherLib: pairing check failed");
        return out[0] == 1;
    }

    /// @notice Groth16 proof verification. The verifying key's ic array must
    /// hold exactly one more point than there are public inputs.
    function verifyProof(
        VerifyingKey memory vk,
        Proof memory proof,
        uint256[] memory input
    ) internal view returns (bool) {
        require(input.length + 1 == vk.ic.length, "CypherLib: invalid input length");

        // Accumulate vk_x = ic[0] + sum_i input[i] * ic[i+1].
        G1Point memory vkX = vk.ic[0];
        for (uint256 i = 0; i < input.length; i++) {
            require(input[i] < SNARK_SCALAR_FIELD, "CypherLib: input exceeds scalar field");
            vkX = pointAdd(vkX, scalarMul(vk.ic[i + 1], input[i]));
        }

        // e(-A, B) * e(alpha, beta) * e(vk_x, gamma) * e(C, delta) == 1
        return pairing(
            negate(proof.a),
            proof.b,
            vk.alpha,
            vk.beta,
            vkX,
            vk.gamma,
            proof.c,
            vk.delta
        );
    }

    /// @notice Loads the verifying key registered under name. Placeholder:
    /// the deployment tooling replaces this body with the circuit's actual
    /// key material after trusted setup.
    function loadVerifyingKey(string memory name)
        internal
        pure
        returns (VerifyingKey memory vk)
    {
        name;
        vk.ic = new G1Point[](1);
    }

    /// @notice Hashes arbitrary bytes into the scalar field. keccak256 is
    /// not ZK-friendly; circuits use an algebraic hash instead, this helper
    /// exists only for on-chain commitment bookkeeping.
    function hashToField(bytes memory data) internal pure returns (uint256) {
        return uint256(keccak256(data)) % SNARK_SCALAR_FIELD;
    }
}
`
