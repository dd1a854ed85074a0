// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	mathrand "math/rand/v2"
)

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint64N(n uint64) uint64 {
	return mathrand.N(n) //#nosec G404
}

func RandBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(mathrand.N(256)) //#nosec G404
	}
	return b
}
