// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/stakepool/pubkey"
)

func RandomKey() pubkey.Key {
	var k pubkey.Key

	rand.Read(k[:])
	return k
}

// RandomKeys returns n distinct random keys.
func RandomKeys(n int) []pubkey.Key {
	seen := make(map[pubkey.Key]bool, n)
	keys := make([]pubkey.Key, 0, n)
	for len(keys) < n {
		k := RandomKey()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
