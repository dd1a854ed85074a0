// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pubkey

import (
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

const (
	// MaxSeedLength is the maximum length of a single derivation seed.
	MaxSeedLength = 32
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
)

var derivedMarker = []byte("ProgramDerivedAddress")

var (
	ErrMaxSeedLengthExceeded = errors.New("length of the seed is too long for address generation")
	ErrTooManySeeds          = errors.New("too many seeds for address generation")
	ErrOnCurve               = errors.New("derived address falls on the curve")
	ErrNoViableBump          = errors.New("unable to find a viable program address bump seed")
)

// IsOnCurve reports whether k, read as the x coordinate of a compressed
// secp256k1 point, names a valid public key. Keys on the curve could have a
// private key, so they are never used as program derived addresses.
func IsOnCurve(k Key) bool {
	var compressed [33]byte
	compressed[0] = secp256k1.PubKeyFormatCompressedEven
	copy(compressed[1:], k[:])
	_, err := secp256k1.ParsePubKey(compressed[:])
	return err == nil
}

// CreateProgramAddress computes the address derived from seeds under program.
// It fails with ErrOnCurve when the result is a valid public key.
func CreateProgramAddress(seeds [][]byte, program Key) (Key, error) {
	if len(seeds) > MaxSeeds {
		return Key{}, ErrTooManySeeds
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Key{}, ErrMaxSeedLengthExceeded
		}
	}

	addr := Blake2bFn(func(w io.Writer) {
		for _, seed := range seeds {
			w.Write(seed)
		}
		w.Write(program[:])
		w.Write(derivedMarker)
	})
	if IsOnCurve(addr) {
		return Key{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches the first bump, counting down from 255, for
// which seeds plus bump derive a valid off-curve address.
func FindProgramAddress(seeds [][]byte, program Key) (Key, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if err != ErrOnCurve {
			return Key{}, 0, err
		}
	}
	return Key{}, 0, ErrNoViableBump
}
