// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pubkey

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// KeyLength length of key in bytes.
const KeyLength = 32

// Key is a 32 bytes account identity. It names wallets, programs and
// program derived accounts alike.
type Key [KeyLength]byte

var (
	_ json.Marshaler   = (*Key)(nil)
	_ json.Unmarshaler = (*Key)(nil)
)

// String implements stringer
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k[:])
}

// AbbrevString returns abbrev string presentation.
func (k Key) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", k[:4], k[28:])
}

// Bytes returns byte slice form of Key.
func (k Key) Bytes() []byte {
	return k[:]
}

// IsZero returns if Key has all zero bytes.
func (k Key) IsZero() bool {
	return k == Key{}
}

// MarshalJSON implements json.Marshaler.
func (k *Key) MarshalJSON() ([]byte, error) {
	if k == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Key) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	parsed, err := ParseKey(hex)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler, used by yaml and map keys.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey convert string presented into Key type
func ParseKey(s string) (Key, error) {
	if len(s) == KeyLength*2 {
	} else if len(s) == KeyLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return Key{}, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return Key{}, errors.New("invalid length")
	}

	var k Key
	_, err := hex.Decode(k[:], []byte(s))
	if err != nil {
		return Key{}, err
	}
	return k, nil
}

// MustParseKey convert string presented into Key type, panic on error.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// BytesToKey converts bytes slice into Key.
// If b is larger than Key length, b will be cropped (from the left).
// If b is smaller than Key length, b will be extended (from the left).
func BytesToKey(b []byte) Key {
	return Key(common.BytesToHash(b))
}
