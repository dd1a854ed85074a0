// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pubkey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyJSON(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000000000706f6f6c"`

	var k Key
	err := json.Unmarshal([]byte(originalHex), &k)
	assert.NoError(t, err)
	assert.Equal(t, BytesToKey([]byte("pool")), k)

	marshalVal, err := json.Marshal(k)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalVal))

	marshalPtr, err := json.Marshal(&k)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalPtr))
}

func TestParseKey(t *testing.T) {
	k := Blake2b([]byte("owner"))

	parsed, err := ParseKey(k.String())
	assert.NoError(t, err)
	assert.Equal(t, k, parsed)

	parsed, err = ParseKey(k.String()[2:])
	assert.NoError(t, err)
	assert.Equal(t, k, parsed)

	_, err = ParseKey("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseKey("1x" + k.String()[2:])
	assert.EqualError(t, err, "invalid prefix")

	assert.Panics(t, func() { MustParseKey("zz") })
	assert.True(t, Key{}.IsZero())
	assert.False(t, k.IsZero())
}

func TestBlake2b(t *testing.T) {
	data := [][]byte{[]byte("a"), []byte("bc")}
	assert.Equal(t, Blake2b([]byte("abc")), Blake2b(data...))
	assert.NotEqual(t, Blake2b([]byte("abc")), Blake2b([]byte("abd")))
}
