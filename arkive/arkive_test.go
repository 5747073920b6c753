// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arkive

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	str := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

	addr, err := ParseAddress(str)
	require.NoError(t, err)
	assert.Equal(t, str, addr.String())

	// no prefix is accepted
	addr2, err := ParseAddress(str[2:])
	require.NoError(t, err)
	assert.Equal(t, *addr, *addr2)

	_, err = ParseAddress("0x123")
	assert.Error(t, err)
	_, err = ParseAddress("zz" + str[2:])
	assert.Error(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x12"`), &decoded))
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("content"))
	assert.False(t, b.IsZero())
	assert.True(t, Bytes32{}.IsZero())

	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestBytesToBytes32(t *testing.T) {
	// shorter input is left-padded
	b := BytesToBytes32([]byte{1})
	assert.Equal(t, byte(1), b[31])
	assert.Equal(t, byte(0), b[0])

	// longer input is cropped from the left
	long := make([]byte, 40)
	long[39] = 7
	assert.Equal(t, byte(7), BytesToBytes32(long)[31])
}

func TestBlake2b(t *testing.T) {
	h1 := Blake2b([]byte("hello"))
	h2 := Blake2b([]byte("hello"))
	h3 := Blake2b([]byte("hello"), []byte("world"))

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.False(t, h1.IsZero())

	// Blake2bFn over the same writes matches the variadic form
	h4 := Blake2bFn(func(w io.Writer) {
		w.Write([]byte("hello"))
		w.Write([]byte("world"))
	})
	assert.Equal(t, h3, h4)
}
