// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/lvldb"
)

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(db)
}

func TestContext(t *testing.T) {
	ctx := newContext(t)
	pos := arkive.BytesToBytes32([]byte("slot"))

	// unset position reads as nil, not an error
	raw, err := ctx.Get(pos)
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, ctx.Set(pos, []byte("value")))
	raw, err = ctx.Get(pos)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), raw)

	// empty write clears the position
	require.NoError(t, ctx.Set(pos, nil))
	raw, err = ctx.Get(pos)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	slot := NewUint256(ctx, arkive.BytesToBytes32([]byte("u256")))

	value, err := slot.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, value.Sign())

	require.NoError(t, slot.Set(big.NewInt(100)))
	require.NoError(t, slot.Add(big.NewInt(50)))
	require.NoError(t, slot.Sub(big.NewInt(30)))

	value, err = slot.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, value.Cmp(big.NewInt(120)))

	assert.Error(t, slot.Sub(big.NewInt(121)))
	assert.Error(t, slot.Set(big.NewInt(-1)))
}

func TestUint64(t *testing.T) {
	ctx := newContext(t)
	slot := NewUint64(ctx, arkive.BytesToBytes32([]byte("u64")))

	value, err := slot.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), value)

	prev, err := slot.Inc()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), prev)
	prev, err = slot.Inc()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), prev)

	require.NoError(t, slot.Set(0))
	value, err = slot.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), value)
}

type record struct {
	Name  string
	Count uint64
	Value *big.Int
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[arkive.Address, record](ctx, arkive.BytesToBytes32([]byte("records")))
	key := arkive.BytesToAddress([]byte("key"))

	// unset key reads as the zero value
	value, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, record{}, value)
	has, err := m.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	stored := record{Name: "a", Count: 3, Value: big.NewInt(99)}
	require.NoError(t, m.Set(key, stored))
	value, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, stored, value)
	has, err = m.Has(key)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, m.Delete(key))
	has, err = m.Has(key)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMappingKeysDoNotCollide(t *testing.T) {
	ctx := newContext(t)
	base := arkive.BytesToBytes32([]byte("base"))
	m1 := NewMapping[arkive.Address, uint64](ctx, base)
	m2 := NewMapping[arkive.Address, uint64](ctx, arkive.BytesToBytes32([]byte("other")))
	key := arkive.BytesToAddress([]byte("key"))

	require.NoError(t, m1.Set(key, 1))
	require.NoError(t, m2.Set(key, 2))

	v1, err := m1.Get(key)
	require.NoError(t, err)
	v2, err := m2.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1)
	assert.Equal(t, uint64(2), v2)
}
