// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger/reverts"
	"github.com/arkive-net/arkive/lvldb"
	"github.com/arkive-net/arkive/storage"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(storage.NewContext(db), big.NewInt(1000))
}

func TestServiceRegister(t *testing.T) {
	svc := newService(t)
	op := arkive.BytesToAddress([]byte("op"))

	_, err := svc.Register(op, "https://op.example", big.NewInt(999), big.NewInt(0), 42)
	assert.Equal(t, error(reverts.ErrInsufficientStake), err)

	record, err := svc.Register(op, "https://op.example", big.NewInt(1500), big.NewInt(7), 42)
	require.NoError(t, err)
	assert.True(t, record.Active)
	assert.Equal(t, uint64(42), record.RegisteredAt)
	assert.Equal(t, uint64(42), record.LastClaimAt)
	assert.Equal(t, 0, record.RewardDebt.Cmp(big.NewInt(7)))

	_, err = svc.Register(op, "", big.NewInt(1500), big.NewInt(0), 43)
	assert.Equal(t, error(reverts.ErrAlreadyRegistered), err)

	// the record round-trips through storage
	loaded, err := svc.GetExisting(op)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	active, err := svc.IsActive(op)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestServiceGetExisting(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetExisting(arkive.BytesToAddress([]byte("ghost")))
	assert.Equal(t, error(reverts.ErrNotRegistered), err)
}

func TestServiceDeactivate(t *testing.T) {
	svc := newService(t)
	op := arkive.BytesToAddress([]byte("op"))

	record, err := svc.Register(op, "", big.NewInt(2000), big.NewInt(0), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(op, record))
	assert.False(t, record.Active)
	assert.Equal(t, error(reverts.ErrNotActive), svc.Deactivate(op, record))

	active, err := svc.IsActive(op)
	require.NoError(t, err)
	assert.False(t, active)

	// stake survives deactivation
	loaded, err := svc.GetExisting(op)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Stake.Cmp(big.NewInt(2000)))
}

func TestServiceSuspendReactivate(t *testing.T) {
	svc := newService(t)
	op := arkive.BytesToAddress([]byte("op"))

	record, err := svc.Register(op, "", big.NewInt(2000), big.NewInt(0), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Suspend(op, record))
	assert.False(t, record.Active)
	assert.True(t, record.Suspended)
	assert.Equal(t, error(reverts.ErrNotActive), svc.Suspend(op, record))

	active, err := svc.IsActive(op)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, svc.Reactivate(op, record))
	assert.True(t, record.Active)
	assert.False(t, record.Suspended)
	assert.Error(t, svc.Reactivate(op, record))

	active, err = svc.IsActive(op)
	require.NoError(t, err)
	assert.True(t, active)

	// a voluntary deactivation does not read as a suspension
	require.NoError(t, svc.Deactivate(op, record))
	assert.False(t, record.Suspended)
	assert.Error(t, svc.Reactivate(op, record))
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		won      uint64
		lost     uint64
		expected uint64
	}{
		{0, 0, 100},
		{1, 0, 100},
		{0, 1, 0},
		{1, 1, 50},
		{2, 1, 66},
		{99, 1, 99},
	}
	for _, tt := range tests {
		record := Operator{ChallengesWon: tt.won, ChallengesLost: tt.lost}
		assert.Equal(t, tt.expected, record.SuccessRate())
	}
}

func TestActiveSetSwapAndPop(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	set := newActiveSet(
		storage.NewContext(db),
		arkive.BytesToBytes32([]byte("count")),
		arkive.BytesToBytes32([]byte("index")),
		arkive.BytesToBytes32([]byte("position")),
	)

	a := arkive.BytesToAddress([]byte("a"))
	b := arkive.BytesToAddress([]byte("b"))
	c := arkive.BytesToAddress([]byte("c"))

	for _, addr := range []arkive.Address{a, b, c} {
		require.NoError(t, set.Add(addr))
	}
	assert.Error(t, set.Add(a))

	all, err := set.All()
	require.NoError(t, err)
	assert.Equal(t, []arkive.Address{a, b, c}, all)

	// removing the head swaps the tail into its slot
	require.NoError(t, set.Remove(a))
	all, err = set.All()
	require.NoError(t, err)
	assert.Equal(t, []arkive.Address{c, b}, all)

	contains, err := set.Contains(a)
	require.NoError(t, err)
	assert.False(t, contains)
	contains, err = set.Contains(c)
	require.NoError(t, err)
	assert.True(t, contains)

	assert.Error(t, set.Remove(a))

	// the moved entry is still removable through its new position
	require.NoError(t, set.Remove(c))
	require.NoError(t, set.Remove(b))
	size, err := set.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), size)

	// reusable after draining
	require.NoError(t, set.Add(b))
	all, err = set.All()
	require.NoError(t, err)
	assert.Equal(t, []arkive.Address{b}, all)
}
