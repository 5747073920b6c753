// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/storage"
)

type indexKey uint64

func (k indexKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// activeSet is the membership set of currently active operators. It keeps a
// dense index->address vector alongside an address->position reverse index so
// both removal and membership checks are O(1). Removal swaps the last entry
// into the vacated slot and truncates.
//
// Invariant owned here: the reverse index always reflects the vector position
// (stored as position+1 so zero means absent).
type activeSet struct {
	count    *storage.Uint64
	byIndex  *storage.Mapping[indexKey, arkive.Address]
	position *storage.Mapping[arkive.Address, uint64]
}

func newActiveSet(ctx *storage.Context, countPos, indexPos, positionPos arkive.Bytes32) *activeSet {
	return &activeSet{
		count:    storage.NewUint64(ctx, countPos),
		byIndex:  storage.NewMapping[indexKey, arkive.Address](ctx, indexPos),
		position: storage.NewMapping[arkive.Address, uint64](ctx, positionPos),
	}
}

func (s *activeSet) Len() (uint64, error) {
	return s.count.Get()
}

func (s *activeSet) Contains(addr arkive.Address) (bool, error) {
	pos, err := s.position.Get(addr)
	if err != nil {
		return false, err
	}
	return pos > 0, nil
}

// Add appends the address to the tail of the vector.
func (s *activeSet) Add(addr arkive.Address) error {
	pos, err := s.position.Get(addr)
	if err != nil {
		return err
	}
	if pos > 0 {
		return errors.New("active set: address already present")
	}
	size, err := s.count.Get()
	if err != nil {
		return err
	}
	if err := s.byIndex.Set(indexKey(size), addr); err != nil {
		return err
	}
	if err := s.position.Set(addr, size+1); err != nil {
		return err
	}
	return s.count.Set(size + 1)
}

// Remove swaps the last entry into the removed entry's slot and truncates.
func (s *activeSet) Remove(addr arkive.Address) error {
	pos, err := s.position.Get(addr)
	if err != nil {
		return err
	}
	if pos == 0 {
		return errors.New("active set: address not present")
	}
	size, err := s.count.Get()
	if err != nil {
		return err
	}
	idx, last := pos-1, size-1

	if idx != last {
		moved, err := s.byIndex.Get(indexKey(last))
		if err != nil {
			return err
		}
		if err := s.byIndex.Set(indexKey(idx), moved); err != nil {
			return err
		}
		if err := s.position.Set(moved, idx+1); err != nil {
			return err
		}
	}
	if err := s.byIndex.Delete(indexKey(last)); err != nil {
		return err
	}
	if err := s.position.Delete(addr); err != nil {
		return err
	}
	return s.count.Set(size - 1)
}

// All returns the member addresses in vector order.
func (s *activeSet) All() ([]arkive.Address, error) {
	size, err := s.count.Get()
	if err != nil {
		return nil, err
	}
	members := make([]arkive.Address, 0, size)
	for i := uint64(0); i < size; i++ {
		addr, err := s.byIndex.Get(indexKey(i))
		if err != nil {
			return nil, err
		}
		members = append(members, addr)
	}
	return members, nil
}
