// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction, similar to a mapping in Solidity.
// Values are rlp-encoded at positions derived from the key and the mapping's
// base position.
type Mapping[K Key, V any] struct {
	context *Context
	basePos arkive.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos arkive.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) arkive.Bytes32 {
	return arkive.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the stored value, or the zero value when the key is unset.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	raw, err := m.context.Get(m.position(key))
	if err != nil {
		return value, err
	}
	if len(raw) == 0 {
		return value, nil
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, errors.Wrap(err, "mapping decode")
	}
	return value, nil
}

func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.context.Get(m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "mapping encode")
	}
	return m.context.Set(m.position(key), raw)
}

func (m *Mapping[K, V]) Delete(key K) error {
	return m.context.Set(m.position(key), nil)
}
