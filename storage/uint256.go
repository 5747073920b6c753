// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
)

// Uint256 is a wrapper for storage and retrieval of a non-negative big integer,
// similar to an uint256 slot in a smart contract.
type Uint256 struct {
	context *Context
	pos     arkive.Bytes32
}

func NewUint256(context *Context, pos arkive.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.Get(u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("uint256: negative value")
	}
	return u.context.Set(u.pos, value.Bytes())
}

func (u *Uint256) Add(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(stored.Add(stored, value))
}

// Sub subtracts value, failing on underflow so accounting bugs surface instead
// of silently wrapping.
func (u *Uint256) Sub(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	if stored.Cmp(value) < 0 {
		return errors.New("uint256: underflow")
	}
	return u.Set(stored.Sub(stored, value))
}
