// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
)

// Uint64 is a wrapper for storage and retrieval of an uint64 counter.
type Uint64 struct {
	context *Context
	pos     arkive.Bytes32
}

func NewUint64(context *Context, pos arkive.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	raw, err := u.context.Get(u.pos)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.New("uint64: malformed slot")
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (u *Uint64) Set(value uint64) error {
	if value == 0 {
		return u.context.Set(u.pos, nil)
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	return u.context.Set(u.pos, b[:])
}

// Inc increments the counter and returns the pre-increment value.
func (u *Uint64) Inc() (uint64, error) {
	value, err := u.Get()
	if err != nil {
		return 0, err
	}
	return value, u.Set(value + 1)
}
