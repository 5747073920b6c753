// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed storage slots over a kv store. Values live at
// fixed 32-byte positions; mapping entries at positions derived by hashing the
// key with the mapping's base position.
package storage

import (
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/kv"
)

type Context struct {
	store kv.GetPutter
}

func NewContext(store kv.GetPutter) *Context {
	return &Context{store: store}
}

// Get returns raw bytes at the position, nil when the position is unset.
func (c *Context) Get(pos arkive.Bytes32) ([]byte, error) {
	raw, err := c.store.Get(pos.Bytes())
	if err != nil {
		if c.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "storage get")
	}
	return raw, nil
}

// Set writes raw bytes at the position. Empty bytes clear the position.
func (c *Context) Set(pos arkive.Bytes32, raw []byte) error {
	if len(raw) == 0 {
		if err := c.store.Delete(pos.Bytes()); err != nil {
			return errors.Wrap(err, "storage clear")
		}
		return nil
	}
	if err := c.store.Put(pos.Bytes(), raw); err != nil {
		return errors.Wrap(err, "storage set")
	}
	return nil
}
