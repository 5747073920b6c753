// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package challenges

import (
	"math/big"

	"github.com/arkive-net/arkive/arkive"
)

// Challenge disputes an operator's claim to store a content identifier.
// Lifecycle: open until resolved; resolution is terminal and the outcome is
// fixed forever.
type Challenge struct {
	Challenger  arkive.Address
	Operator    arkive.Address
	ContentID   arkive.Bytes32
	Bond        *big.Int
	Deadline    uint64
	Resolved    bool
	OperatorWon bool
}

// IsEmpty returns true when no challenge exists for the identifier.
func (c *Challenge) IsEmpty() bool {
	return c == nil || c.Bond == nil
}

// Expired reports whether the response deadline has passed.
func (c *Challenge) Expired(now uint64) bool {
	return now >= c.Deadline
}
