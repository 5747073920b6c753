// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"math/big"
)

// Operator is the per-identity stake record. A record is created exactly once
// per identity and never deleted; a fully withdrawn operator keeps a zeroed,
// inactive record so historical counters stay queryable. Suspended marks an
// operator forced out of the active set by a slash, as opposed to one that
// left voluntarily; only a suspension reverses when stake is topped back up.
type Operator struct {
	Stake           *big.Int
	RewardDebt      *big.Int
	RegisteredAt    uint64
	LastClaimAt     uint64
	CommitmentCount uint64
	ChallengesWon   uint64
	ChallengesLost  uint64
	Active          bool
	Suspended       bool
	Endpoint        string
}

// IsEmpty returns true when no record exists for the identity.
func (o *Operator) IsEmpty() bool {
	return o == nil || o.Stake == nil
}

// SuccessRate returns the percentage of challenges won, or 100 when the
// operator has never been challenged.
func (o *Operator) SuccessRate() uint64 {
	total := o.ChallengesWon + o.ChallengesLost
	if total == 0 {
		return 100
	}
	return 100 * o.ChallengesWon / total
}
