// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package arkive

import (
	"math/big"
	"time"
)

// Unit is the smallest denomination multiplier of bonded value (10^18).
var Unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Constants fixed at deployment. They are not runtime-mutable.
var (
	// MinStake is the minimum bonded value required to register and to remain
	// eligible for commits after a partial withdrawal.
	MinStake = new(big.Int).Mul(big.NewInt(1000), Unit)

	// ChallengeBond is the exact value a challenger escrows to open a challenge.
	// Kept small relative to MinStake so frivolous challenges are cheap to
	// punish while legitimate ones stay affordable.
	ChallengeBond = new(big.Int).Mul(big.NewInt(10), Unit)

	// RewardScale is the fixed-point precision factor of the per-stake reward
	// accumulator. Per-operation rounding loss is bounded by totalStake/RewardScale
	// and stays in the pool.
	RewardScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

const (
	// ChallengePeriod is the wall-clock window an open challenge has before it
	// can be force-resolved against the operator.
	ChallengePeriod = 72 * time.Hour

	// SlashPercent is the percentage of an operator's current stake forfeited
	// on a lost challenge.
	SlashPercent = 10

	// MaxBatchSize caps the number of content identifiers in a single batch commit.
	MaxBatchSize = 100
)
