// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"time"

	"github.com/arkive-net/arkive/arkive"
)

// Config carries the deployment constants of a ledger instance. Fixed at
// construction, never runtime-mutable.
type Config struct {
	MinStake        *big.Int
	ChallengeBond   *big.Int
	ChallengePeriod time.Duration
	SlashPercent    uint64
	MaxBatchSize    int
}

// DefaultConfig returns the deployment constants from the protocol parameters.
func DefaultConfig() Config {
	return Config{
		MinStake:        arkive.MinStake,
		ChallengeBond:   arkive.ChallengeBond,
		ChallengePeriod: arkive.ChallengePeriod,
		SlashPercent:    arkive.SlashPercent,
		MaxBatchSize:    arkive.MaxBatchSize,
	}
}
