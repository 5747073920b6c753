// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger/operators"
)

// RegisterRequest is the body of POST /operators.
type RegisterRequest struct {
	Address  arkive.Address        `json:"address"`
	Endpoint string                `json:"endpoint"`
	Stake    *math.HexOrDecimal256 `json:"stake"`
}

// AmountRequest carries a single value amount, used for staking and withdrawal.
type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Operator is the API presentation of an operator record.
type Operator struct {
	Address         arkive.Address        `json:"address"`
	Endpoint        string                `json:"endpoint"`
	Active          bool                  `json:"active"`
	Suspended       bool                  `json:"suspended"`
	Stake           *math.HexOrDecimal256 `json:"stake"`
	PendingRewards  *math.HexOrDecimal256 `json:"pendingRewards"`
	PayoutBalance   *math.HexOrDecimal256 `json:"payoutBalance"`
	CommitmentCount uint64                `json:"commitmentCount"`
	ChallengesWon   uint64                `json:"challengesWon"`
	ChallengesLost  uint64                `json:"challengesLost"`
	SuccessRate     uint64                `json:"successRate"`
	RegisteredAt    uint64                `json:"registeredAt"`
	LastClaimAt     uint64                `json:"lastClaimAt"`
}

// ClaimResult reports the value paid out by a reward claim.
type ClaimResult struct {
	Paid *math.HexOrDecimal256 `json:"paid"`
}

func convertOperator(addr arkive.Address, record *operators.Operator, pending, payout *big.Int) *Operator {
	return &Operator{
		Address:         addr,
		Endpoint:        record.Endpoint,
		Active:          record.Active,
		Suspended:       record.Suspended,
		Stake:           (*math.HexOrDecimal256)(record.Stake),
		PendingRewards:  (*math.HexOrDecimal256)(pending),
		PayoutBalance:   (*math.HexOrDecimal256)(payout),
		CommitmentCount: record.CommitmentCount,
		ChallengesWon:   record.ChallengesWon,
		ChallengesLost:  record.ChallengesLost,
		SuccessRate:     record.SuccessRate(),
		RegisteredAt:    record.RegisteredAt,
		LastClaimAt:     record.LastClaimAt,
	}
}
