// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/storage"
)

var slotTotalStake = arkive.BytesToBytes32([]byte("stats-total-stake"))

// Service manages ledger-wide totals. totalStake always equals the sum of
// every operator record's stake.
type Service struct {
	totalStake *storage.Uint256
}

func New(ctx *storage.Context) *Service {
	return &Service{
		totalStake: storage.NewUint256(ctx, slotTotalStake),
	}
}

// TotalStake returns the aggregate bonded value across all operator records.
func (s *Service) TotalStake() (*big.Int, error) {
	return s.totalStake.Get()
}

// AddStake increases the aggregate on register, top-up or any stake inflow.
func (s *Service) AddStake(amount *big.Int) error {
	return s.totalStake.Add(amount)
}

// SubStake decreases the aggregate on withdrawal or slash.
func (s *Service) SubStake(amount *big.Int) error {
	return s.totalStake.Sub(amount)
}
