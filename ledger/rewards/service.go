// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the lazy proportional reward accumulator. Funding
// events raise a per-unit-of-stake accumulator instead of iterating operators;
// an operator's pending reward is priced against the accumulator on demand.
package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger/operators"
	"github.com/arkive-net/arkive/storage"
)

var (
	slotAccPerStake = arkive.BytesToBytes32([]byte("rewards-acc-per-stake"))
	slotPool        = arkive.BytesToBytes32([]byte("rewards-pool"))
)

// Service manages the reward pool and the fixed-point accumulator.
type Service struct {
	acc   *storage.Uint256
	pool  *storage.Uint256
	scale *big.Int
}

func New(ctx *storage.Context, scale *big.Int) *Service {
	return &Service{
		acc:   storage.NewUint256(ctx, slotAccPerStake),
		pool:  storage.NewUint256(ctx, slotPool),
		scale: scale,
	}
}

// Fund credits the pool and raises the accumulator by amount*scale/totalStake.
// With zero total stake the amount is absorbed into the pool without raising
// the accumulator; such value stays unattributable until someone stakes.
// Integer division rounds down, so rounding loss accrues to the pool and the
// accumulator never prices in more than was funded.
func (s *Service) Fund(amount, totalStake *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("rewards: negative funding amount")
	}
	if totalStake.Sign() > 0 {
		delta := new(big.Int).Mul(amount, s.scale)
		delta.Div(delta, totalStake)
		if err := s.acc.Add(delta); err != nil {
			return err
		}
	}
	return s.pool.Add(amount)
}

// AccPerStake returns the monotonically non-decreasing accumulator value.
func (s *Service) AccPerStake() (*big.Int, error) {
	return s.acc.Get()
}

// Pool returns the funded value not yet paid out.
func (s *Service) Pool() (*big.Int, error) {
	return s.pool.Get()
}

// Accumulated returns stake * accRewardPerStake / scale, the cumulative reward
// a stake of this size would have earned since genesis.
func (s *Service) Accumulated(stake *big.Int) (*big.Int, error) {
	acc, err := s.acc.Get()
	if err != nil {
		return nil, err
	}
	accumulated := new(big.Int).Mul(stake, acc)
	return accumulated.Div(accumulated, s.scale), nil
}

// Pending returns the operator's settleable reward: accumulated minus what was
// already priced in at the last settlement point.
func (s *Service) Pending(record *operators.Operator) (*big.Int, error) {
	accumulated, err := s.Accumulated(record.Stake)
	if err != nil {
		return nil, err
	}
	pending := accumulated.Sub(accumulated, record.RewardDebt)
	if pending.Sign() < 0 {
		// the accumulator is monotonic and debt is always a past reading,
		// so a negative pending is an accounting bug, not caller error
		return nil, errors.New("rewards: negative pending reward")
	}
	return pending, nil
}

// PayOut removes a settled amount from the pool.
func (s *Service) PayOut(amount *big.Int) error {
	if err := s.pool.Sub(amount); err != nil {
		return errors.Wrap(err, "rewards: payout exceeds pool")
	}
	return nil
}
