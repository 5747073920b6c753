// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger/reverts"
	"github.com/arkive-net/arkive/storage"
)

var (
	slotRecords        = arkive.BytesToBytes32([]byte("operators-records"))
	slotActiveCount    = arkive.BytesToBytes32([]byte("operators-active-count"))
	slotActiveIndex    = arkive.BytesToBytes32([]byte("operators-active-index"))
	slotActivePosition = arkive.BytesToBytes32([]byte("operators-active-position"))
)

// Service owns operator records and the active membership set.
type Service struct {
	records  *storage.Mapping[arkive.Address, Operator]
	active   *activeSet
	minStake *big.Int
}

func New(ctx *storage.Context, minStake *big.Int) *Service {
	return &Service{
		records:  storage.NewMapping[arkive.Address, Operator](ctx, slotRecords),
		active:   newActiveSet(ctx, slotActiveCount, slotActiveIndex, slotActivePosition),
		minStake: minStake,
	}
}

// Get returns the operator record, possibly empty.
func (s *Service) Get(id arkive.Address) (*Operator, error) {
	record, err := s.records.Get(id)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetExisting returns the operator record, failing when no record exists.
func (s *Service) GetExisting(id arkive.Address) (*Operator, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return nil, reverts.ErrNotRegistered
	}
	return record, nil
}

// Update persists the operator record.
func (s *Service) Update(id arkive.Address, record *Operator) error {
	if err := s.records.Set(id, *record); err != nil {
		return errors.Wrap(err, "failed to set operator record")
	}
	return nil
}

// Register creates the operator record and adds it to the active set.
// A record is created exactly once per identity.
func (s *Service) Register(
	id arkive.Address,
	endpoint string,
	stake *big.Int,
	rewardDebt *big.Int,
	now uint64,
) (*Operator, error) {
	if stake.Cmp(s.minStake) < 0 {
		return nil, reverts.ErrInsufficientStake
	}
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !existing.IsEmpty() {
		return nil, reverts.ErrAlreadyRegistered
	}

	record := &Operator{
		Stake:        new(big.Int).Set(stake),
		RewardDebt:   new(big.Int).Set(rewardDebt),
		RegisteredAt: now,
		LastClaimAt:  now,
		Active:       true,
		Endpoint:     endpoint,
	}
	if err := s.Update(id, record); err != nil {
		return nil, err
	}
	if err := s.active.Add(id); err != nil {
		return nil, err
	}
	return record, nil
}

// Deactivate removes the operator from the active set without touching stake.
// The residual stake stays withdrawable.
func (s *Service) Deactivate(id arkive.Address, record *Operator) error {
	if !record.Active {
		return reverts.ErrNotActive
	}
	if err := s.active.Remove(id); err != nil {
		return err
	}
	record.Active = false
	return s.Update(id, record)
}

// Suspend removes a slash-sanctioned operator from the active set. Unlike a
// voluntary deactivation, a suspension reverses via Reactivate once the stake
// is back at the minimum.
func (s *Service) Suspend(id arkive.Address, record *Operator) error {
	if !record.Active {
		return reverts.ErrNotActive
	}
	if err := s.active.Remove(id); err != nil {
		return err
	}
	record.Active = false
	record.Suspended = true
	return s.Update(id, record)
}

// Reactivate returns a suspended operator to the active set.
func (s *Service) Reactivate(id arkive.Address, record *Operator) error {
	if record.Active || !record.Suspended {
		return errors.New("operator not suspended")
	}
	if err := s.active.Add(id); err != nil {
		return err
	}
	record.Active = true
	record.Suspended = false
	return s.Update(id, record)
}

// IsActive reports active-set membership.
func (s *Service) IsActive(id arkive.Address) (bool, error) {
	return s.active.Contains(id)
}

// ActiveOperators lists the identities currently in the active set.
func (s *Service) ActiveOperators() ([]arkive.Address, error) {
	return s.active.All()
}

// ActiveCount returns the active set size.
func (s *Service) ActiveCount() (uint64, error) {
	return s.active.Len()
}
