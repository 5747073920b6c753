// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bank is the ledger's payout book. Every value the ledger owes an
// identity (stake withdrawals, reward settlements, challenge winnings) is
// credited here as an atomic side effect of the ledger operation. The running
// total of credits makes outbound value externally auditable.
package bank

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/kv"
	"github.com/arkive-net/arkive/storage"
)

var (
	slotAccounts      = arkive.BytesToBytes32([]byte("bank-accounts"))
	slotTotalCredited = arkive.BytesToBytes32([]byte("bank-total-credited"))
)

type Bank struct {
	accounts      *storage.Mapping[arkive.Address, *big.Int]
	totalCredited *storage.Uint256
}

func New(store kv.GetPutter) *Bank {
	ctx := storage.NewContext(store)
	return &Bank{
		accounts:      storage.NewMapping[arkive.Address, *big.Int](ctx, slotAccounts),
		totalCredited: storage.NewUint256(ctx, slotTotalCredited),
	}
}

// Credit adds amount to the identity's payout balance.
func (b *Bank) Credit(addr arkive.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("bank: negative credit")
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := b.Balance(addr)
	if err != nil {
		return err
	}
	if err := b.accounts.Set(addr, balance.Add(balance, amount)); err != nil {
		return err
	}
	return b.totalCredited.Add(amount)
}

// Balance returns the identity's unclaimed payout balance.
func (b *Bank) Balance(addr arkive.Address) (*big.Int, error) {
	balance, err := b.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return new(big.Int), nil
	}
	return balance, nil
}

// TotalCredited returns the cumulative value ever paid out by the ledger.
func (b *Bank) TotalCredited() (*big.Int, error) {
	return b.totalCredited.Get()
}
