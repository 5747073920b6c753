// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts enumerates the domain failures of ledger operations. A revert
// means the caller's preconditions were not met and state was left untouched;
// anything else bubbling out of the ledger is an infrastructure fault.
package reverts

import (
	"errors"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevert reports whether err is a domain revert.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	var ve *ErrRevert
	return errors.As(err, &ve)
}

var (
	ErrInsufficientStake  = New("stake below minimum")
	ErrAlreadyRegistered  = New("operator already registered")
	ErrNotRegistered      = New("operator not registered")
	ErrNotActive          = New("operator not active")
	ErrExceedsStake       = New("amount exceeds stake")
	ErrBelowMinimum       = New("remaining stake below minimum")
	ErrInvalidBond        = New("bond must equal the challenge bond")
	ErrNotFound           = New("challenge not found")
	ErrAlreadyResolved    = New("challenge already resolved")
	ErrDeadlineNotReached = New("challenge deadline not reached")
	ErrBatchTooLarge      = New("batch exceeds maximum size")
	ErrUnauthorized       = New("caller is not the verdict source")
)
