// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/arkive-net/arkive/arkive"

// VerdictSource decides who may rule on whether a challenged operator produced
// valid data. The trust assumption is swappable: a multi-party oracle or a
// proof verifier can replace the reference implementation without touching
// ledger logic.
type VerdictSource interface {
	Authorized(caller arkive.Address) bool
}

// SoleArbiter is the reference verdict source: a single privileged caller.
// A documented centralization point.
type SoleArbiter struct {
	addr arkive.Address
}

func NewSoleArbiter(addr arkive.Address) *SoleArbiter {
	return &SoleArbiter{addr: addr}
}

func (a *SoleArbiter) Authorized(caller arkive.Address) bool {
	return caller == a.addr
}
