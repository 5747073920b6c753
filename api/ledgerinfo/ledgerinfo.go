// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledgerinfo

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/api/utils"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/ledger"
)

type LedgerInfo struct {
	ledger  *ledger.Ledger
	payouts *bank.Bank
}

func New(ledger *ledger.Ledger, payouts *bank.Bank) *LedgerInfo {
	return &LedgerInfo{
		ledger:  ledger,
		payouts: payouts,
	}
}

// Info aggregates the ledger-wide counters.
type Info struct {
	TotalStake        *math.HexOrDecimal256 `json:"totalStake"`
	RewardPool        *math.HexOrDecimal256 `json:"rewardPool"`
	AccRewardPerStake *math.HexOrDecimal256 `json:"accRewardPerStake"`
	EscrowedBonds     *math.HexOrDecimal256 `json:"escrowedBonds"`
	TotalPaidOut      *math.HexOrDecimal256 `json:"totalPaidOut"`
	ActiveOperators   int                   `json:"activeOperators"`
}

// FundRequest is the body of POST /ledger/pool.
type FundRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func (li *LedgerInfo) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	totalStake, err := li.ledger.TotalStake()
	if err != nil {
		return err
	}
	pool, err := li.ledger.RewardPool()
	if err != nil {
		return err
	}
	acc, err := li.ledger.AccRewardPerStake()
	if err != nil {
		return err
	}
	escrow, err := li.ledger.EscrowedBonds()
	if err != nil {
		return err
	}
	paidOut, err := li.payouts.TotalCredited()
	if err != nil {
		return err
	}
	active, err := li.ledger.ActiveOperators()
	if err != nil {
		return err
	}

	return utils.WriteJSON(w, &Info{
		TotalStake:        (*math.HexOrDecimal256)(totalStake),
		RewardPool:        (*math.HexOrDecimal256)(pool),
		AccRewardPerStake: (*math.HexOrDecimal256)(acc),
		EscrowedBonds:     (*math.HexOrDecimal256)(escrow),
		TotalPaidOut:      (*math.HexOrDecimal256)(paidOut),
		ActiveOperators:   len(active),
	})
}

func (li *LedgerInfo) handleFundPool(w http.ResponseWriter, req *http.Request) error {
	var body FundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: missing"))
	}

	if err := li.ledger.FundPool((*big.Int)(body.Amount)); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (li *LedgerInfo) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /ledger").
		HandlerFunc(utils.WrapHandlerFunc(li.handleGetInfo))
	sub.Path("/pool").
		Methods(http.MethodPost).
		Name("POST /ledger/pool").
		HandlerFunc(utils.WrapHandlerFunc(li.handleFundPool))
}
